package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'vehicle_status') THEN
			CREATE TYPE vehicle_status AS ENUM ('PARKED', 'DEPARTED');
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'vehicle_type') THEN
			CREATE TYPE vehicle_type AS ENUM ('CAR', 'MOTORCYCLE', 'TRUCK', 'EV');
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'spot_status') THEN
			CREATE TYPE spot_status AS ENUM ('AVAILABLE', 'OCCUPIED', 'CLOSED');
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'spot_type') THEN
			CREATE TYPE spot_type AS ENUM ('STANDARD', 'COMPACT', 'LARGE', 'CHARGING');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS spots (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		floor INT NOT NULL,
		bay VARCHAR(16) NOT NULL,
		spot_number INT NOT NULL,
		spot_type spot_type NOT NULL DEFAULT 'STANDARD',
		features JSONB,
		status spot_status NOT NULL DEFAULT 'AVAILABLE',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (floor, bay, spot_number)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_spots_floor ON spots (floor);`,
	`CREATE INDEX IF NOT EXISTS idx_spots_status ON spots (status);`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		license_plate VARCHAR(32) NOT NULL,
		normalized_plate VARCHAR(32) NOT NULL,
		vehicle_type vehicle_type NOT NULL DEFAULT 'CAR',
		spot_id UUID REFERENCES spots(id) ON DELETE SET NULL,
		status vehicle_status NOT NULL DEFAULT 'PARKED',
		check_in_time TIMESTAMPTZ NOT NULL,
		check_out_time TIMESTAMPTZ,
		fee_charged DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_vehicles_normalized_plate ON vehicles (normalized_plate);`,
	`CREATE INDEX IF NOT EXISTS idx_vehicles_status ON vehicles (status);`,
	`CREATE INDEX IF NOT EXISTS idx_vehicles_spot_id ON vehicles (spot_id);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_vehicles_parked_plate
		ON vehicles (normalized_plate) WHERE status = 'PARKED';`,
	`CREATE OR REPLACE FUNCTION set_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_vehicles_updated_at') THEN
			CREATE TRIGGER trg_vehicles_updated_at
				BEFORE UPDATE ON vehicles
				FOR EACH ROW
				EXECUTE PROCEDURE set_updated_at();
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_spots_updated_at') THEN
			CREATE TRIGGER trg_spots_updated_at
				BEFORE UPDATE ON spots
				FOR EACH ROW
				EXECUTE PROCEDURE set_updated_at();
		END IF;
	END
	$$;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
