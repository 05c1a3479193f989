package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"parking-service/internal/model"
)

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// FindByPlate returns the currently parked vehicle with the given normalized
// plate, or nil when there is none.
func (r *VehicleRepository) FindByPlate(ctx context.Context, normalizedPlate string) (*model.Vehicle, error) {
	if normalizedPlate == "" {
		return nil, nil
	}
	var vehicle model.Vehicle
	err := r.db.WithContext(ctx).
		Where("normalized_plate = ? AND status = ?", normalizedPlate, model.VehicleStatusParked).
		First(&vehicle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vehicle, nil
}

// FindCurrentlyParked returns every parked vehicle ordered by check-in time,
// oldest first. Suggestion ranking relies on this order being stable.
func (r *VehicleRepository) FindCurrentlyParked(ctx context.Context) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	err := r.db.WithContext(ctx).
		Where("status = ?", model.VehicleStatusParked).
		Order("check_in_time ASC").
		Find(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *VehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&vehicle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vehicle, nil
}

func (r *VehicleRepository) Create(ctx context.Context, vehicle *model.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

func (r *VehicleRepository) Update(ctx context.Context, vehicle *model.Vehicle) error {
	return r.db.WithContext(ctx).Save(vehicle).Error
}

// CountParkedByFloor returns parked vehicle counts grouped by floor via the
// vehicle's occupied spot.
func (r *VehicleRepository) CountParkedByFloor(ctx context.Context) (map[int]int64, error) {
	type row struct {
		Floor int
		Total int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Table("vehicles").
		Select("spots.floor AS floor, COUNT(*) AS total").
		Joins("JOIN spots ON spots.id = vehicles.spot_id").
		Where("vehicles.status = ?", model.VehicleStatusParked).
		Group("spots.floor").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Floor] = rw.Total
	}
	return counts, nil
}
