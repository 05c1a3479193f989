package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"parking-service/internal/config"
	"parking-service/internal/match"
	"parking-service/internal/model"
	"parking-service/internal/repository"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("conflict")
	ErrPermissionDenied = errors.New("permission denied")
)

// ParkingService handles the check-in/check-out lifecycle and occupancy
// reporting. Search and suggestions live in the search engine; this layer
// owns the writes.
type ParkingService struct {
	db          *gorm.DB
	vehicleRepo *repository.VehicleRepository
	spotRepo    *repository.SpotRepository
	billing     config.BillingConfig
	log         zerolog.Logger
}

func NewParkingService(
	db *gorm.DB,
	vehicleRepo *repository.VehicleRepository,
	spotRepo *repository.SpotRepository,
	billing config.BillingConfig,
	log zerolog.Logger,
) *ParkingService {
	return &ParkingService{
		db:          db,
		vehicleRepo: vehicleRepo,
		spotRepo:    spotRepo,
		billing:     billing,
		log:         log,
	}
}

type CheckInInput struct {
	LicensePlate string
	VehicleType  string
	SpotID       string
}

// CheckIn parks a vehicle: validates the plate, rejects duplicates, claims a
// spot and creates the stay in one transaction.
func (s *ParkingService) CheckIn(ctx context.Context, principal model.Principal, input CheckInInput) (*model.Vehicle, error) {
	if !principal.IsAdmin() && !principal.IsOperator() {
		return nil, ErrPermissionDenied
	}

	normalized := match.NormalizeLicensePlate(input.LicensePlate)
	if normalized == "" {
		return nil, fmt.Errorf("%w: license plate is required", ErrInvalidInput)
	}

	vehicleType, err := parseVehicleType(input.VehicleType)
	if err != nil {
		return nil, err
	}

	existing, err := s.vehicleRepo.FindByPlate(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to check in vehicle: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: vehicle %s is already parked", ErrConflict, normalized)
	}

	spot, err := s.pickSpot(ctx, vehicleType, input.SpotID)
	if err != nil {
		return nil, err
	}

	vehicle := &model.Vehicle{
		LicensePlate:    input.LicensePlate,
		NormalizedPlate: normalized,
		VehicleType:     vehicleType,
		SpotID:          &spot.ID,
		Status:          model.VehicleStatusParked,
		CheckInTime:     time.Now(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(vehicle).Error; err != nil {
			return err
		}
		spot.Status = model.SpotStatusOccupied
		return tx.Save(spot).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check in vehicle: %w", err)
	}

	s.log.Info().
		Str("plate", normalized).
		Str("spot_id", spot.ID.String()).
		Int("floor", spot.Floor).
		Msg("vehicle checked in")

	return vehicle, nil
}

// CheckOut ends a stay: computes the fee, marks the vehicle departed and
// frees its spot in one transaction.
func (s *ParkingService) CheckOut(ctx context.Context, principal model.Principal, plate string) (*model.Vehicle, error) {
	if !principal.IsAdmin() && !principal.IsOperator() {
		return nil, ErrPermissionDenied
	}

	normalized := match.NormalizeLicensePlate(plate)
	if normalized == "" {
		return nil, fmt.Errorf("%w: license plate is required", ErrInvalidInput)
	}

	vehicle, err := s.vehicleRepo.FindByPlate(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to check out vehicle: %w", err)
	}
	if vehicle == nil {
		return nil, fmt.Errorf("%w: no parked vehicle with plate %s", ErrNotFound, normalized)
	}

	now := time.Now()
	fee := ComputeFee(vehicle.CheckInTime, now, s.billing.HourlyRate(string(vehicle.VehicleType)), s.billing.MinimumFee)

	spotID := vehicle.SpotID
	vehicle.Status = model.VehicleStatusDeparted
	vehicle.CheckOutTime = &now
	vehicle.FeeCharged = &fee

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(vehicle).Error; err != nil {
			return err
		}
		if spotID == nil {
			return nil
		}
		return tx.Model(&model.Spot{}).
			Where("id = ? AND status = ?", *spotID, model.SpotStatusOccupied).
			Update("status", model.SpotStatusAvailable).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check out vehicle: %w", err)
	}

	s.log.Info().
		Str("plate", normalized).
		Float64("fee", fee).
		Dur("stay", now.Sub(vehicle.CheckInTime)).
		Msg("vehicle checked out")

	return vehicle, nil
}

// FloorOccupancy is the per floor slice of the occupancy report.
type FloorOccupancy struct {
	Floor     int   `json:"floor"`
	Total     int64 `json:"total"`
	Occupied  int64 `json:"occupied"`
	Available int64 `json:"available"`
}

// GetOccupancy reports per floor spot usage.
func (s *ParkingService) GetOccupancy(ctx context.Context) ([]FloorOccupancy, error) {
	totals, err := s.spotRepo.CountByFloor(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get occupancy: %w", err)
	}
	occupied, err := s.vehicleRepo.CountParkedByFloor(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get occupancy: %w", err)
	}

	report := make([]FloorOccupancy, 0, len(totals))
	for floor, total := range totals {
		report = append(report, FloorOccupancy{
			Floor:     floor,
			Total:     total,
			Occupied:  occupied[floor],
			Available: total - occupied[floor],
		})
	}
	sort.Slice(report, func(i, j int) bool { return report[i].Floor < report[j].Floor })
	return report, nil
}

func (s *ParkingService) pickSpot(ctx context.Context, vehicleType model.VehicleType, spotID string) (*model.Spot, error) {
	if spotID != "" {
		id, err := uuid.Parse(spotID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid spot id", ErrInvalidInput)
		}
		spot, err := s.spotRepo.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check in vehicle: %w", err)
		}
		if spot == nil {
			return nil, fmt.Errorf("%w: spot %s does not exist", ErrNotFound, id)
		}
		if spot.Status != model.SpotStatusAvailable {
			return nil, fmt.Errorf("%w: spot %s is not available", ErrConflict, id)
		}
		return spot, nil
	}

	filter := model.SpotFilter{}
	if spotType := spotTypeFor(vehicleType); spotType != "" {
		filter.SpotType = &spotType
	}
	spots, err := s.spotRepo.FindAvailable(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to check in vehicle: %w", err)
	}
	if len(spots) == 0 && filter.SpotType != nil {
		// Fall back to any available spot when the preferred type is full.
		spots, err = s.spotRepo.FindAvailable(ctx, model.SpotFilter{})
		if err != nil {
			return nil, fmt.Errorf("failed to check in vehicle: %w", err)
		}
	}
	if len(spots) == 0 {
		return nil, fmt.Errorf("%w: no available spots", ErrConflict)
	}
	return &spots[0], nil
}

func parseVehicleType(raw string) (model.VehicleType, error) {
	switch model.VehicleType(raw) {
	case "":
		return model.VehicleTypeCar, nil
	case model.VehicleTypeCar, model.VehicleTypeMotorcycle, model.VehicleTypeTruck, model.VehicleTypeEV:
		return model.VehicleType(raw), nil
	default:
		return "", fmt.Errorf("%w: unknown vehicle type %q", ErrInvalidInput, raw)
	}
}

func spotTypeFor(vehicleType model.VehicleType) model.SpotType {
	switch vehicleType {
	case model.VehicleTypeMotorcycle:
		return model.SpotTypeCompact
	case model.VehicleTypeTruck:
		return model.SpotTypeLarge
	case model.VehicleTypeEV:
		return model.SpotTypeCharging
	default:
		return model.SpotTypeStandard
	}
}
