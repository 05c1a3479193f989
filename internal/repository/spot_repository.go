package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"parking-service/internal/model"
)

type SpotRepository struct {
	db *gorm.DB
}

func NewSpotRepository(db *gorm.DB) *SpotRepository {
	return &SpotRepository{db: db}
}

func (r *SpotRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Spot, error) {
	var spot model.Spot
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&spot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &spot, nil
}

// FindAvailable lists AVAILABLE spots matching the filter, ordered by floor,
// bay and spot number. Feature filtering uses jsonb containment.
func (r *SpotRepository) FindAvailable(ctx context.Context, filter model.SpotFilter) ([]model.Spot, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Spot{}).
		Where("status = ?", model.SpotStatusAvailable)

	if filter.Floor != nil {
		query = query.Where("floor = ?", *filter.Floor)
	}
	if filter.Bay != nil {
		query = query.Where("bay = ?", *filter.Bay)
	}
	if filter.SpotType != nil {
		query = query.Where("spot_type = ?", *filter.SpotType)
	}
	for _, feature := range filter.Features {
		query = query.Where("features @> ?::jsonb", featureJSON(feature))
	}

	var spots []model.Spot
	if err := query.Order("floor ASC, bay ASC, spot_number ASC").Find(&spots).Error; err != nil {
		return nil, err
	}
	return spots, nil
}

// featureJSON renders a single feature as a jsonb array literal for the @>
// containment operator, escaping whatever the caller passed in.
func featureJSON(feature string) string {
	encoded, _ := json.Marshal([]string{feature})
	return string(encoded)
}

func (r *SpotRepository) Update(ctx context.Context, spot *model.Spot) error {
	return r.db.WithContext(ctx).Save(spot).Error
}

// CountByFloor returns total spot counts per floor, excluding CLOSED spots.
func (r *SpotRepository) CountByFloor(ctx context.Context) (map[int]int64, error) {
	type row struct {
		Floor int
		Total int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.Spot{}).
		Select("floor, COUNT(*) AS total").
		Where("status <> ?", model.SpotStatusClosed).
		Group("floor").
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
