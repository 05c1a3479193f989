// Package search implements the license plate search engine: multi mode
// scoring over the set of currently parked vehicles, spot enrichment of the
// top matches, and a TTL cache of parked plates backing typeahead
// suggestions.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"parking-service/internal/match"
	"parking-service/internal/model"
)

var ErrPlateRequired = errors.New("license plate is required")

const (
	DefaultCacheTTL        = 30 * time.Second
	DefaultSuggestionLimit = 10
	DefaultThreshold       = 0.6
	DefaultMaxResults      = 20
)

// VehicleDirectory is the vehicle collaborator consumed by the engine.
// FindByPlate takes a normalized plate and returns nil when there is no
// currently parked vehicle with that plate.
type VehicleDirectory interface {
	FindByPlate(ctx context.Context, normalizedPlate string) (*model.Vehicle, error)
	FindCurrentlyParked(ctx context.Context) ([]model.Vehicle, error)
}

// SpotDirectory is the spot collaborator consumed by the engine.
type SpotDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Spot, error)
	FindAvailable(ctx context.Context, filter model.SpotFilter) ([]model.Spot, error)
}

// VehicleDetail is a vehicle enriched with its spot, when occupied.
type VehicleDetail struct {
	Vehicle model.Vehicle `json:"vehicle"`
	Spot    *model.Spot   `json:"spot,omitempty"`
}

// LookupResult is the outcome of an exact plate lookup.
type LookupResult struct {
	Found   bool           `json:"found"`
	Vehicle *VehicleDetail `json:"vehicle,omitempty"`
	Message string         `json:"message,omitempty"`
}

// EnrichedMatch is one ranked search hit with vehicle and spot detail.
type EnrichedMatch struct {
	Plate     string            `json:"plate"`
	Score     float64           `json:"score"`
	MatchType string            `json:"match_type"`
	Highlight match.Highlighted `json:"highlight"`
	Vehicle   model.Vehicle     `json:"vehicle"`
	Spot      *model.Spot       `json:"spot,omitempty"`
}

// Result is the response of SearchVehicles. A validation failure yields a
// zero match Result with Errors set, not a Go error.
type Result struct {
	Matches    []EnrichedMatch `json:"matches"`
	Count      int             `json:"count"`
	SearchTerm string          `json:"search_term"`
	Mode       match.Mode      `json:"mode"`
	Errors     []string        `json:"errors,omitempty"`
}

// Engine resolves user supplied plate strings against the vehicle directory.
// Scoring is delegated to the match package; the engine owns collaborator
// access, enrichment and the suggestion cache.
type Engine struct {
	vehicles VehicleDirectory
	spots    SpotDirectory
	cache    *plateCache
	log      zerolog.Logger
}

func NewEngine(vehicles VehicleDirectory, spots SpotDirectory, cacheTTL time.Duration, log zerolog.Logger) *Engine {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &Engine{
		vehicles: vehicles,
		spots:    spots,
		cache:    newPlateCache(cacheTTL, time.Now),
		log:      log,
	}
}

// FindVehicleByLicensePlate performs an exact lookup of a currently parked
// vehicle. A blank plate is a caller error; a plate with no parked vehicle is
// a Found=false result, not an error.
func (e *Engine) FindVehicleByLicensePlate(ctx context.Context, plate string) (*LookupResult, error) {
	normalized := match.NormalizeLicensePlate(plate)
	if normalized == "" {
		return nil, ErrPlateRequired
	}

	vehicle, err := e.vehicles.FindByPlate(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to find vehicle by license plate: %w", err)
	}
	if vehicle == nil {
		return &LookupResult{
			Found:   false,
			Message: fmt.Sprintf("no vehicle found with license plate %s", normalized),
		}, nil
	}

	spot, err := e.spotForVehicle(ctx, vehicle)
	if err != nil {
		return nil, fmt.Errorf("failed to find vehicle by license plate: %w", err)
	}

	return &LookupResult{
		Found:   true,
		Vehicle: &VehicleDetail{Vehicle: *vehicle, Spot: spot},
	}, nil
}

// SearchVehicles validates and normalizes term, scores it against every
// currently parked plate and enriches the surviving matches. The parked set
// is always read fresh from the directory, never from the suggestion cache.
func (e *Engine) SearchVehicles(ctx context.Context, term string, opts match.Options) (*Result, error) {
	if opts.Mode == "" {
		opts.Mode = match.ModeAll
	}

	validation := match.ValidateSearchTerm(term)
	if !validation.IsValid {
		return &Result{
			Matches:    []EnrichedMatch{},
			SearchTerm: term,
			Mode:       opts.Mode,
			Errors:     validation.Errors,
		}, nil
	}

	parked, err := e.vehicles.FindCurrentlyParked(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search vehicles: %w", err)
	}

	plates := make([]string, 0, len(parked))
	byPlate := make(map[string]model.Vehicle, len(parked))
	for _, v := range parked {
		if v.NormalizedPlate == "" {
			continue
		}
		plates = append(plates, v.NormalizedPlate)
		byPlate[v.NormalizedPlate] = v
	}

	scored := match.SearchLicensePlates(validation.Normalized, plates, opts)

	matches := make([]EnrichedMatch, 0, len(scored))
	for _, m := range scored {
		vehicle := byPlate[m.Plate]
		spot, err := e.spotForVehicle(ctx, &vehicle)
		if err != nil {
			return nil, fmt.Errorf("failed to search vehicles: %w", err)
		}
		matches = append(matches, EnrichedMatch{
			Plate:     m.Plate,
			Score:     m.Score,
			MatchType: m.Type.String(),
			Highlight: match.Highlight(validation.Normalized, m.Plate),
			Vehicle:   vehicle,
			Spot:      spot,
		})
	}

	e.log.Debug().
		Str("term", validation.Normalized).
		Str("mode", string(opts.Mode)).
		Int("candidates", len(plates)).
		Int("matches", len(matches)).
		Msg("vehicle search completed")

	return &Result{
		Matches:    matches,
		Count:      len(matches),
		SearchTerm: validation.Normalized,
		Mode:       opts.Mode,
	}, nil
}

// FindVehiclesByLocation filters the parked set by floor, bay or spot.
func (e *Engine) FindVehiclesByLocation(ctx context.Context, filter model.LocationFilter) ([]VehicleDetail, error) {
	parked, err := e.vehicles.FindCurrentlyParked(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find vehicles by location: %w", err)
	}

	details := make([]VehicleDetail, 0, len(parked))
	for _, v := range parked {
		vehicle := v
		if filter.SpotID != nil {
			if vehicle.SpotID == nil || *vehicle.SpotID != *filter.SpotID {
				continue
			}
		}

		spot, err := e.spotForVehicle(ctx, &vehicle)
		if err != nil {
			return nil, fmt.Errorf("failed to find vehicles by location: %w", err)
		}

		if filter.Floor != nil && (spot == nil || spot.Floor != *filter.Floor) {
			continue
		}
		if filter.Bay != nil && (spot == nil || !strings.EqualFold(spot.Bay, *filter.Bay)) {
			continue
		}

		details = append(details, VehicleDetail{Vehicle: vehicle, Spot: spot})
	}

	return details, nil
}

// FindAvailableSpots is a filtering passthrough over the spot directory.
func (e *Engine) FindAvailableSpots(ctx context.Context, filter model.SpotFilter) ([]model.Spot, error) {
	spots, err := e.spots.FindAvailable(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find available spots: %w", err)
	}
	return spots, nil
}

// GetSearchSuggestions returns up to limit plates for typeahead completion of
// partial. Prefix matches rank ahead of contains-only matches; within each
// group, cache insertion order is kept. Reads go through the plate cache so a
// burst of keystrokes does not hammer the directory.
func (e *Engine) GetSearchSuggestions(ctx context.Context, partial string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	normalized := match.NormalizeLicensePlate(partial)
	if len(strings.TrimSpace(partial)) < 2 || len(normalized) < 2 {
		return []string{}, nil
	}

	entries, err := e.cachedEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get search suggestions: %w", err)
	}

	suggestions := make([]string, 0, limit)
	seen := make(map[string]bool, limit)

	for _, entry := range entries {
		if len(suggestions) >= limit {
			break
		}
		if strings.HasPrefix(entry.plate, normalized) {
			suggestions = append(suggestions, entry.vehicle.LicensePlate)
			seen[entry.plate] = true
		}
	}

	if len(suggestions) < limit {
		for _, entry := range entries {
			if len(suggestions) >= limit {
				break
			}
			if seen[entry.plate] {
				continue
			}
			if strings.Contains(entry.plate, normalized) {
				suggestions = append(suggestions, entry.vehicle.LicensePlate)
				seen[entry.plate] = true
			}
		}
	}

	return suggestions, nil
}

// ClearCache discards the suggestion cache; the next suggestion call rebuilds
// it from the vehicle directory.
func (e *Engine) ClearCache() {
	e.cache.clear()
	e.log.Debug().Msg("plate cache cleared")
}

func (e *Engine) cachedEntries(ctx context.Context) ([]cacheEntry, error) {
	if e.cache.valid() {
		return e.cache.entries, nil
	}

	parked, err := e.vehicles.FindCurrentlyParked(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]cacheEntry, 0, len(parked))
	for _, v := range parked {
		if v.NormalizedPlate == "" {
			continue
		}
		entries = append(entries, cacheEntry{plate: v.NormalizedPlate, vehicle: v})
	}
	e.cache.replace(entries)

	e.log.Debug().Int("plates", len(entries)).Msg("plate cache rebuilt")
	return entries, nil
}

func (e *Engine) spotForVehicle(ctx context.Context, vehicle *model.Vehicle) (*model.Spot, error) {
	if vehicle.SpotID == nil {
		return nil, nil
	}
	spot, err := e.spots.FindByID(ctx, *vehicle.SpotID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up spot %s: %w", vehicle.SpotID, err)
	}
	return spot, nil
}
