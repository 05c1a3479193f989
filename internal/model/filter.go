package model

import "github.com/google/uuid"

// LocationFilter narrows parked vehicle lookups by physical location. Nil
// fields are ignored.
type LocationFilter struct {
	Floor  *int
	Bay    *string
	SpotID *uuid.UUID
}

// SpotFilter narrows available spot lookups. Nil and empty fields are
// ignored; Features requires every listed feature to be present.
type SpotFilter struct {
	Floor    *int
	Bay      *string
	SpotType *SpotType
	Features []string
}
