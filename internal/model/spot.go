package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SpotStatus string

const (
	SpotStatusAvailable SpotStatus = "AVAILABLE"
	SpotStatusOccupied  SpotStatus = "OCCUPIED"
	SpotStatusClosed    SpotStatus = "CLOSED"
)

type SpotType string

const (
	SpotTypeStandard SpotType = "STANDARD"
	SpotTypeCompact  SpotType = "COMPACT"
	SpotTypeLarge    SpotType = "LARGE"
	SpotTypeCharging SpotType = "CHARGING"
)

// Spot is a single parking spot. Features holds a JSON array of feature tags
// such as "ev_charger" or "covered".
type Spot struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Floor      int            `gorm:"not null;index" json:"floor"`
	Bay        string         `gorm:"type:varchar(16);not null" json:"bay"`
	SpotNumber int            `gorm:"not null" json:"spot_number"`
	SpotType   SpotType       `gorm:"type:spot_type;not null;default:'STANDARD'" json:"spot_type"`
	Features   datatypes.JSON `gorm:"type:jsonb" json:"features,omitempty"`
	Status     SpotStatus     `gorm:"type:spot_status;not null;default:'AVAILABLE'" json:"status"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Spot) TableName() string {
	return "spots"
}

func (s *Spot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
