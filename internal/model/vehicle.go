package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VehicleStatus string

const (
	VehicleStatusParked   VehicleStatus = "PARKED"
	VehicleStatusDeparted VehicleStatus = "DEPARTED"
)

type VehicleType string

const (
	VehicleTypeCar        VehicleType = "CAR"
	VehicleTypeMotorcycle VehicleType = "MOTORCYCLE"
	VehicleTypeTruck      VehicleType = "TRUCK"
	VehicleTypeEV         VehicleType = "EV"
)

// Vehicle is a single parking stay. A plate can appear in many DEPARTED rows
// but in at most one PARKED row at a time.
type Vehicle struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	LicensePlate    string        `gorm:"type:varchar(32);not null" json:"license_plate"`
	NormalizedPlate string        `gorm:"type:varchar(32);not null;index" json:"normalized_plate"`
	VehicleType     VehicleType   `gorm:"type:vehicle_type;not null;default:'CAR'" json:"vehicle_type"`
	SpotID          *uuid.UUID    `gorm:"type:uuid" json:"spot_id,omitempty"`
	Status          VehicleStatus `gorm:"type:vehicle_status;not null;default:'PARKED'" json:"status"`
	CheckInTime     time.Time     `gorm:"not null" json:"check_in_time"`
	CheckOutTime    *time.Time    `json:"check_out_time,omitempty"`
	FeeCharged      *float64      `json:"fee_charged,omitempty"`
	CreatedAt       time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
