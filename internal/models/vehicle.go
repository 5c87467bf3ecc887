package models

import (
	"time"

	"github.com/google/uuid"
)

type VehicleType string

const (
	VehicleTwoWheeler VehicleType = "two_wheeler"
	VehicleCar        VehicleType = "car"
	VehicleSUV        VehicleType = "suv"
	VehicleTruck      VehicleType = "truck"
	VehicleOther      VehicleType = "other"
)

type Vehicle struct {
	ID              uuid.UUID   `json:"id"`
	ResidentID      uuid.UUID   `json:"resident_id"`
	VehicleNumber   string      `json:"vehicle_number"`
	VehicleType     VehicleType `json:"vehicle_type"`
	Brand           string      `json:"brand"`
	Model           string      `json:"model"`
	Color           string      `json:"color"`
	Year            *int        `json:"year,omitempty"`
	InsuranceExpiry *time.Time  `json:"insurance_expiry,omitempty"`
	PollutionExpiry *time.Time  `json:"pollution_expiry,omitempty"`
	ParkingSlot     string      `json:"parking_slot"`
	IsActive        bool        `json:"is_active"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	Versioned
}

func (v *Vehicle) GetID() string { return v.ID.String() }
