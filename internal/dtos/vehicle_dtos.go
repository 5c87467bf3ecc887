package dtos

import (
	"github.com/google/uuid"

	"github.com/nconnect/society-backend/internal/models"
)

type CreateVehicleRequest struct {
	VehicleNumber   string  `json:"vehicle_number" validate:"required,vehicle_number"`
	VehicleType     string  `json:"vehicle_type" validate:"required,oneof=two_wheeler car suv truck other"`
	Brand           string  `json:"brand" validate:"max=50"`
	Model           string  `json:"model" validate:"max=50"`
	Color           string  `json:"color" validate:"max=30"`
	Year            *int    `json:"year,omitempty" validate:"omitempty,gte=1900,lte=2100"`
	InsuranceExpiry *string `json:"insurance_expiry,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PollutionExpiry *string `json:"pollution_expiry,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ParkingSlot     string  `json:"parking_slot" validate:"max=20"`
}

// Normalize rewrites the registration number into its canonical form so
// that validation and uniqueness see the same value.
func (r *CreateVehicleRequest) Normalize() {
	r.VehicleNumber = NormalizeVehicleNumber(r.VehicleNumber)
}

type UpdateVehicleRequest struct {
	VehicleNumber   *string `json:"vehicle_number,omitempty" validate:"omitempty,vehicle_number"`
	VehicleType     *string `json:"vehicle_type,omitempty" validate:"omitempty,oneof=two_wheeler car suv truck other"`
	Brand           *string `json:"brand,omitempty" validate:"omitempty,max=50"`
	Model           *string `json:"model,omitempty" validate:"omitempty,max=50"`
	Color           *string `json:"color,omitempty" validate:"omitempty,max=30"`
	Year            *int    `json:"year,omitempty" validate:"omitempty,gte=1900,lte=2100"`
	InsuranceExpiry *string `json:"insurance_expiry,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PollutionExpiry *string `json:"pollution_expiry,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ParkingSlot     *string `json:"parking_slot,omitempty" validate:"omitempty,max=20"`
	IsActive        *bool   `json:"is_active,omitempty"`
}

func (r *UpdateVehicleRequest) Normalize() {
	if r.VehicleNumber != nil {
		n := NormalizeVehicleNumber(*r.VehicleNumber)
		r.VehicleNumber = &n
	}
}

// VehicleSearchResult is one hit of the vehicle search, enriched with the
// resident's contact details and flat numbers.
type VehicleSearchResult struct {
	ID            uuid.UUID          `json:"id"`
	VehicleNumber string             `json:"vehicle_number"`
	VehicleType   models.VehicleType `json:"vehicle_type"`
	Brand         string             `json:"brand"`
	Model         string             `json:"model"`
	Color         string             `json:"color"`
	ParkingSlot   string             `json:"parking_slot"`
	ResidentID    uuid.UUID          `json:"resident_id"`
	OwnerName     string             `json:"owner_name"`
	Username      string             `json:"username"`
	PhoneNumber   *string            `json:"phone_number,omitempty"`
	FlatNumbers   []string           `json:"flat_numbers"`
}

type VehicleSearchResponse struct {
	Query   string                `json:"query"`
	Count   int                   `json:"count"`
	Results []VehicleSearchResult `json:"results"`
}
