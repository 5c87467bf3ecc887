package dtos

import (
	"github.com/google/uuid"
)

type CreateUnitRequest struct {
	UnitNumber           string  `json:"unit_number" validate:"required,max=10"`
	Building             string  `json:"building" validate:"max=50"`
	Floor                int     `json:"floor" validate:"gte=0"`
	AreaSqft             *int    `json:"area_sqft,omitempty" validate:"omitempty,gt=0"`
	Bedrooms             int     `json:"bedrooms" validate:"omitempty,gte=1"`
	Bathrooms            int     `json:"bathrooms" validate:"omitempty,gte=1"`
	MonthlyRentPaise     *int64  `json:"monthly_rent_paise,omitempty" validate:"omitempty,gte=0"`
	SecurityDepositPaise *int64  `json:"security_deposit_paise,omitempty" validate:"omitempty,gte=0"`
	LeaseStart           *string `json:"lease_start,omitempty" validate:"omitempty,datetime=2006-01-02"`
	LeaseEnd             *string `json:"lease_end,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Description          string  `json:"description" validate:"max=2000"`
}

type UpdateUnitRequest struct {
	Building             *string `json:"building,omitempty" validate:"omitempty,max=50"`
	Floor                *int    `json:"floor,omitempty" validate:"omitempty,gte=0"`
	AreaSqft             *int    `json:"area_sqft,omitempty" validate:"omitempty,gt=0"`
	Bedrooms             *int    `json:"bedrooms,omitempty" validate:"omitempty,gte=1"`
	Bathrooms            *int    `json:"bathrooms,omitempty" validate:"omitempty,gte=1"`
	MonthlyRentPaise     *int64  `json:"monthly_rent_paise,omitempty" validate:"omitempty,gte=0"`
	SecurityDepositPaise *int64  `json:"security_deposit_paise,omitempty" validate:"omitempty,gte=0"`
	LeaseStart           *string `json:"lease_start,omitempty" validate:"omitempty,datetime=2006-01-02"`
	LeaseEnd             *string `json:"lease_end,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Description          *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// ----- Tenancy requests -----

type CreateTenancyRequestRequest struct {
	UnitID  uuid.UUID `json:"unit_id" validate:"required"`
	Message string    `json:"message" validate:"max=1000"`
}

type ProcessTenancyRequestRequest struct {
	AdminNotes string `json:"admin_notes" validate:"max=1000"`
}
