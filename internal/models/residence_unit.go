package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// ResidenceUnit is a flat in the society. OwnerID and TenantIDs are only
// changed through the occupancy manager, which keeps IsOccupied in sync.
type ResidenceUnit struct {
	ID                   uuid.UUID   `json:"id"`
	UnitNumber           string      `json:"unit_number"`
	OwnerID              *uuid.UUID  `json:"owner_id,omitempty"`
	TenantIDs            []uuid.UUID `json:"tenant_ids"`
	IsOccupied           bool        `json:"is_occupied"`
	Building             string      `json:"building"`
	Floor                int         `json:"floor"`
	AreaSqft             *int        `json:"area_sqft,omitempty"`
	Bedrooms             int         `json:"bedrooms"`
	Bathrooms            int         `json:"bathrooms"`
	MonthlyRentPaise     *int64      `json:"monthly_rent_paise,omitempty"`
	SecurityDepositPaise *int64      `json:"security_deposit_paise,omitempty"`
	LeaseStart           *time.Time  `json:"lease_start,omitempty"`
	LeaseEnd             *time.Time  `json:"lease_end,omitempty"`
	Description          string      `json:"description"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
	Versioned
}

func (u *ResidenceUnit) GetID() string { return u.ID.String() }

func (u *ResidenceUnit) IsOwner(userID uuid.UUID) bool {
	return u.OwnerID != nil && *u.OwnerID == userID
}

func (u *ResidenceUnit) IsTenant(userID uuid.UUID) bool {
	return slices.Contains(u.TenantIDs, userID)
}

// HasOccupant reports whether userID is the owner or one of the tenants.
func (u *ResidenceUnit) HasOccupant(userID uuid.UUID) bool {
	return u.IsOwner(userID) || u.IsTenant(userID)
}

// Clone returns a deep copy.
func (u *ResidenceUnit) Clone() *ResidenceUnit {
	c := *u
	if u.OwnerID != nil {
		id := *u.OwnerID
		c.OwnerID = &id
	}
	c.TenantIDs = slices.Clone(u.TenantIDs)
	return &c
}
