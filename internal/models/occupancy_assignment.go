package models

import (
	"time"

	"github.com/google/uuid"
)

type OccupancyRole string

const (
	RoleOwner  OccupancyRole = "owner"
	RoleTenant OccupancyRole = "tenant"
)

func (r OccupancyRole) Valid() bool {
	return r == RoleOwner || r == RoleTenant
}

// OccupancyAssignment is one entry of a unit's occupancy history. Rows are
// never deleted; RevokedAt is set once when the link ends.
type OccupancyAssignment struct {
	ID         uuid.UUID     `json:"id"`
	UnitID     uuid.UUID     `json:"unit_id"`
	UserID     uuid.UUID     `json:"user_id"`
	Role       OccupancyRole `json:"role"`
	AssignedBy *uuid.UUID    `json:"assigned_by,omitempty"`
	AssignedAt time.Time     `json:"assigned_at"`
	RevokedAt  *time.Time    `json:"revoked_at,omitempty"`
	Notes      string        `json:"notes"`
}

func (a *OccupancyAssignment) Active() bool { return a.RevokedAt == nil }
