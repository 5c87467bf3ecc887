// Package scope decides which records a caller may see. Every function is
// pure: no I/O and no dependence on anything but its arguments.
package scope

import (
	"github.com/google/uuid"
	"github.com/nconnect/society-backend/internal/models"
)

// Caller is the identity a request is evaluated for. Units holds the ids
// of the units the caller owns or rents.
type Caller struct {
	UserID  uuid.UUID
	IsAdmin bool
	Units   map[uuid.UUID]struct{}
}

// NewCaller builds a Caller from the units the user occupies.
func NewCaller(userID uuid.UUID, isAdmin bool, units []*models.ResidenceUnit) Caller {
	c := Caller{UserID: userID, IsAdmin: isAdmin, Units: make(map[uuid.UUID]struct{}, len(units))}
	for _, u := range units {
		if u.HasOccupant(userID) {
			c.Units[u.ID] = struct{}{}
		}
	}
	return c
}

// OccupiesUnit reports whether the caller owns or rents unitID.
func (c Caller) OccupiesUnit(unitID uuid.UUID) bool {
	_, ok := c.Units[unitID]
	return ok
}

// Rule answers whether a non-administrator may see item. Administrators
// bypass rules entirely.
type Rule[T any] func(item T, c Caller) bool

// Visible applies rule to one record.
func Visible[T any](item T, c Caller, rule Rule[T]) bool {
	if c.IsAdmin {
		return true
	}
	return rule(item, c)
}

// Filter returns the visible subset of items, preserving order.
func Filter[T any](items []T, c Caller, rule Rule[T]) []T {
	if c.IsAdmin {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if rule(it, c) {
			out = append(out, it)
		}
	}
	return out
}
