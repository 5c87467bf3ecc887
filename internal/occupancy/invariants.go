package occupancy

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/nconnect/society-backend/internal/models"
)

// Recompute derives IsOccupied from the owner and tenant set.
func Recompute(u *models.ResidenceUnit) {
	u.IsOccupied = u.OwnerID != nil || len(u.TenantIDs) > 0
}

type assignmentKey struct {
	user uuid.UUID
	role models.OccupancyRole
}

// CheckInvariants validates a unit against its active assignments:
//   - IsOccupied matches owner/tenants
//   - no duplicate tenants
//   - at most one active assignment per (user, role) and one active owner
//   - every active assignment points at a current owner or tenant
func CheckInvariants(u *models.ResidenceUnit, active []*models.OccupancyAssignment) error {
	if u.IsOccupied != (u.OwnerID != nil || len(u.TenantIDs) > 0) {
		return fmt.Errorf("%w: unit %s is_occupied=%t with owner=%v tenants=%d",
			ErrInvariant, u.UnitNumber, u.IsOccupied, u.OwnerID, len(u.TenantIDs))
	}

	tenants := make(map[uuid.UUID]struct{}, len(u.TenantIDs))
	for _, id := range u.TenantIDs {
		if _, dup := tenants[id]; dup {
			return fmt.Errorf("%w: tenant %s listed twice on unit %s", ErrInvariant, id, u.UnitNumber)
		}
		tenants[id] = struct{}{}
	}

	seen := make(map[assignmentKey]struct{}, len(active))
	owners := 0
	for _, a := range active {
		if !a.Active() || a.UnitID != u.ID {
			continue
		}
		k := assignmentKey{a.UserID, a.Role}
		if _, dup := seen[k]; dup {
			return fmt.Errorf("%w: duplicate active %s assignment for user %s", ErrInvariant, a.Role, a.UserID)
		}
		seen[k] = struct{}{}

		switch a.Role {
		case models.RoleOwner:
			owners++
			if !u.IsOwner(a.UserID) {
				return fmt.Errorf("%w: active owner assignment for non-owner %s", ErrInvariant, a.UserID)
			}
		case models.RoleTenant:
			if _, ok := tenants[a.UserID]; !ok {
				return fmt.Errorf("%w: active tenant assignment for non-tenant %s", ErrInvariant, a.UserID)
			}
		}
	}
	if owners > 1 {
		return fmt.Errorf("%w: %d active owner assignments on unit %s", ErrInvariant, owners, u.UnitNumber)
	}
	return nil
}
