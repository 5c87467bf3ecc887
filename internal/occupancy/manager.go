package occupancy

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nconnect/society-backend/internal/metrics"
	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/utils"
)

// Manager assigns and revokes owner/tenant links on residence units. Each
// call is one store transaction, so concurrent calls on the same unit are
// serialized and a failed call leaves no trace.
type Manager struct {
	store Store
	now   func() time.Time
}

func NewManager(store Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

type AssignInput struct {
	UnitID     uuid.UUID
	UserID     uuid.UUID
	Role       models.OccupancyRole
	AssignedBy *uuid.UUID
	Notes      string
}

type RevokeInput struct {
	UnitID    uuid.UUID
	UserID    uuid.UUID
	RevokedBy *uuid.UUID
	Notes     string
}

// Result is the committed state of the unit after an operation.
type Result struct {
	Unit       *models.ResidenceUnit
	Assignment *models.OccupancyAssignment
	Revoked    []*models.OccupancyAssignment
	// Changed is false when a revoke found nothing to remove.
	Changed bool
}

// Assign makes the user the unit's owner or adds them as a tenant and
// records a new assignment. A previous owner's active assignment is
// revoked. Re-assigning an existing tenant replaces their active record.
func (m *Manager) Assign(ctx context.Context, in AssignInput) (*Result, error) {
	if !in.Role.Valid() {
		metrics.OccupancyOperationsTotal.WithLabelValues("assign", string(in.Role), "invalid").Inc()
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, in.Role)
	}

	var res *Result
	err := m.store.WithUnit(ctx, in.UnitID, func(ctx context.Context, tx Tx, unit *models.ResidenceUnit) error {
		now := m.now().UTC()

		active, err := tx.ActiveAssignments(ctx)
		if err != nil {
			return fmt.Errorf("load active assignments: %w", err)
		}

		var stale []*models.OccupancyAssignment
		for _, a := range active {
			switch {
			case in.Role == models.RoleOwner && a.Role == models.RoleOwner:
				stale = append(stale, a)
			case in.Role == models.RoleTenant && a.Role == models.RoleTenant && a.UserID == in.UserID:
				stale = append(stale, a)
			}
		}
		for _, a := range stale {
			if err := tx.RevokeAssignment(ctx, a.ID, now); err != nil {
				return fmt.Errorf("revoke assignment %s: %w", a.ID, err)
			}
			a.RevokedAt = &now
		}

		switch in.Role {
		case models.RoleOwner:
			owner := in.UserID
			unit.OwnerID = &owner
		case models.RoleTenant:
			if !unit.IsTenant(in.UserID) {
				unit.TenantIDs = append(unit.TenantIDs, in.UserID)
			}
		}
		Recompute(unit)

		assignment := &models.OccupancyAssignment{
			ID:         uuid.New(),
			UnitID:     unit.ID,
			UserID:     in.UserID,
			Role:       in.Role,
			AssignedBy: in.AssignedBy,
			AssignedAt: now,
			Notes:      in.Notes,
		}
		if err := tx.InsertAssignment(ctx, assignment); err != nil {
			return fmt.Errorf("insert assignment: %w", err)
		}
		unit.UpdatedAt = now
		if err := tx.SaveUnit(ctx, unit); err != nil {
			return fmt.Errorf("save unit: %w", err)
		}

		after := append(stillActive(active), assignment)
		if err := CheckInvariants(unit, after); err != nil {
			return err
		}

		if in.AssignedBy != nil {
			meta := utils.RequestMetaFrom(ctx)
			if err := tx.AppendActivity(ctx, &models.ActivityLog{
				ID:          uuid.New(),
				UserID:      *in.AssignedBy,
				Action:      models.ActivityAssignUnit,
				Description: fmt.Sprintf("Assigned user %s as %s of unit %s", in.UserID, in.Role, unit.UnitNumber),
				TargetType:  models.TargetUnit,
				TargetID:    &unit.ID,
				IPAddress:   meta.IPAddress,
				UserAgent:   meta.UserAgent,
				Timestamp:   now,
			}); err != nil {
				return fmt.Errorf("append activity: %w", err)
			}
		}

		res = &Result{Unit: unit, Assignment: assignment, Revoked: stale, Changed: true}
		return nil
	})
	if err != nil {
		metrics.OccupancyOperationsTotal.WithLabelValues("assign", string(in.Role), "error").Inc()
		return nil, m.failure("assign", in.UnitID, in.UserID, err)
	}

	metrics.OccupancyOperationsTotal.WithLabelValues("assign", string(in.Role), "ok").Inc()
	utils.Logger.WithFields(logrus.Fields{
		"unit_id": in.UnitID,
		"user_id": in.UserID,
		"role":    in.Role,
		"revoked": len(res.Revoked),
	}).Info("Occupancy assigned")
	return res, nil
}

// Revoke removes the user from the unit, whether as owner, tenant or both,
// and closes their active assignments. Revoking a user who does not occupy
// the unit succeeds without changes.
func (m *Manager) Revoke(ctx context.Context, in RevokeInput) (*Result, error) {
	var res *Result
	err := m.store.WithUnit(ctx, in.UnitID, func(ctx context.Context, tx Tx, unit *models.ResidenceUnit) error {
		now := m.now().UTC()

		active, err := tx.ActiveAssignments(ctx)
		if err != nil {
			return fmt.Errorf("load active assignments: %w", err)
		}

		changed := false
		if unit.IsOwner(in.UserID) {
			unit.OwnerID = nil
			changed = true
		}
		if i := slices.Index(unit.TenantIDs, in.UserID); i >= 0 {
			unit.TenantIDs = slices.Delete(unit.TenantIDs, i, i+1)
			changed = true
		}

		var revoked []*models.OccupancyAssignment
		for _, a := range active {
			if a.UserID != in.UserID {
				continue
			}
			if err := tx.RevokeAssignment(ctx, a.ID, now); err != nil {
				return fmt.Errorf("revoke assignment %s: %w", a.ID, err)
			}
			a.RevokedAt = &now
			revoked = append(revoked, a)
		}

		if !changed && len(revoked) == 0 {
			res = &Result{Unit: unit}
			return nil
		}

		Recompute(unit)
		unit.UpdatedAt = now
		if err := tx.SaveUnit(ctx, unit); err != nil {
			return fmt.Errorf("save unit: %w", err)
		}
		if err := CheckInvariants(unit, stillActive(active)); err != nil {
			return err
		}

		if in.RevokedBy != nil {
			meta := utils.RequestMetaFrom(ctx)
			desc := fmt.Sprintf("Removed user %s from unit %s", in.UserID, unit.UnitNumber)
			if notes := strings.TrimSpace(in.Notes); notes != "" {
				desc += ": " + notes
			}
			if err := tx.AppendActivity(ctx, &models.ActivityLog{
				ID:          uuid.New(),
				UserID:      *in.RevokedBy,
				Action:      models.ActivityRemoveFromUnit,
				Description: desc,
				TargetType:  models.TargetUnit,
				TargetID:    &unit.ID,
				IPAddress:   meta.IPAddress,
				UserAgent:   meta.UserAgent,
				Timestamp:   now,
			}); err != nil {
				return fmt.Errorf("append activity: %w", err)
			}
		}

		res = &Result{Unit: unit, Revoked: revoked, Changed: true}
		return nil
	})
	if err != nil {
		metrics.OccupancyOperationsTotal.WithLabelValues("revoke", "", "error").Inc()
		return nil, m.failure("revoke", in.UnitID, in.UserID, err)
	}

	result := "ok"
	if !res.Changed {
		result = "noop"
	}
	metrics.OccupancyOperationsTotal.WithLabelValues("revoke", "", result).Inc()
	utils.Logger.WithFields(logrus.Fields{
		"unit_id": in.UnitID,
		"user_id": in.UserID,
		"revoked": len(res.Revoked),
		"changed": res.Changed,
	}).Info("Occupancy revoked")
	return res, nil
}

// History returns every assignment ever made on the unit, newest first.
func (m *Manager) History(ctx context.Context, unitID uuid.UUID) ([]*models.OccupancyAssignment, error) {
	return m.store.History(ctx, unitID)
}

// failure keeps ErrUnitNotFound as is and wraps everything else in
// ErrTransactionFailed so callers report a generic failure.
func (m *Manager) failure(op string, unitID, userID uuid.UUID, err error) error {
	if errors.Is(err, ErrUnitNotFound) {
		return err
	}
	utils.Logger.WithFields(logrus.Fields{
		"operation": op,
		"unit_id":   unitID,
		"user_id":   userID,
	}).WithError(err).Error("Occupancy transaction rolled back")
	return fmt.Errorf("%w: %w", ErrTransactionFailed, err)
}

func stillActive(list []*models.OccupancyAssignment) []*models.OccupancyAssignment {
	out := make([]*models.OccupancyAssignment, 0, len(list))
	for _, a := range list {
		if a.Active() {
			out = append(out, a)
		}
	}
	return out
}
