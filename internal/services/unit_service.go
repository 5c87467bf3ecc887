package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/occupancy"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/scope"
	"github.com/nconnect/society-backend/internal/utils"
)

type UnitService struct {
	units     repositories.UnitRepository
	occupancy *occupancy.Manager
	callers   *CallerResolver
	activity  activityRecorder
}

func NewUnitService(
	units repositories.UnitRepository,
	manager *occupancy.Manager,
	callers *CallerResolver,
	activity repositories.ActivityLogRepository,
) *UnitService {
	return &UnitService{
		units:     units,
		occupancy: manager,
		callers:   callers,
		activity:  activityRecorder{repo: activity, now: time.Now},
	}
}

func (s *UnitService) List(ctx context.Context, callerID uuid.UUID, f repositories.UnitFilter) ([]*models.ResidenceUnit, error) {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	units, err := s.units.List(ctx, f)
	if err != nil {
		return nil, utils.Internal("Failed to list residence units", err)
	}
	return scope.Filter(nonNil(units), caller, scope.Unit), nil
}

func (s *UnitService) Get(ctx context.Context, callerID, id uuid.UUID) (*models.ResidenceUnit, error) {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	unit, err := s.units.GetByID(ctx, id)
	if err != nil {
		return nil, utils.Internal("Failed to load residence unit", err)
	}
	if unit == nil || !scope.Visible(unit, caller, scope.Unit) {
		return nil, utils.NotFound("Residence unit not found")
	}
	return unit, nil
}

func (s *UnitService) Create(ctx context.Context, adminID uuid.UUID, req dtos.CreateUnitRequest) (*models.ResidenceUnit, error) {
	leaseStart, leaseEnd, err := leaseDates(req.LeaseStart, req.LeaseEnd)
	if err != nil {
		return nil, err
	}
	unit := &models.ResidenceUnit{
		ID:                   uuid.New(),
		UnitNumber:           req.UnitNumber,
		TenantIDs:            []uuid.UUID{},
		Building:             req.Building,
		Floor:                req.Floor,
		AreaSqft:             req.AreaSqft,
		Bedrooms:             max(req.Bedrooms, 1),
		Bathrooms:            max(req.Bathrooms, 1),
		MonthlyRentPaise:     req.MonthlyRentPaise,
		SecurityDepositPaise: req.SecurityDepositPaise,
		LeaseStart:           leaseStart,
		LeaseEnd:             leaseEnd,
		Description:          req.Description,
	}
	if err := s.units.Create(ctx, unit); err != nil {
		return nil, utils.PersistenceError("Failed to create residence unit", err)
	}
	s.activity.record(ctx, adminID, models.ActivityCreate, models.TargetUnit, &unit.ID,
		fmt.Sprintf("Created unit %s", unit.UnitNumber))
	return unit, nil
}

func (s *UnitService) Update(ctx context.Context, adminID, id uuid.UUID, req dtos.UpdateUnitRequest) (*models.ResidenceUnit, error) {
	var updated *models.ResidenceUnit
	err := s.units.UpdateWithRetry(ctx, id, func(u *models.ResidenceUnit) error {
		if req.Building != nil {
			u.Building = *req.Building
		}
		if req.Floor != nil {
			u.Floor = *req.Floor
		}
		if req.AreaSqft != nil {
			u.AreaSqft = req.AreaSqft
		}
		if req.Bedrooms != nil {
			u.Bedrooms = *req.Bedrooms
		}
		if req.Bathrooms != nil {
			u.Bathrooms = *req.Bathrooms
		}
		if req.MonthlyRentPaise != nil {
			u.MonthlyRentPaise = req.MonthlyRentPaise
		}
		if req.SecurityDepositPaise != nil {
			u.SecurityDepositPaise = req.SecurityDepositPaise
		}
		if req.Description != nil {
			u.Description = *req.Description
		}
		if req.LeaseStart != nil {
			start, err := dtos.ParseDate(req.LeaseStart)
			if err != nil {
				return utils.BadRequest("Invalid lease start date")
			}
			u.LeaseStart = start
		}
		if req.LeaseEnd != nil {
			end, err := dtos.ParseDate(req.LeaseEnd)
			if err != nil {
				return utils.BadRequest("Invalid lease end date")
			}
			u.LeaseEnd = end
		}
		if u.LeaseStart != nil && u.LeaseEnd != nil && u.LeaseEnd.Before(*u.LeaseStart) {
			return utils.BadRequest("Lease end must not be before lease start")
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, updateError(err, "Residence unit")
	}
	s.activity.record(ctx, adminID, models.ActivityUpdate, models.TargetUnit, &id,
		fmt.Sprintf("Updated unit %s", updated.UnitNumber))
	return updated, nil
}

// Delete removes a unit that has never been occupied. Units with an
// occupant or any assignment history are kept so the history survives.
func (s *UnitService) Delete(ctx context.Context, adminID, id uuid.UUID) error {
	unit, err := s.units.GetByID(ctx, id)
	if err != nil {
		return utils.Internal("Failed to load residence unit", err)
	}
	if unit == nil {
		return utils.NotFound("Residence unit not found")
	}
	if unit.IsOccupied || unit.OwnerID != nil || len(unit.TenantIDs) > 0 {
		return invalidState("Residence unit is occupied; remove its occupants first")
	}
	history, err := s.occupancy.History(ctx, id)
	if err != nil {
		return utils.Internal("Failed to load assignment history", err)
	}
	if len(history) > 0 {
		return invalidState("Residence unit has assignment history and cannot be deleted")
	}
	if err := s.units.Delete(ctx, id); err != nil {
		if utils.IsForeignKeyViolation(err) {
			return invalidState("Residence unit has assignment history and cannot be deleted")
		}
		return deleteError(err, "Residence unit")
	}
	s.activity.record(ctx, adminID, models.ActivityDelete, models.TargetUnit, &id, "Deleted residence unit")
	return nil
}

// Assignments returns the unit's occupancy history, newest first.
func (s *UnitService) Assignments(ctx context.Context, id uuid.UUID) ([]*models.OccupancyAssignment, error) {
	unit, err := s.units.GetByID(ctx, id)
	if err != nil {
		return nil, utils.Internal("Failed to load residence unit", err)
	}
	if unit == nil {
		return nil, utils.NotFound("Residence unit not found")
	}
	history, err := s.occupancy.History(ctx, id)
	if err != nil {
		return nil, utils.Internal("Failed to load assignment history", err)
	}
	return nonNil(history), nil
}

func leaseDates(start, end *string) (*time.Time, *time.Time, error) {
	s, err := dtos.ParseDate(start)
	if err != nil {
		return nil, nil, utils.BadRequest("Invalid lease start date")
	}
	e, err := dtos.ParseDate(end)
	if err != nil {
		return nil, nil, utils.BadRequest("Invalid lease end date")
	}
	if s != nil && e != nil && e.Before(*s) {
		return nil, nil, utils.BadRequest("Lease end must not be before lease start")
	}
	return s, e, nil
}

// nonNil keeps JSON list responses as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
