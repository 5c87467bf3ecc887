package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/occupancy"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/scope"
	"github.com/nconnect/society-backend/internal/utils"
)

// TenancyRequestService handles applications to rent a unit. A pending
// request grants nothing; approval goes through the occupancy manager.
type TenancyRequestService struct {
	requests  repositories.TenancyRequestRepository
	units     repositories.UnitRepository
	occupancy *occupancy.Manager
	callers   *CallerResolver
	activity  activityRecorder
	now       func() time.Time
}

func NewTenancyRequestService(
	requests repositories.TenancyRequestRepository,
	units repositories.UnitRepository,
	manager *occupancy.Manager,
	callers *CallerResolver,
	activity repositories.ActivityLogRepository,
) *TenancyRequestService {
	return &TenancyRequestService{
		requests:  requests,
		units:     units,
		occupancy: manager,
		callers:   callers,
		activity:  activityRecorder{repo: activity, now: time.Now},
		now:       time.Now,
	}
}

func (s *TenancyRequestService) List(ctx context.Context, callerID uuid.UUID, f repositories.TenancyRequestFilter) ([]*models.TenancyRequest, error) {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	list, err := s.requests.List(ctx, f)
	if err != nil {
		return nil, utils.Internal("Failed to list tenancy requests", err)
	}
	return scope.Filter(nonNil(list), caller, scope.TenancyRequest), nil
}

func (s *TenancyRequestService) Create(ctx context.Context, callerID uuid.UUID, req dtos.CreateTenancyRequestRequest) (*models.TenancyRequest, error) {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	unit, err := s.units.GetByID(ctx, req.UnitID)
	if err != nil {
		return nil, utils.Internal("Failed to load residence unit", err)
	}
	if unit == nil {
		return nil, utils.NotFound("Residence unit not found")
	}
	if caller.OccupiesUnit(unit.ID) {
		return nil, utils.Conflict("You already occupy this unit")
	}

	tr := &models.TenancyRequest{
		ID:       uuid.New(),
		TenantID: callerID,
		UnitID:   unit.ID,
		Status:   models.TenancyRequestPending,
		Message:  req.Message,
	}
	if err := s.requests.Create(ctx, tr); err != nil {
		return nil, utils.PersistenceError("Failed to create tenancy request", err)
	}
	s.activity.record(ctx, callerID, models.ActivityCreate, models.TargetTenancyRequest, &tr.ID,
		fmt.Sprintf("Requested tenancy of unit %s", unit.UnitNumber))
	return tr, nil
}

// Approve claims the pending request, then adds the tenant through the
// occupancy manager. If the assignment fails the claim is released.
func (s *TenancyRequestService) Approve(ctx context.Context, adminID, id uuid.UUID, req dtos.ProcessTenancyRequestRequest) (*models.TenancyRequest, error) {
	tr, err := s.loadPending(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.claim(ctx, tr.ID, models.TenancyRequestApproved, adminID, req.AdminNotes); err != nil {
		return nil, err
	}

	_, err = s.occupancy.Assign(ctx, occupancy.AssignInput{
		UnitID:     tr.UnitID,
		UserID:     tr.TenantID,
		Role:       models.RoleTenant,
		AssignedBy: &adminID,
		Notes:      "Approved tenancy request",
	})
	if err != nil {
		if rErr := s.requests.Reopen(ctx, tr.ID); rErr != nil {
			utils.Logger.WithFields(logrus.Fields{"requestID": tr.ID}).WithError(rErr).Error("Failed to reopen tenancy request")
		}
		return nil, occupancyError(err, "approve tenancy request")
	}

	s.activity.record(ctx, adminID, models.ActivityUpdate, models.TargetTenancyRequest, &tr.ID, "Approved tenancy request")
	return s.reload(ctx, tr.ID)
}

func (s *TenancyRequestService) Reject(ctx context.Context, adminID, id uuid.UUID, req dtos.ProcessTenancyRequestRequest) (*models.TenancyRequest, error) {
	tr, err := s.loadPending(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.claim(ctx, tr.ID, models.TenancyRequestRejected, adminID, req.AdminNotes); err != nil {
		return nil, err
	}
	s.activity.record(ctx, adminID, models.ActivityUpdate, models.TargetTenancyRequest, &tr.ID, "Rejected tenancy request")
	return s.reload(ctx, tr.ID)
}

func (s *TenancyRequestService) loadPending(ctx context.Context, id uuid.UUID) (*models.TenancyRequest, error) {
	tr, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, utils.Internal("Failed to load tenancy request", err)
	}
	if tr == nil {
		return nil, utils.NotFound("Tenancy request not found")
	}
	if tr.Status != models.TenancyRequestPending {
		return nil, invalidState("Tenancy request has already been processed")
	}
	return tr, nil
}

func (s *TenancyRequestService) claim(ctx context.Context, id uuid.UUID, status models.TenancyRequestStatus, adminID uuid.UUID, notes string) error {
	err := s.requests.Process(ctx, id, status, adminID, notes, s.now())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, utils.ErrNoRowsUpdated):
		return invalidState("Tenancy request has already been processed")
	default:
		return utils.Internal("Failed to process tenancy request", err)
	}
}

func (s *TenancyRequestService) reload(ctx context.Context, id uuid.UUID) (*models.TenancyRequest, error) {
	tr, err := s.requests.GetByID(ctx, id)
	if err != nil || tr == nil {
		return nil, utils.Internal("Failed to reload tenancy request", err)
	}
	return tr, nil
}
