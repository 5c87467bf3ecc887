package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/scope"
	"github.com/nconnect/society-backend/internal/utils"
)

type CameraRequestService struct {
	requests repositories.CameraRequestRepository
	callers  *CallerResolver
	activity activityRecorder
	now      func() time.Time
}

func NewCameraRequestService(
	requests repositories.CameraRequestRepository,
	callers *CallerResolver,
	activity repositories.ActivityLogRepository,
) *CameraRequestService {
	return &CameraRequestService{
		requests: requests,
		callers:  callers,
		activity: activityRecorder{repo: activity, now: time.Now},
		now:      time.Now,
	}
}

func (s *CameraRequestService) List(ctx context.Context, callerID uuid.UUID, f repositories.CameraRequestFilter) ([]*models.CameraRequest, error) {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	list, err := s.requests.List(ctx, f)
	if err != nil {
		return nil, utils.Internal("Failed to list camera requests", err)
	}
	return scope.Filter(nonNil(list), caller, scope.CameraRequest), nil
}

func (s *CameraRequestService) Get(ctx context.Context, callerID, id uuid.UUID) (*models.CameraRequest, error) {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return s.visible(ctx, caller, id)
}

func (s *CameraRequestService) Create(ctx context.Context, callerID uuid.UUID, req dtos.CreateCameraRequestRequest) (*models.CameraRequest, error) {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin && !caller.OccupiesUnit(req.UnitID) {
		return nil, utils.Forbidden("You can only request footage for a unit you occupy")
	}
	date, err := dtos.ParseDate(&req.RequestedDate)
	if err != nil || date == nil {
		return nil, utils.BadRequest("Invalid requested date")
	}

	cr := &models.CameraRequest{
		ID:             uuid.New(),
		RequesterID:    callerID,
		UnitID:         req.UnitID,
		Reason:         req.Reason,
		RequestedDate:  *date,
		RequestedTime:  req.RequestedTime,
		DurationHours:  max(req.DurationHours, 1),
		CameraLocation: req.CameraLocation,
		Status:         models.CameraRequestPending,
	}
	if err := s.requests.Create(ctx, cr); err != nil {
		return nil, utils.PersistenceError("Failed to create camera request", err)
	}
	s.activity.record(ctx, callerID, models.ActivityCreate, models.TargetCameraRequest, &cr.ID,
		fmt.Sprintf("Requested footage of %s", cr.CameraLocation))
	return cr, nil
}

// Delete withdraws a request. Residents may only withdraw their own
// pending requests; administrators may delete any.
func (s *CameraRequestService) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return err
	}
	cr, err := s.visible(ctx, caller, id)
	if err != nil {
		return err
	}
	if !caller.IsAdmin {
		if cr.RequesterID != callerID {
			return utils.Forbidden("Only the requester can withdraw this request")
		}
		if cr.Status != models.CameraRequestPending {
			return invalidState("Only pending requests can be withdrawn")
		}
	}
	if err := s.requests.Delete(ctx, id); err != nil {
		return deleteError(err, "Camera request")
	}
	s.activity.record(ctx, callerID, models.ActivityDelete, models.TargetCameraRequest, &id, "Deleted camera request")
	return nil
}

// Process approves or rejects a pending request. An approval grants the
// access link for DurationHours from now.
func (s *CameraRequestService) Process(ctx context.Context, adminID, id uuid.UUID, req dtos.ProcessCameraRequestRequest) (*models.CameraRequest, error) {
	cr, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, utils.Internal("Failed to load camera request", err)
	}
	if cr == nil {
		return nil, utils.NotFound("Camera request not found")
	}
	if cr.Status != models.CameraRequestPending {
		return nil, invalidState("Camera request has already been processed")
	}

	now := s.now()
	cr.ApprovalDetails = req.ApprovalDetails
	cr.ProcessedAt = &now
	cr.ProcessedBy = &adminID
	switch req.Action {
	case "approve":
		if req.AccessLink == "" {
			return nil, utils.BadRequest("An access link is required to approve a request")
		}
		expires := now.Add(time.Duration(cr.DurationHours) * time.Hour)
		cr.Status = models.CameraRequestApproved
		cr.AccessLink = req.AccessLink
		cr.ExpiresAt = &expires
	default:
		cr.Status = models.CameraRequestRejected
		cr.AccessLink = ""
		cr.ExpiresAt = nil
	}

	if err := s.requests.Process(ctx, cr); err != nil {
		if errors.Is(err, utils.ErrNoRowsUpdated) {
			return nil, invalidState("Camera request has already been processed")
		}
		return nil, utils.Internal("Failed to process camera request", err)
	}
	s.activity.record(ctx, adminID, models.ActivityUpdate, models.TargetCameraRequest, &id,
		fmt.Sprintf("Camera request %s", cr.Status))
	return cr, nil
}

func (s *CameraRequestService) visible(ctx context.Context, caller scope.Caller, id uuid.UUID) (*models.CameraRequest, error) {
	cr, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, utils.Internal("Failed to load camera request", err)
	}
	if cr == nil || !scope.Visible(cr, caller, scope.CameraRequest) {
		return nil, utils.NotFound("Camera request not found")
	}
	return cr, nil
}
