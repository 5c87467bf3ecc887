package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/scope"
	"github.com/nconnect/society-backend/internal/utils"
)

type ComplaintService struct {
	complaints repositories.ComplaintRepository
	callers    *CallerResolver
	activity   activityRecorder
	now        func() time.Time
}

func NewComplaintService(
	complaints repositories.ComplaintRepository,
	callers *CallerResolver,
	activity repositories.ActivityLogRepository,
) *ComplaintService {
	return &ComplaintService{
		complaints: complaints,
		callers:    callers,
		activity:   activityRecorder{repo: activity, now: time.Now},
		now:        time.Now,
	}
}

func (s *ComplaintService) List(ctx context.Context, callerID uuid.UUID, f repositories.ComplaintFilter) ([]*models.Complaint, error) {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	list, err := s.complaints.List(ctx, f)
	if err != nil {
		return nil, utils.Internal("Failed to list complaints", err)
	}
	return scope.Filter(nonNil(list), caller, scope.Complaint), nil
}

// Mine lists complaints the caller filed, whatever unit they were filed for.
func (s *ComplaintService) Mine(ctx context.Context, callerID uuid.UUID) ([]*models.Complaint, error) {
	if _, _, err := s.callers.Resolve(ctx, callerID); err != nil {
		return nil, err
	}
	list, err := s.complaints.List(ctx, repositories.ComplaintFilter{AuthorID: &callerID})
	if err != nil {
		return nil, utils.Internal("Failed to list complaints", err)
	}
	return nonNil(list), nil
}

func (s *ComplaintService) Get(ctx context.Context, callerID, id uuid.UUID) (*models.Complaint, error) {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return s.visible(ctx, caller, id)
}

func (s *ComplaintService) Create(ctx context.Context, callerID uuid.UUID, req dtos.CreateComplaintRequest) (*models.Complaint, error) {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin && !caller.OccupiesUnit(req.UnitID) {
		return nil, utils.Forbidden("You can only file complaints for a unit you occupy")
	}

	priority := models.PriorityMedium
	if req.Priority != "" {
		priority = models.Priority(req.Priority)
	}
	c := &models.Complaint{
		ID:          uuid.New(),
		AuthorID:    callerID,
		UnitID:      req.UnitID,
		Title:       req.Title,
		Description: req.Description,
		Category:    models.ComplaintCategory(req.Category),
		Priority:    priority,
		Status:      models.ComplaintOpen,
		Location:    req.Location,
	}
	if err := s.complaints.Create(ctx, c); err != nil {
		return nil, utils.PersistenceError("Failed to file complaint", err)
	}
	s.activity.record(ctx, callerID, models.ActivityCreate, models.TargetComplaint, &c.ID,
		fmt.Sprintf("Filed complaint %q", c.Title))
	return c, nil
}

// Update applies the author's edits. Rating and feedback are only
// accepted once the complaint has been resolved or closed.
func (s *ComplaintService) Update(ctx context.Context, callerID, id uuid.UUID, req dtos.UpdateComplaintRequest) (*models.Complaint, error) {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	existing, err := s.visible(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin && existing.AuthorID != callerID {
		return nil, utils.Forbidden("Only the author can edit this complaint")
	}

	var updated *models.Complaint
	err = s.complaints.UpdateWithRetry(ctx, id, func(c *models.Complaint) error {
		if req.Title != nil {
			c.Title = *req.Title
		}
		if req.Description != nil {
			c.Description = *req.Description
		}
		if req.Category != nil {
			c.Category = models.ComplaintCategory(*req.Category)
		}
		if req.Priority != nil {
			c.Priority = models.Priority(*req.Priority)
		}
		if req.Location != nil {
			c.Location = *req.Location
		}
		if req.SatisfactionRating != nil || req.Feedback != nil {
			if c.Status != models.ComplaintResolved && c.Status != models.ComplaintClosed {
				return invalidState("Feedback can only be given on a resolved complaint")
			}
			if req.SatisfactionRating != nil {
				c.SatisfactionRating = req.SatisfactionRating
			}
			if req.Feedback != nil {
				c.Feedback = *req.Feedback
			}
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, updateError(err, "Complaint")
	}
	s.activity.record(ctx, callerID, models.ActivityUpdate, models.TargetComplaint, &id,
		fmt.Sprintf("Updated complaint %q", updated.Title))
	return updated, nil
}

func (s *ComplaintService) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return err
	}
	existing, err := s.visible(ctx, caller, id)
	if err != nil {
		return err
	}
	if !caller.IsAdmin && existing.AuthorID != callerID {
		return utils.Forbidden("Only the author can delete this complaint")
	}
	if err := s.complaints.Delete(ctx, id); err != nil {
		return deleteError(err, "Complaint")
	}
	s.activity.record(ctx, callerID, models.ActivityDelete, models.TargetComplaint, &id,
		fmt.Sprintf("Deleted complaint %q", existing.Title))
	return nil
}

// UpdateStatus moves a complaint through its lifecycle. Entering resolved
// or closed stamps the resolution; reopening clears it.
func (s *ComplaintService) UpdateStatus(ctx context.Context, adminID, id uuid.UUID, req dtos.UpdateComplaintStatusRequest) (*models.Complaint, error) {
	estimated, err := dtos.ParseDate(req.EstimatedResolutionDate)
	if err != nil {
		return nil, utils.BadRequest("Invalid estimated resolution date")
	}
	now := s.now()
	status := models.ComplaintStatus(req.Status)

	var updated *models.Complaint
	err = s.complaints.UpdateWithRetry(ctx, id, func(c *models.Complaint) error {
		c.Status = status
		if req.AdminResponse != nil {
			c.AdminResponse = *req.AdminResponse
		}
		if estimated != nil {
			c.EstimatedResolutionDate = estimated
		}
		switch status {
		case models.ComplaintResolved, models.ComplaintClosed:
			if c.ResolvedAt == nil {
				d := today(now)
				c.ResolvedAt = &now
				c.ResolvedBy = &adminID
				c.ActualResolutionDate = &d
			}
		default:
			c.ResolvedAt = nil
			c.ResolvedBy = nil
			c.ActualResolutionDate = nil
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, updateError(err, "Complaint")
	}
	s.activity.record(ctx, adminID, models.ActivityUpdate, models.TargetComplaint, &id,
		fmt.Sprintf("Set complaint %q to %s", updated.Title, status))
	return updated, nil
}

func (s *ComplaintService) visible(ctx context.Context, caller scope.Caller, id uuid.UUID) (*models.Complaint, error) {
	c, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, utils.Internal("Failed to load complaint", err)
	}
	if c == nil || !scope.Visible(c, caller, scope.Complaint) {
		return nil, utils.NotFound("Complaint not found")
	}
	return c, nil
}
