package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/scope"
	"github.com/nconnect/society-backend/internal/utils"
)

const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 200
)

type ActivityService struct {
	logs    repositories.ActivityLogRepository
	callers *CallerResolver
}

func NewActivityService(logs repositories.ActivityLogRepository, callers *CallerResolver) *ActivityService {
	return &ActivityService{logs: logs, callers: callers}
}

// List returns activity newest first. Residents only ever see their own
// rows regardless of the requested user filter.
func (s *ActivityService) List(ctx context.Context, callerID uuid.UUID, f repositories.ActivityFilter) ([]*models.ActivityLog, error) {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin {
		f.UserID = &callerID
	}
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultActivityLimit
	case f.Limit > MaxActivityLimit:
		f.Limit = MaxActivityLimit
	}

	logs, err := s.logs.List(ctx, f)
	if err != nil {
		return nil, utils.Internal("Failed to list activity", err)
	}
	return nonNil(scope.Filter(logs, caller, scope.Activity)), nil
}
