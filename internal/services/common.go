package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/sirupsen/logrus"

	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/occupancy"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/scope"
	"github.com/nconnect/society-backend/internal/utils"
)

// CallerResolver turns the authenticated user id into the scope.Caller
// every read and write is evaluated against. The administrator flag comes
// from the users table, not from the token.
type CallerResolver struct {
	users repositories.UserRepository
	units repositories.UnitRepository
}

func NewCallerResolver(users repositories.UserRepository, units repositories.UnitRepository) *CallerResolver {
	return &CallerResolver{users: users, units: units}
}

func (r *CallerResolver) Resolve(ctx context.Context, userID uuid.UUID) (*models.User, scope.Caller, error) {
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return nil, scope.Caller{}, utils.Internal("Failed to load user", err)
	}
	if user == nil {
		return nil, scope.Caller{}, &utils.AppError{
			StatusCode: http.StatusUnauthorized,
			Code:       utils.ErrCodeUnauthorized,
			Message:    "Unknown user",
		}
	}
	if !user.IsActive {
		return nil, scope.Caller{}, utils.Forbidden("Account is inactive")
	}
	units, err := r.units.ListByOccupant(ctx, userID)
	if err != nil {
		return nil, scope.Caller{}, utils.Internal("Failed to load residence units", err)
	}
	return user, scope.NewCaller(user.ID, user.IsAdmin, units), nil
}

// activityRecorder appends best-effort activity rows. A failure is logged
// and never fails the request that triggered it.
type activityRecorder struct {
	repo repositories.ActivityLogRepository
	now  func() time.Time
}

func (a activityRecorder) record(
	ctx context.Context,
	actor uuid.UUID,
	action models.ActivityAction,
	target models.ActivityTarget,
	targetID *uuid.UUID,
	description string,
) {
	meta := utils.RequestMetaFrom(ctx)
	entry := &models.ActivityLog{
		ID:          uuid.New(),
		UserID:      actor,
		Action:      action,
		Description: description,
		TargetType:  target,
		TargetID:    targetID,
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
		Timestamp:   a.now(),
	}
	if err := a.repo.Create(ctx, entry); err != nil {
		utils.Logger.WithFields(logrus.Fields{
			"actor":  actor,
			"action": action,
			"target": target,
		}).WithError(err).Warn("Failed to record activity")
	}
}

func invalidState(msg string) *utils.AppError {
	return &utils.AppError{StatusCode: http.StatusConflict, Code: utils.ErrCodeInvalidState, Message: msg}
}

// updateError maps the outcome of UpdateWithRetry. AppErrors raised inside
// the mutate callback pass through unchanged.
func updateError(err error, entity string) error {
	var appErr *utils.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, pgx.ErrNoRows):
		return utils.NotFound(entity + " not found")
	default:
		return utils.PersistenceError("Failed to update "+entity, err)
	}
}

func deleteError(err error, entity string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return utils.NotFound(entity + " not found")
	}
	return utils.Internal("Failed to delete "+entity, err)
}

// occupancyError maps Manager failures. Transaction failures keep a
// generic public message; the cause is only logged.
func occupancyError(err error, op string) error {
	switch {
	case errors.Is(err, occupancy.ErrUnitNotFound):
		return utils.NotFound("Residence unit not found")
	case errors.Is(err, occupancy.ErrInvalidRole):
		return utils.BadRequest("Role must be owner or tenant")
	default:
		return utils.Internal("Failed to "+op, err)
	}
}

func today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
