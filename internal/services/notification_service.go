package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/metrics"
	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/repositories"
	"github.com/nconnect/society-backend/internal/scope"
	"github.com/nconnect/society-backend/internal/utils"
)

// DeliveryOptions gates the outbound channels. A nil sender or a false
// flag disables that channel regardless of the notification's request.
type DeliveryOptions struct {
	Email        EmailSender
	SMS          SMSSender
	EmailEnabled bool
	SMSEnabled   bool
}

type NotificationService struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	callers       *CallerResolver
	activity      activityRecorder
	delivery      DeliveryOptions
}

func NewNotificationService(
	notifications repositories.NotificationRepository,
	users repositories.UserRepository,
	callers *CallerResolver,
	activity repositories.ActivityLogRepository,
	delivery DeliveryOptions,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		callers:       callers,
		activity:      activityRecorder{repo: activity, now: time.Now},
		delivery:      delivery,
	}
}

func (s *NotificationService) List(ctx context.Context, callerID uuid.UUID, f repositories.NotificationFilter) ([]dtos.NotificationResponse, error) {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin {
		f.ActiveOnly = true
	}
	list, err := s.notifications.List(ctx, f)
	if err != nil {
		return nil, utils.Internal("Failed to list notifications", err)
	}
	visible := scope.Filter(list, caller, scope.Notification)
	out := make([]dtos.NotificationResponse, 0, len(visible))
	for _, n := range visible {
		out = append(out, dtos.NotificationResponse{Notification: n, IsRead: n.IsReadBy(callerID)})
	}
	return out, nil
}

func (s *NotificationService) Get(ctx context.Context, callerID, id uuid.UUID) (*dtos.NotificationResponse, error) {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return nil, err
	}
	n, err := s.visible(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return &dtos.NotificationResponse{Notification: n, IsRead: n.IsReadBy(callerID)}, nil
}

// Create stores the notification and fans it out by e-mail and SMS. An
// empty recipient list addresses every active user. Delivery failures are
// logged and counted but do not fail the request.
func (s *NotificationService) Create(ctx context.Context, adminID uuid.UUID, req dtos.CreateNotificationRequest) (*models.Notification, error) {
	n := &models.Notification{
		ID:               uuid.New(),
		Title:            req.Title,
		Message:          req.Message,
		NotificationType: models.NotificationGeneral,
		Priority:         models.PriorityNormal,
		RecipientIDs:     dedupe(req.RecipientIDs),
		ReadByIDs:        []uuid.UUID{},
		CreatedBy:        adminID,
		IsActive:         true,
		SendEmail:        req.SendEmail,
		SendSMS:          req.SendSMS,
		ExpiresAt:        req.ExpiresAt,
	}
	if req.NotificationType != "" {
		n.NotificationType = models.NotificationType(req.NotificationType)
	}
	if req.Priority != "" {
		n.Priority = models.Priority(req.Priority)
	}

	recipients, err := s.recipients(ctx, n.RecipientIDs)
	if err != nil {
		return nil, err
	}
	if len(n.RecipientIDs) > 0 && len(recipients) != len(n.RecipientIDs) {
		return nil, utils.BadRequest("One or more recipients do not exist")
	}

	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, utils.PersistenceError("Failed to create notification", err)
	}
	s.activity.record(ctx, adminID, models.ActivityCreate, models.TargetNotification, &n.ID,
		"Sent notification "+n.Title)

	s.fanOut(ctx, n, recipients)
	return n, nil
}

func (s *NotificationService) Delete(ctx context.Context, adminID, id uuid.UUID) error {
	if err := s.notifications.Delete(ctx, id); err != nil {
		return deleteError(err, "Notification")
	}
	s.activity.record(ctx, adminID, models.ActivityDelete, models.TargetNotification, &id, "Deleted notification")
	return nil
}

func (s *NotificationService) MarkRead(ctx context.Context, callerID, id uuid.UUID) error {
	_, caller, err := s.callers.Resolve(ctx, callerID)
	if err != nil {
		return err
	}
	if _, err := s.visible(ctx, caller, id); err != nil {
		return err
	}
	if err := s.notifications.MarkRead(ctx, id, callerID); err != nil {
		return utils.Internal("Failed to mark notification as read", err)
	}
	return nil
}

func (s *NotificationService) recipients(ctx context.Context, ids []uuid.UUID) ([]*models.User, error) {
	if len(ids) > 0 {
		users, err := s.users.ListByIDs(ctx, ids)
		if err != nil {
			return nil, utils.Internal("Failed to load recipients", err)
		}
		return users, nil
	}
	active := true
	users, err := s.users.List(ctx, repositories.UserFilter{IsActive: &active})
	if err != nil {
		return nil, utils.Internal("Failed to load recipients", err)
	}
	return users, nil
}

func (s *NotificationService) fanOut(ctx context.Context, n *models.Notification, recipients []*models.User) {
	sendEmail := n.SendEmail && s.delivery.EmailEnabled && s.delivery.Email != nil
	sendSMS := n.SendSMS && s.delivery.SMSEnabled && s.delivery.SMS != nil
	if !sendEmail && !sendSMS {
		return
	}

	subject := "[" + utils.OrganizationName + "] " + n.Title
	htmlBody := notificationEmailHTML(n.Title, n.Message)
	for _, u := range recipients {
		if !u.IsActive {
			continue
		}
		logger := utils.Logger.WithFields(logrus.Fields{"notificationID": n.ID, "userID": u.ID})
		if sendEmail && u.Email != "" {
			err := s.delivery.Email.SendEmail(ctx, u.FullName(), u.Email, subject, n.Message, htmlBody)
			recordDelivery("email", err, logger)
		}
		if sendSMS && u.PhoneNumber != nil && *u.PhoneNumber != "" {
			err := s.delivery.SMS.SendSMS(ctx, *u.PhoneNumber, n.Title+": "+n.Message)
			recordDelivery("sms", err, logger)
		}
	}
}

func recordDelivery(channel string, err error, logger *logrus.Entry) {
	if err != nil {
		metrics.NotificationDeliveriesTotal.WithLabelValues(channel, "error").Inc()
		logger.WithError(err).Warnf("Notification %s delivery failed", channel)
		return
	}
	metrics.NotificationDeliveriesTotal.WithLabelValues(channel, "ok").Inc()
}

func (s *NotificationService) visible(ctx context.Context, caller scope.Caller, id uuid.UUID) (*models.Notification, error) {
	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return nil, utils.Internal("Failed to load notification", err)
	}
	if n == nil || !scope.Visible(n, caller, scope.Notification) {
		return nil, utils.NotFound("Notification not found")
	}
	return n, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
