package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/nconnect/society-backend/internal/models"
)

type CreateNotificationRequest struct {
	Title            string      `json:"title" validate:"required,max=200"`
	Message          string      `json:"message" validate:"required,max=5000"`
	NotificationType string      `json:"notification_type" validate:"omitempty,oneof=general maintenance billing security event emergency"`
	Priority         string      `json:"priority" validate:"omitempty,oneof=low normal medium high urgent"`
	RecipientIDs     []uuid.UUID `json:"recipient_ids" validate:"omitempty,dive,required"`
	SendEmail        bool        `json:"send_email"`
	SendSMS          bool        `json:"send_sms"`
	ExpiresAt        *time.Time  `json:"expires_at,omitempty"`
}

// NotificationResponse adds the caller's read state to a notification.
type NotificationResponse struct {
	*models.Notification
	IsRead bool `json:"is_read"`
}
