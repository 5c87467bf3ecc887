package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationGeneral     NotificationType = "general"
	NotificationMaintenance NotificationType = "maintenance"
	NotificationBilling     NotificationType = "billing"
	NotificationSecurity    NotificationType = "security"
	NotificationEvent       NotificationType = "event"
	NotificationEmergency   NotificationType = "emergency"
)

// Notification is a broadcast or targeted announcement. An empty
// RecipientIDs list addresses every resident.
type Notification struct {
	ID               uuid.UUID        `json:"id"`
	Title            string           `json:"title"`
	Message          string           `json:"message"`
	NotificationType NotificationType `json:"notification_type"`
	Priority         Priority         `json:"priority"`
	RecipientIDs     []uuid.UUID      `json:"recipient_ids"`
	ReadByIDs        []uuid.UUID      `json:"read_by_ids"`
	CreatedBy        uuid.UUID        `json:"created_by"`
	IsActive         bool             `json:"is_active"`
	SendEmail        bool             `json:"send_email"`
	SendSMS          bool             `json:"send_sms"`
	CreatedAt        time.Time        `json:"created_at"`
	ExpiresAt        *time.Time       `json:"expires_at,omitempty"`
}

func (n *Notification) IsRecipient(userID uuid.UUID) bool {
	return slices.Contains(n.RecipientIDs, userID)
}

func (n *Notification) IsReadBy(userID uuid.UUID) bool {
	return slices.Contains(n.ReadByIDs, userID)
}
