package models

import (
	"time"

	"github.com/google/uuid"
)

type TenancyRequestStatus string

const (
	TenancyRequestPending  TenancyRequestStatus = "pending"
	TenancyRequestApproved TenancyRequestStatus = "approved"
	TenancyRequestRejected TenancyRequestStatus = "rejected"
)

// TenancyRequest is a user's application to rent a unit. A pending request
// does not make the user an occupant.
type TenancyRequest struct {
	ID          uuid.UUID            `json:"id"`
	TenantID    uuid.UUID            `json:"tenant_id"`
	UnitID      uuid.UUID            `json:"unit_id"`
	Status      TenancyRequestStatus `json:"status"`
	Message     string               `json:"message"`
	RequestedAt time.Time            `json:"requested_at"`
	ProcessedAt *time.Time           `json:"processed_at,omitempty"`
	ProcessedBy *uuid.UUID           `json:"processed_by,omitempty"`
	AdminNotes  string               `json:"admin_notes"`
}
