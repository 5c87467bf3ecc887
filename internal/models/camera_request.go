package models

import (
	"time"

	"github.com/google/uuid"
)

type CameraRequestStatus string

const (
	CameraRequestPending  CameraRequestStatus = "pending"
	CameraRequestApproved CameraRequestStatus = "approved"
	CameraRequestRejected CameraRequestStatus = "rejected"
	CameraRequestExpired  CameraRequestStatus = "expired"
)

// CameraRequest asks the administrators for temporary access to CCTV
// footage of a location.
type CameraRequest struct {
	ID              uuid.UUID           `json:"id"`
	RequesterID     uuid.UUID           `json:"requester_id"`
	UnitID          uuid.UUID           `json:"unit_id"`
	Reason          string              `json:"reason"`
	RequestedDate   time.Time           `json:"requested_date"`
	RequestedTime   *string             `json:"requested_time,omitempty"`
	DurationHours   int                 `json:"duration_hours"`
	CameraLocation  string              `json:"camera_location"`
	Status          CameraRequestStatus `json:"status"`
	ApprovalDetails string              `json:"approval_details"`
	AccessLink      string              `json:"access_link"`
	RequestedAt     time.Time           `json:"requested_at"`
	ProcessedAt     *time.Time          `json:"processed_at,omitempty"`
	ProcessedBy     *uuid.UUID          `json:"processed_by,omitempty"`
	ExpiresAt       *time.Time          `json:"expires_at,omitempty"`
}
