package dtos

import (
	"github.com/google/uuid"
)

type CreateCameraRequestRequest struct {
	UnitID         uuid.UUID `json:"unit_id" validate:"required"`
	Reason         string    `json:"reason" validate:"required,max=2000"`
	RequestedDate  string    `json:"requested_date" validate:"required,datetime=2006-01-02"`
	RequestedTime  *string   `json:"requested_time,omitempty" validate:"omitempty,datetime=15:04"`
	DurationHours  int       `json:"duration_hours" validate:"omitempty,min=1,max=24"`
	CameraLocation string    `json:"camera_location" validate:"required,max=100"`
}

// ProcessCameraRequestRequest records an administrator decision. An
// approval must carry AccessLink.
type ProcessCameraRequestRequest struct {
	Action          string `json:"action" validate:"required,oneof=approve reject"`
	ApprovalDetails string `json:"approval_details" validate:"max=2000"`
	AccessLink      string `json:"access_link" validate:"omitempty,url"`
}
