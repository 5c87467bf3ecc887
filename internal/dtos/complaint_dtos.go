package dtos

import (
	"github.com/google/uuid"
)

type CreateComplaintRequest struct {
	UnitID      uuid.UUID `json:"unit_id" validate:"required"`
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"required,max=5000"`
	Category    string    `json:"category" validate:"required,oneof=maintenance plumbing electrical security noise parking elevator cleaning other"`
	Priority    string    `json:"priority" validate:"omitempty,oneof=low normal medium high urgent"`
	Location    string    `json:"location" validate:"max=100"`
}

// UpdateComplaintRequest is the author's edit. Feedback and rating are
// accepted once the complaint is resolved.
type UpdateComplaintRequest struct {
	Title              *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Description        *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category           *string `json:"category,omitempty" validate:"omitempty,oneof=maintenance plumbing electrical security noise parking elevator cleaning other"`
	Priority           *string `json:"priority,omitempty" validate:"omitempty,oneof=low normal medium high urgent"`
	Location           *string `json:"location,omitempty" validate:"omitempty,max=100"`
	SatisfactionRating *int    `json:"satisfaction_rating,omitempty" validate:"omitempty,min=1,max=5"`
	Feedback           *string `json:"feedback,omitempty" validate:"omitempty,max=2000"`
}

type UpdateComplaintStatusRequest struct {
	Status                  string  `json:"status" validate:"required,oneof=open in_progress resolved closed"`
	AdminResponse           *string `json:"admin_response,omitempty" validate:"omitempty,max=5000"`
	EstimatedResolutionDate *string `json:"estimated_resolution_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}
