package models

import (
	"time"

	"github.com/google/uuid"
)

type ComplaintCategory string

const (
	ComplaintMaintenance ComplaintCategory = "maintenance"
	ComplaintPlumbing    ComplaintCategory = "plumbing"
	ComplaintElectrical  ComplaintCategory = "electrical"
	ComplaintSecurity    ComplaintCategory = "security"
	ComplaintNoise       ComplaintCategory = "noise"
	ComplaintParking     ComplaintCategory = "parking"
	ComplaintElevator    ComplaintCategory = "elevator"
	ComplaintCleaning    ComplaintCategory = "cleaning"
	ComplaintOther       ComplaintCategory = "other"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type ComplaintStatus string

const (
	ComplaintOpen       ComplaintStatus = "open"
	ComplaintInProgress ComplaintStatus = "in_progress"
	ComplaintResolved   ComplaintStatus = "resolved"
	ComplaintClosed     ComplaintStatus = "closed"
)

type Complaint struct {
	ID                      uuid.UUID         `json:"id"`
	AuthorID                uuid.UUID         `json:"author_id"`
	UnitID                  uuid.UUID         `json:"unit_id"`
	Title                   string            `json:"title"`
	Description             string            `json:"description"`
	Category                ComplaintCategory `json:"category"`
	Priority                Priority          `json:"priority"`
	Status                  ComplaintStatus   `json:"status"`
	Location                string            `json:"location"`
	AdminResponse           string            `json:"admin_response"`
	EstimatedResolutionDate *time.Time        `json:"estimated_resolution_date,omitempty"`
	ActualResolutionDate    *time.Time        `json:"actual_resolution_date,omitempty"`
	SatisfactionRating      *int              `json:"satisfaction_rating,omitempty"`
	Feedback                string            `json:"feedback"`
	ResolvedAt              *time.Time        `json:"resolved_at,omitempty"`
	ResolvedBy              *uuid.UUID        `json:"resolved_by,omitempty"`
	CreatedAt               time.Time         `json:"created_at"`
	UpdatedAt               time.Time         `json:"updated_at"`
	Versioned
}

func (c *Complaint) GetID() string { return c.ID.String() }

// IsOverdue is true when the estimated date has passed and the complaint is
// still open or in progress.
func (c *Complaint) IsOverdue(now time.Time) bool {
	if c.EstimatedResolutionDate == nil {
		return false
	}
	if c.Status == ComplaintResolved || c.Status == ComplaintClosed {
		return false
	}
	return now.After(*c.EstimatedResolutionDate)
}
