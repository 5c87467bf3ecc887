package models

import (
	"time"

	"github.com/google/uuid"
)

type ActivityAction string

const (
	ActivityCreate         ActivityAction = "create"
	ActivityUpdate         ActivityAction = "update"
	ActivityDelete         ActivityAction = "delete"
	ActivityLogin          ActivityAction = "login"
	ActivityLogout         ActivityAction = "logout"
	ActivityPasswordChange ActivityAction = "password_change"
	ActivityAssignUnit     ActivityAction = "assign_unit"
	ActivityRemoveFromUnit ActivityAction = "remove_from_unit"
)

type ActivityTarget string

const (
	TargetUser           ActivityTarget = "user"
	TargetUnit           ActivityTarget = "unit"
	TargetTenancyRequest ActivityTarget = "tenancy_request"
	TargetVehicle        ActivityTarget = "vehicle"
	TargetComplaint      ActivityTarget = "complaint"
	TargetBill           ActivityTarget = "bill"
	TargetCameraRequest  ActivityTarget = "camera_request"
	TargetNotification   ActivityTarget = "notification"
	TargetForumPost      ActivityTarget = "forum_post"
	TargetForumComment   ActivityTarget = "forum_comment"
)

// ActivityLog records who did what. UserID is the acting user.
type ActivityLog struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	Action      ActivityAction `json:"action"`
	Description string         `json:"description"`
	TargetType  ActivityTarget `json:"target_type,omitempty"`
	TargetID    *uuid.UUID     `json:"target_id,omitempty"`
	IPAddress   string         `json:"ip_address,omitempty"`
	UserAgent   string         `json:"user_agent,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}
