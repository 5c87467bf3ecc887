package dtos

import (
	"github.com/google/uuid"

	"github.com/nconnect/society-backend/internal/models"
)

// ----- Self-service -----

// UnitMembership is one unit the caller occupies and the role held there.
type UnitMembership struct {
	UnitID     uuid.UUID            `json:"unit_id"`
	UnitNumber string               `json:"unit_number"`
	Building   string               `json:"building"`
	Role       models.OccupancyRole `json:"role"`
}

// UserStatusResponse also carries the caller's own assignment rows on the
// units they currently occupy, newest first.
type UserStatusResponse struct {
	User        *models.User                  `json:"user"`
	IsAdmin     bool                          `json:"is_admin"`
	Units       []UnitMembership              `json:"units"`
	Assignments []*models.OccupancyAssignment `json:"assignments"`
}

type UpdateProfileRequest struct {
	Email                 *string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName             *string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName              *string `json:"last_name,omitempty" validate:"omitempty,max=150"`
	PhoneNumber           *string `json:"phone_number,omitempty" validate:"omitempty,phone10"`
	Bio                   *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	EmergencyContactName  *string `json:"emergency_contact_name,omitempty" validate:"omitempty,max=100"`
	EmergencyContactPhone *string `json:"emergency_contact_phone,omitempty" validate:"omitempty,phone10"`
	CurrentPassword       *string `json:"current_password,omitempty" validate:"required_with=NewPassword"`
	NewPassword           *string `json:"new_password,omitempty" validate:"omitempty,society_password"`
}

// ----- Administration -----

type CreateUserRequest struct {
	Username    string  `json:"username" validate:"required,min=3,max=150,alphanum"`
	Email       string  `json:"email" validate:"omitempty,email"`
	FirstName   string  `json:"first_name" validate:"max=150"`
	LastName    string  `json:"last_name" validate:"max=150"`
	Password    string  `json:"password" validate:"required,society_password"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,phone10"`
	IsAdmin     bool    `json:"is_admin"`
}

type UpdateUserRequest struct {
	Email                 *string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName             *string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName              *string `json:"last_name,omitempty" validate:"omitempty,max=150"`
	PhoneNumber           *string `json:"phone_number,omitempty" validate:"omitempty,phone10"`
	Bio                   *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	EmergencyContactName  *string `json:"emergency_contact_name,omitempty" validate:"omitempty,max=100"`
	EmergencyContactPhone *string `json:"emergency_contact_phone,omitempty" validate:"omitempty,phone10"`
	IsActive              *bool   `json:"is_active,omitempty"`
	IsAdmin               *bool   `json:"is_admin,omitempty"`
}

type AssignUnitRequest struct {
	UnitID uuid.UUID `json:"unit_id" validate:"required"`
	Role   string    `json:"role" validate:"required,oneof=owner tenant"`
	Notes  string    `json:"notes" validate:"max=500"`
}

type RemoveFromUnitRequest struct {
	UnitID uuid.UUID `json:"unit_id" validate:"required"`
	Notes  string    `json:"notes" validate:"max=500"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,society_password"`
}

// OccupancyChangeResponse is returned by assign-unit and remove-from-unit.
type OccupancyChangeResponse struct {
	Unit       *models.ResidenceUnit       `json:"unit"`
	Assignment *models.OccupancyAssignment `json:"assignment,omitempty"`
	Changed    bool                        `json:"changed"`
}
