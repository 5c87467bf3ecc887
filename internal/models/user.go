package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a society member or administrator. Credentials are issued by the
// identity provider; PasswordHash is kept for administrator resets and
// self-service password changes.
type User struct {
	ID                    uuid.UUID `json:"id"`
	Username              string    `json:"username"`
	Email                 string    `json:"email"`
	FirstName             string    `json:"first_name"`
	LastName              string    `json:"last_name"`
	PasswordHash          string    `json:"-"`
	IsActive              bool      `json:"is_active"`
	IsAdmin               bool      `json:"is_admin"`
	PhoneNumber           *string   `json:"phone_number,omitempty"`
	Bio                   string    `json:"bio"`
	EmergencyContactName  string    `json:"emergency_contact_name"`
	EmergencyContactPhone *string   `json:"emergency_contact_phone,omitempty"`
	ForcePasswordChange   bool      `json:"force_password_change"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
	Versioned
}

func (u *User) GetID() string { return u.ID.String() }

func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}
