package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is the profile document shown in the admin screens. Credentials live
// on the Principal side; the profile never carries a password.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Role      UserRole  `json:"role"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserPatch holds the mutable profile fields. Username and ID are immutable
// after creation; the username doubles as the login identifier.
type UserPatch struct {
	Role      *UserRole `json:"role,omitempty"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
}
