package models

import (
	"time"

	"github.com/google/uuid"
)

// Principal is the identity-provider side of a user: the synthetic address
// and credential hash. Usernames are mapped to an address form internally;
// the address is never shown to end users.
type Principal struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
