package domain

import (
	"errors"
	"time"
)

// User is the core user entity. Owned by the identity provider; the
// access-control core only reads it.
type User struct {
	ID    string
	Email string
	Name  string
	// PasswordHash is the bcrypt hash for locally provisioned users;
	// empty for users whose credential lives with the identity provider.
	PasswordHash string
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	return nil
}
