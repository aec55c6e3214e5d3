// Package domain defines the core user domain entities and types.
package domain

import (
	"time"

	"github.com/allisson/authcore/internal/errors"
)

// User represents an account. Password is nil for accounts created through an
// external identity provider (no local credential set); plaintext passwords
// are never persisted.
type User struct {
	ID              int64
	Name            string
	Email           string
	Password        *string
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasLocalCredential reports whether the account can authenticate with a password.
func (u *User) HasLocalCredential() bool {
	return u.Password != nil
}

// EmailVerified reports whether the account's e-mail address was confirmed.
func (u *User) EmailVerified() bool {
	return u.EmailVerifiedAt != nil
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same email already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrInvalidEmail indicates the email format is invalid.
	ErrInvalidEmail = errors.Wrap(errors.ErrInvalidInput, "invalid email format")

	// ErrInvalidPassword indicates the password doesn't meet requirements.
	ErrInvalidPassword = errors.Wrap(errors.ErrInvalidInput, "invalid password")
)
