package domain

import (
	"fmt"

	"github.com/allisson/authcore/internal/errors"
)

// Token lifecycle and credential errors.
var (
	// ErrTokenNotFound indicates no token row exists for the presented jti.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")

	// ErrOwnerNotFound indicates token creation referenced a nonexistent user
	// (surfaced from a foreign key violation).
	ErrOwnerNotFound = errors.Wrap(errors.ErrInvalidInput, "token owner does not exist")

	// ErrTokenMalformed indicates the presented token string or its claims are
	// structurally invalid: empty input, bad signature, or a jti that is not a
	// non-negative integer.
	ErrTokenMalformed = errors.Wrap(errors.ErrInvalidInput, "malformed token")

	// ErrTokenExpired indicates the signature is valid but the token is past
	// its expiry. Kept distinct from ErrTokenMalformed so callers can tell a
	// stale credential from a bogus one.
	ErrTokenExpired = errors.Wrap(errors.ErrUnprocessable, "token expired")

	// ErrTokenRevoked indicates the token row exists but was revoked.
	// Revocation is terminal; a revoked token never becomes active again.
	ErrTokenRevoked = errors.Wrap(errors.ErrUnprocessable, "token revoked")

	// ErrTokenTypeMismatch indicates the decoded token type doesn't match the
	// type the caller expected (e.g., a verification token presented where a
	// refresh token is required).
	ErrTokenTypeMismatch = errors.Wrap(errors.ErrConflict, "token type mismatch")

	// ErrTokenOwnerMismatch indicates the sub claim doesn't match the owner of
	// the referenced token row. This is the tamper guard: a valid jti whose
	// subject was altered must not resolve.
	ErrTokenOwnerMismatch = errors.Wrap(errors.ErrUnauthorized, "token owner mismatch")

	// ErrOwnershipRequired indicates a resolved token's owner doesn't match
	// the externally supplied uid (e.g., "delete my account" where the token
	// subject isn't the target user).
	ErrOwnershipRequired = errors.Wrap(errors.ErrUnauthorized, "token does not belong to the requested user")

	// ErrInvalidCredentials indicates an e-mail/password pair didn't match.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrMalformedHash indicates a stored password hash is not in any
	// recognizable format and cannot be verified against.
	ErrMalformedHash = errors.Wrap(errors.ErrInvalidInput, "malformed password hash")

	// ErrHashing indicates password hashing failed (e.g., empty input).
	ErrHashing = errors.Wrap(errors.ErrInvalidInput, "password hashing failed")
)

// CredentialError carries the identity of the account whose login failed so
// callers can log it. It never carries the stored hash or the submitted
// password.
type CredentialError struct {
	Email  string
	UserID int64
	Err    error
}

// Error implements the error interface.
func (e *CredentialError) Error() string {
	return fmt.Sprintf("invalid login credentials for %s", e.Email)
}

// Unwrap exposes the underlying sentinel so errors.Is(err, ErrInvalidCredentials) holds.
func (e *CredentialError) Unwrap() error {
	return e.Err
}

// NewCredentialError builds a CredentialError wrapping ErrInvalidCredentials.
func NewCredentialError(userID int64, email string) *CredentialError {
	return &CredentialError{
		Email:  email,
		UserID: userID,
		Err:    ErrInvalidCredentials,
	}
}
