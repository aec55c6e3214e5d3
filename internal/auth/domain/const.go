// Package domain defines the token lifecycle domain models.
// A token is either a stateless access token (signed, never stored) or a
// stateful refresh/verification token backed by a database row that carries
// the revocation state.
package domain

import (
	"fmt"

	"github.com/allisson/authcore/internal/errors"
)

// TokenType identifies the lifecycle class of a token.
type TokenType string

const (
	// AccessToken is a short-lived bearer token. Access tokens are signed but
	// never persisted, so they cannot be revoked before natural expiry. This
	// is a deliberate tradeoff: their lifetime is short enough that tracking
	// revocation isn't worth a database round-trip per request.
	AccessToken TokenType = "access"

	// RefreshToken is a long-lived token used to mint new access tokens.
	// Refresh tokens are persisted and revocable.
	RefreshToken TokenType = "refresh"

	// VerificationToken is an e-mailed token proving ownership of an address.
	// Its subject is the owner's e-mail rather than the numeric id because
	// verification links may be followed before any session exists.
	VerificationToken TokenType = "verification"
)

// ParseTokenType converts a raw string into a TokenType.
// Returns ErrTokenMalformed for unrecognized values.
func ParseTokenType(s string) (TokenType, error) {
	switch TokenType(s) {
	case AccessToken, RefreshToken, VerificationToken:
		return TokenType(s), nil
	default:
		return "", errors.Wrap(ErrTokenMalformed, fmt.Sprintf("unknown token type %q", s))
	}
}

// Stored reports whether tokens of this type are persisted. Access tokens are
// stateless; refresh and verification tokens are stored so they can be revoked.
func (t TokenType) Stored() bool {
	return t == RefreshToken || t == VerificationToken
}
