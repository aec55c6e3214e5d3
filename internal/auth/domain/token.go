package domain

import (
	"time"
)

// Token is a persisted refresh or verification token row. The row is the
// source of truth for revocation; the signed string handed to clients only
// references it by ID (the jti claim).
type Token struct {
	ID        int64
	OwnerID   int64
	Type      TokenType
	CreatedAt int64 // unix seconds, immutable after creation
	TTL       int64 // seconds from creation to expiry
	Revoked   bool
}

// ExpiresAt returns the unix timestamp at which the token expires.
// Computed from CreatedAt and TTL, never stored.
func (t *Token) ExpiresAt() int64 {
	return t.CreatedAt + t.TTL
}

// IsExpired reports whether the token is past its expiry at the given instant.
func (t *Token) IsExpired(now time.Time) bool {
	return now.Unix() > t.ExpiresAt()
}

// Claims is the decoded payload of a signed token string.
type Claims struct {
	// TokenID is the jti claim: the primary key of the backing Token row.
	// Zero for access tokens, which are not stored.
	TokenID int64
	// Subject is the sub claim: the owner's numeric id for access/refresh
	// tokens, the owner's e-mail for verification tokens.
	Subject string
	// Type is the lifecycle class the token was signed as.
	Type TokenType
}
