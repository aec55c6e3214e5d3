// Package usecase defines business logic interfaces for the token lifecycle
// and credential validation.
package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/authcore/internal/auth/domain"
	outboxDomain "github.com/allisson/authcore/internal/outbox/domain"
	userDomain "github.com/allisson/authcore/internal/user/domain"
)

// TokenRepository defines persistence operations for token records.
// Implementations must support transaction-aware operations via context propagation.
type TokenRepository interface {
	// Create stores a new token record; the backend assigns the id.
	// Returns ErrOwnerNotFound when the owner doesn't exist.
	Create(ctx context.Context, token *authDomain.Token) error

	// Get retrieves a token by id. Returns ErrTokenNotFound if not found.
	Get(ctx context.Context, tokenID int64) (*authDomain.Token, error)

	// GetByOwnerAndType lists an owner's tokens of one type, newest first.
	GetByOwnerAndType(ctx context.Context, ownerID int64, tokenType authDomain.TokenType) ([]*authDomain.Token, error)

	// UpdateRevoked flips the revoked flag and returns the updated record.
	UpdateRevoked(ctx context.Context, tokenID int64, revoked bool) (*authDomain.Token, error)

	// Delete removes a token row and returns the deleted record.
	Delete(ctx context.Context, tokenID int64) (*authDomain.Token, error)

	// DeleteExpired removes tokens expired for more than the given number of
	// days. With dryRun it only reports how many rows would go.
	DeleteExpired(ctx context.Context, now time.Time, days int, dryRun bool) (int64, error)
}

// UserRepository defines the user lookups the token lifecycle needs.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*userDomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userDomain.User, error)
}

// OutboxEventRepository stores events for asynchronous hand-off
// (e.g. verification e-mails).
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
}

// ResolvedToken pairs a stored token record with its owner, as returned by a
// successful resolve.
type ResolvedToken struct {
	Record *authDomain.Token
	Owner  *userDomain.User
}

// TokenUseCase orchestrates the token lifecycle: issuance, resolution,
// revocation and cleanup.
type TokenUseCase interface {
	// CreateAccess issues a short-lived stateless access token for the user.
	// No database row is written; possession of a validly signed token is the
	// whole proof.
	CreateAccess(ctx context.Context, ownerID int64) (string, error)

	// CreateRefresh issues a stored refresh token for the user. The signed
	// string embeds the record id so later presentations resolve to the row.
	CreateRefresh(ctx context.Context, ownerID int64) (string, error)

	// CreateVerification issues a stored e-mail verification token for the
	// account behind email and enqueues an outbox event carrying the signed
	// token, both in one transaction. Returns ErrOwnerNotFound when no
	// account matches.
	CreateVerification(ctx context.Context, email string) (string, error)

	// Resolve validates a presented stored token end to end and returns the
	// record with its owner.
	//
	// Checks run in order: signature and expiry, record existence, record
	// type against expected, revocation, stored expiry, owner lookup and
	// subject/owner agreement. Access tokens are stateless and never
	// resolve; use AuthenticateAccess.
	Resolve(ctx context.Context, raw string, expected authDomain.TokenType) (*ResolvedToken, error)

	// AuthenticateAccess verifies a stateless access token and returns its
	// owner. Returns ErrInvalidCredentials when the subject doesn't map to an
	// account.
	AuthenticateAccess(ctx context.Context, raw string) (*userDomain.User, error)

	// Revoke marks a token revoked. Revocation is terminal and idempotent:
	// revoking an already revoked token succeeds.
	Revoke(ctx context.Context, tokenID int64) error

	// Delete permanently removes a token record.
	Delete(ctx context.Context, tokenID int64) error

	// ValidateOwnership checks that the token belongs to the user identified
	// by uid, which may be a numeric id or an e-mail address. Returns
	// ErrOwnershipRequired on mismatch.
	ValidateOwnership(ctx context.Context, token *authDomain.Token, uid string) error

	// CleanupExpired deletes tokens expired for more than days days.
	CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error)
}

// CredentialUseCase validates local e-mail/password credentials.
type CredentialUseCase interface {
	// ValidateLocal checks an e-mail/password pair and returns the matched
	// user. Unknown e-mail fails ErrUserNotFound. An account with no local
	// credential is returned as-is when no candidate password is supplied;
	// a password mismatch, or a candidate against a credential-less account,
	// fails with a CredentialError wrapping ErrInvalidCredentials.
	ValidateLocal(ctx context.Context, email, password string) (*userDomain.User, error)
}
