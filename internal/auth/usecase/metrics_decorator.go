package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/authcore/internal/auth/domain"
	"github.com/allisson/authcore/internal/metrics"
	userDomain "github.com/allisson/authcore/internal/user/domain"
)

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics instrumentation.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (t *tokenUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "auth", operation, status)
	t.metrics.RecordDuration(ctx, "auth", operation, time.Since(start), status)
}

// CreateAccess records metrics for access token issuance.
func (t *tokenUseCaseWithMetrics) CreateAccess(ctx context.Context, ownerID int64) (string, error) {
	start := time.Now()
	signed, err := t.next.CreateAccess(ctx, ownerID)
	t.record(ctx, "token_create_access", start, err)
	return signed, err
}

// CreateRefresh records metrics for refresh token issuance.
func (t *tokenUseCaseWithMetrics) CreateRefresh(ctx context.Context, ownerID int64) (string, error) {
	start := time.Now()
	signed, err := t.next.CreateRefresh(ctx, ownerID)
	t.record(ctx, "token_create_refresh", start, err)
	return signed, err
}

// CreateVerification records metrics for verification token issuance.
func (t *tokenUseCaseWithMetrics) CreateVerification(ctx context.Context, email string) (string, error) {
	start := time.Now()
	signed, err := t.next.CreateVerification(ctx, email)
	t.record(ctx, "token_create_verification", start, err)
	return signed, err
}

// Resolve records metrics for stored token resolution.
func (t *tokenUseCaseWithMetrics) Resolve(
	ctx context.Context,
	raw string,
	expected authDomain.TokenType,
) (*ResolvedToken, error) {
	start := time.Now()
	resolved, err := t.next.Resolve(ctx, raw, expected)
	t.record(ctx, "token_resolve", start, err)
	return resolved, err
}

// AuthenticateAccess records metrics for access token authentication.
func (t *tokenUseCaseWithMetrics) AuthenticateAccess(
	ctx context.Context,
	raw string,
) (*userDomain.User, error) {
	start := time.Now()
	user, err := t.next.AuthenticateAccess(ctx, raw)
	t.record(ctx, "token_authenticate", start, err)
	return user, err
}

// Revoke records metrics for token revocation.
func (t *tokenUseCaseWithMetrics) Revoke(ctx context.Context, tokenID int64) error {
	start := time.Now()
	err := t.next.Revoke(ctx, tokenID)
	t.record(ctx, "token_revoke", start, err)
	return err
}

// Delete records metrics for token deletion.
func (t *tokenUseCaseWithMetrics) Delete(ctx context.Context, tokenID int64) error {
	start := time.Now()
	err := t.next.Delete(ctx, tokenID)
	t.record(ctx, "token_delete", start, err)
	return err
}

// ValidateOwnership records metrics for ownership checks.
func (t *tokenUseCaseWithMetrics) ValidateOwnership(
	ctx context.Context,
	token *authDomain.Token,
	uid string,
) error {
	start := time.Now()
	err := t.next.ValidateOwnership(ctx, token, uid)
	t.record(ctx, "token_validate_ownership", start, err)
	return err
}

// CleanupExpired records metrics for expired token cleanup.
func (t *tokenUseCaseWithMetrics) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	start := time.Now()
	count, err := t.next.CleanupExpired(ctx, days, dryRun)
	t.record(ctx, "token_cleanup_expired", start, err)
	return count, err
}

// credentialUseCaseWithMetrics decorates CredentialUseCase with metrics instrumentation.
type credentialUseCaseWithMetrics struct {
	next    CredentialUseCase
	metrics metrics.BusinessMetrics
}

// NewCredentialUseCaseWithMetrics wraps a CredentialUseCase with metrics recording.
func NewCredentialUseCaseWithMetrics(useCase CredentialUseCase, m metrics.BusinessMetrics) CredentialUseCase {
	return &credentialUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// ValidateLocal records metrics for credential validation.
func (c *credentialUseCaseWithMetrics) ValidateLocal(
	ctx context.Context,
	email, password string,
) (*userDomain.User, error) {
	start := time.Now()
	user, err := c.next.ValidateLocal(ctx, email, password)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "auth", "credential_validate", status)
	c.metrics.RecordDuration(ctx, "auth", "credential_validate", time.Since(start), status)

	return user, err
}
