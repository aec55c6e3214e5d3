// Package usecase implements business logic orchestration for the token
// lifecycle and credential validation.
package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"

	authDomain "github.com/allisson/authcore/internal/auth/domain"
	authService "github.com/allisson/authcore/internal/auth/service"
	"github.com/allisson/authcore/internal/config"
	"github.com/allisson/authcore/internal/database"
	outboxDomain "github.com/allisson/authcore/internal/outbox/domain"
	userDomain "github.com/allisson/authcore/internal/user/domain"
)

// tokenUseCase implements TokenUseCase.
type tokenUseCase struct {
	config     *config.Config
	txManager  database.TxManager
	tokenRepo  TokenRepository
	userRepo   UserRepository
	outboxRepo OutboxEventRepository
	codec      authService.TokenCodec
	clock      authService.Clock
}

// NewTokenUseCase creates a new TokenUseCase with the provided dependencies.
func NewTokenUseCase(
	cfg *config.Config,
	txManager database.TxManager,
	tokenRepo TokenRepository,
	userRepo UserRepository,
	outboxRepo OutboxEventRepository,
	codec authService.TokenCodec,
	clock authService.Clock,
) TokenUseCase {
	return &tokenUseCase{
		config:     cfg,
		txManager:  txManager,
		tokenRepo:  tokenRepo,
		userRepo:   userRepo,
		outboxRepo: outboxRepo,
		codec:      codec,
		clock:      clock,
	}
}

// CreateAccess issues a stateless access token. The subject is the numeric
// user id; nothing is persisted, so access tokens cannot be revoked
// individually and stay short-lived by configuration.
func (t *tokenUseCase) CreateAccess(ctx context.Context, ownerID int64) (string, error) {
	user, err := t.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return "", authDomain.ErrOwnerNotFound
		}
		return "", err
	}

	claims := authDomain.Claims{
		Subject: strconv.FormatInt(user.ID, 10),
		Type:    authDomain.AccessToken,
	}

	return t.codec.Sign(claims, t.config.AccessTokenTTL)
}

// CreateRefresh issues a stored refresh token.
//
// The record is inserted first so the database assigns the id, then the
// signed string embeds that id as jti. Creation time comes from the injected
// clock, not the database, so expiry math stays consistent with signing.
func (t *tokenUseCase) CreateRefresh(ctx context.Context, ownerID int64) (string, error) {
	token := &authDomain.Token{
		OwnerID:   ownerID,
		Type:      authDomain.RefreshToken,
		CreatedAt: t.clock.Now().Unix(),
		TTL:       int64(t.config.RefreshTokenTTL.Seconds()),
	}

	if err := t.tokenRepo.Create(ctx, token); err != nil {
		return "", err
	}

	claims := authDomain.Claims{
		TokenID: token.ID,
		Subject: strconv.FormatInt(ownerID, 10),
		Type:    authDomain.RefreshToken,
	}

	return t.codec.Sign(claims, t.config.RefreshTokenTTL)
}

// CreateVerification issues a stored e-mail verification token and enqueues
// the outbox event carrying it. Record and event are committed in one
// transaction: either the e-mail hand-off and the token row both exist or
// neither does.
func (t *tokenUseCase) CreateVerification(ctx context.Context, email string) (string, error) {
	var signed string

	err := t.txManager.WithTx(ctx, func(ctx context.Context) error {
		user, err := t.userRepo.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, userDomain.ErrUserNotFound) {
				return authDomain.ErrOwnerNotFound
			}
			return err
		}

		token := &authDomain.Token{
			OwnerID:   user.ID,
			Type:      authDomain.VerificationToken,
			CreatedAt: t.clock.Now().Unix(),
			TTL:       int64(t.config.VerificationTokenTTL.Seconds()),
		}
		if err := t.tokenRepo.Create(ctx, token); err != nil {
			return err
		}

		// Verification tokens identify the account by e-mail, not id.
		claims := authDomain.Claims{
			TokenID: token.ID,
			Subject: user.Email,
			Type:    authDomain.VerificationToken,
		}
		signed, err = t.codec.Sign(claims, t.config.VerificationTokenTTL)
		if err != nil {
			return err
		}

		event, err := outboxDomain.NewVerificationRequestedEvent(outboxDomain.VerificationRequestedPayload{
			UserID: user.ID,
			Email:  user.Email,
			Name:   user.Name,
			Token:  signed,
		})
		if err != nil {
			return err
		}

		return t.outboxRepo.Create(ctx, event)
	})
	if err != nil {
		return "", err
	}

	return signed, nil
}

// Resolve validates a presented stored token end to end.
//
// Order matters: the signature gate runs before any database access, the
// record is loaded before state checks, and revocation is reported before
// expiry so a token that is both reads as revoked.
func (t *tokenUseCase) Resolve(
	ctx context.Context,
	raw string,
	expected authDomain.TokenType,
) (*ResolvedToken, error) {
	if !expected.Stored() {
		return nil, authDomain.ErrTokenTypeMismatch
	}

	claims, err := t.codec.Verify(raw, expected)
	if err != nil {
		return nil, err
	}

	record, err := t.tokenRepo.Get(ctx, claims.TokenID)
	if err != nil {
		return nil, err
	}

	if record.Type != expected {
		return nil, authDomain.ErrTokenTypeMismatch
	}
	if record.Revoked {
		return nil, authDomain.ErrTokenRevoked
	}
	if record.IsExpired(t.clock.Now()) {
		return nil, authDomain.ErrTokenExpired
	}

	owner, err := t.resolveOwner(ctx, record, claims)
	if err != nil {
		return nil, err
	}

	return &ResolvedToken{Record: record, Owner: owner}, nil
}

// resolveOwner loads the owner of the stored row and cross-checks the subject
// claim against it. A signed token whose subject doesn't agree with the
// record's owner has been tampered with (or re-signed) and must not resolve.
// Verification subjects are e-mail addresses and compare case-insensitively;
// everything else carries the numeric user id.
func (t *tokenUseCase) resolveOwner(
	ctx context.Context,
	record *authDomain.Token,
	claims *authDomain.Claims,
) (*userDomain.User, error) {
	owner, err := t.userRepo.GetByID(ctx, record.OwnerID)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return nil, authDomain.ErrTokenOwnerMismatch
		}
		return nil, err
	}

	switch record.Type {
	case authDomain.VerificationToken:
		if !strings.EqualFold(claims.Subject, owner.Email) {
			return nil, authDomain.ErrTokenOwnerMismatch
		}
	default:
		if claims.Subject != strconv.FormatInt(owner.ID, 10) {
			return nil, authDomain.ErrTokenOwnerMismatch
		}
	}

	return owner, nil
}

// AuthenticateAccess verifies a stateless access token and loads its owner.
// Returns ErrInvalidCredentials whether the subject is unknown or the account
// is gone, to avoid leaking which.
func (t *tokenUseCase) AuthenticateAccess(ctx context.Context, raw string) (*userDomain.User, error) {
	claims, err := t.codec.Verify(raw, authDomain.AccessToken)
	if err != nil {
		return nil, err
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, authDomain.ErrTokenMalformed
	}

	user, err := t.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	return user, nil
}

// Revoke marks a token revoked. Already-revoked tokens succeed unchanged, so
// retried logouts are harmless.
func (t *tokenUseCase) Revoke(ctx context.Context, tokenID int64) error {
	_, err := t.tokenRepo.UpdateRevoked(ctx, tokenID, true)
	return err
}

// Delete permanently removes a token record.
func (t *tokenUseCase) Delete(ctx context.Context, tokenID int64) error {
	_, err := t.tokenRepo.Delete(ctx, tokenID)
	return err
}

// ValidateOwnership checks that the token belongs to the user identified by
// uid. A uid made only of digits is treated as a numeric id; anything else is
// matched against the owner's e-mail.
func (t *tokenUseCase) ValidateOwnership(
	ctx context.Context,
	token *authDomain.Token,
	uid string,
) error {
	if id, err := strconv.ParseInt(uid, 10, 64); err == nil {
		if id != token.OwnerID {
			return authDomain.ErrOwnershipRequired
		}
		return nil
	}

	owner, err := t.userRepo.GetByID(ctx, token.OwnerID)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return authDomain.ErrOwnershipRequired
		}
		return err
	}
	if owner.Email != uid {
		return authDomain.ErrOwnershipRequired
	}

	return nil
}

// CleanupExpired deletes tokens expired for more than days days.
func (t *tokenUseCase) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	return t.tokenRepo.DeleteExpired(ctx, t.clock.Now(), days, dryRun)
}
