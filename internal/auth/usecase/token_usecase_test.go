package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/authcore/internal/auth/domain"
	authService "github.com/allisson/authcore/internal/auth/service"
	"github.com/allisson/authcore/internal/config"
	outboxDomain "github.com/allisson/authcore/internal/outbox/domain"
	userDomain "github.com/allisson/authcore/internal/user/domain"
)

// MockTokenRepository is a mock implementation of TokenRepository
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) Create(ctx context.Context, token *authDomain.Token) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepository) Get(ctx context.Context, tokenID int64) (*authDomain.Token, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Token), args.Error(1)
}

func (m *MockTokenRepository) GetByOwnerAndType(
	ctx context.Context,
	ownerID int64,
	tokenType authDomain.TokenType,
) ([]*authDomain.Token, error) {
	args := m.Called(ctx, ownerID, tokenType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.Token), args.Error(1)
}

func (m *MockTokenRepository) UpdateRevoked(
	ctx context.Context,
	tokenID int64,
	revoked bool,
) (*authDomain.Token, error) {
	args := m.Called(ctx, tokenID, revoked)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Token), args.Error(1)
}

func (m *MockTokenRepository) Delete(ctx context.Context, tokenID int64) (*authDomain.Token, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Token), args.Error(1)
}

func (m *MockTokenRepository) DeleteExpired(
	ctx context.Context,
	now time.Time,
	days int,
	dryRun bool,
) (int64, error) {
	args := m.Called(ctx, now, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*userDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

// MockOutboxEventRepository is a mock implementation of OutboxEventRepository
type MockOutboxEventRepository struct {
	mock.Mock
}

func (m *MockOutboxEventRepository) Create(ctx context.Context, event *outboxDomain.OutboxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockTxManager is a mock implementation of database.TxManager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// fixedClock is a mutable test clock.
type fixedClock struct {
	now time.Time
}

func (f *fixedClock) Now() time.Time { return f.now }

type tokenFixture struct {
	uc         TokenUseCase
	codec      authService.TokenCodec
	tokenRepo  *MockTokenRepository
	userRepo   *MockUserRepository
	outboxRepo *MockOutboxEventRepository
	txManager  *MockTxManager
	clock      *fixedClock
	cfg        *config.Config
}

// newTokenFixture wires a token use case with mocked persistence and a real
// codec, so signed strings round-trip through actual cryptographic
// verification. sharedSecret makes all token types sign with one key, which
// lets tests present a token of one type where another is expected.
func newTokenFixture(sharedSecret bool) *tokenFixture {
	cfg := &config.Config{
		JWTIssuer:            "authcore",
		AccessTokenTTL:       15 * time.Minute,
		RefreshTokenTTL:      24 * time.Hour,
		VerificationTokenTTL: 24 * time.Hour,
	}

	accessSecret, refreshSecret, verificationSecret := "access-secret", "refresh-secret", "verification-secret"
	if sharedSecret {
		accessSecret, refreshSecret, verificationSecret = "shared-secret", "shared-secret", "shared-secret"
	}

	clock := &fixedClock{now: time.Unix(1700000000, 0).UTC()}
	codec := authService.NewJWTTokenCodec(cfg.JWTIssuer, accessSecret, refreshSecret, verificationSecret, clock)

	tokenRepo := &MockTokenRepository{}
	userRepo := &MockUserRepository{}
	outboxRepo := &MockOutboxEventRepository{}
	txManager := &MockTxManager{}

	return &tokenFixture{
		uc:         NewTokenUseCase(cfg, txManager, tokenRepo, userRepo, outboxRepo, codec, clock),
		codec:      codec,
		tokenRepo:  tokenRepo,
		userRepo:   userRepo,
		outboxRepo: outboxRepo,
		txManager:  txManager,
		clock:      clock,
		cfg:        cfg,
	}
}

func testUser() *userDomain.User {
	password := "$argon2id$fake"
	return &userDomain.User{
		ID:       42,
		Name:     "John Doe",
		Email:    "a@b.com",
		Password: &password,
	}
}

func TestTokenUseCase_CreateAccess(t *testing.T) {
	f := newTokenFixture(false)
	ctx := context.Background()

	f.userRepo.On("GetByID", ctx, int64(42)).Return(testUser(), nil)

	signed, err := f.uc.CreateAccess(ctx, 42)
	require.NoError(t, err)

	// Access tokens are stateless: no persistence call, no jti.
	claims, err := f.codec.Verify(signed, authDomain.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Zero(t, claims.TokenID)
	f.tokenRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTokenUseCase_CreateAccess_OwnerNotFound(t *testing.T) {
	f := newTokenFixture(false)
	ctx := context.Background()

	f.userRepo.On("GetByID", ctx, int64(9999)).Return(nil, userDomain.ErrUserNotFound)

	_, err := f.uc.CreateAccess(ctx, 9999)
	assert.ErrorIs(t, err, authDomain.ErrOwnerNotFound)
}

func TestTokenUseCase_CreateRefresh_RoundTrip(t *testing.T) {
	f := newTokenFixture(false)
	ctx := context.Background()

	f.tokenRepo.On("Create", ctx, mock.AnythingOfType("*domain.Token")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*authDomain.Token).ID = 7
		}).Return(nil)

	signed, err := f.uc.CreateRefresh(ctx, 42)
	require.NoError(t, err)

	stored := &authDomain.Token{
		ID:        7,
		OwnerID:   42,
		Type:      authDomain.RefreshToken,
		CreatedAt: f.clock.Now().Unix(),
		TTL:       int64(f.cfg.RefreshTokenTTL.Seconds()),
	}
	f.tokenRepo.On("Get", ctx, int64(7)).Return(stored, nil)
	f.userRepo.On("GetByID", ctx, int64(42)).Return(testUser(), nil)

	resolved, err := f.uc.Resolve(ctx, signed, authDomain.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, int64(7), resolved.Record.ID)
	assert.Equal(t, int64(42), resolved.Owner.ID)
	assert.Equal(t, "a@b.com", resolved.Owner.Email)
}

func TestTokenUseCase_CreateVerification(t *testing.T) {
	f := newTokenFixture(false)
	ctx := context.Background()

	f.txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	f.userRepo.On("GetByEmail", ctx, "a@b.com").Return(testUser(), nil)
	f.tokenRepo.On("Create", ctx, mock.AnythingOfType("*domain.Token")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*authDomain.Token).ID = 9
		}).Return(nil)
	f.outboxRepo.On("Create", ctx, mock.MatchedBy(func(e *outboxDomain.OutboxEvent) bool {
		return e.EventType == outboxDomain.EventTypeVerificationRequested &&
			e.Status == outboxDomain.OutboxEventStatusPending
	})).Return(nil)

	signed, err := f.uc.CreateVerification(ctx, "a@b.com")
	require.NoError(t, err)

	// Verification tokens identify the account by e-mail.
	claims, err := f.codec.Verify(signed, authDomain.VerificationToken)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims.Subject)
	assert.Equal(t, int64(9), claims.TokenID)
	f.outboxRepo.AssertExpectations(t)
}

func TestTokenUseCase_CreateVerification_UnknownEmail(t *testing.T) {
	f := newTokenFixture(false)
	ctx := context.Background()

	f.txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	f.userRepo.On("GetByEmail", ctx, "missing@example.com").Return(nil, userDomain.ErrUserNotFound)

	_, err := f.uc.CreateVerification(ctx, "missing@example.com")
	assert.ErrorIs(t, err, authDomain.ErrOwnerNotFound)
	f.tokenRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTokenUseCase_Resolve_Malformed(t *testing.T) {
	f := newTokenFixture(false)
	ctx := context.Background()

	_, err := f.uc.Resolve(ctx, "not-a-token", authDomain.RefreshToken)
	assert.ErrorIs(t, err, authDomain.ErrTokenMalformed)

	// The signature gate runs before any persistence access.
	f.tokenRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestTokenUseCase_Resolve_AccessTokensNeverResolve(t *testing.T) {
	f := newTokenFixture(false)
	ctx := context.Background()

	f.userRepo.On("GetByID", ctx, int64(42)).Return(testUser(), nil)
	signed, err := f.uc.CreateAccess(ctx, 42)
	require.NoError(t, err)

	_, err = f.uc.Resolve(ctx, signed, authDomain.AccessToken)
	assert.ErrorIs(t, err, authDomain.ErrTokenTypeMismatch)
}

func TestTokenUseCase_Resolve_Expired(t *testing.T) {
	f := newTokenFixture(false)
	ctx := context.Background()

	f.tokenRepo.On("Create", ctx, mock.AnythingOfType("*domain.Token")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*authDomain.Token).ID = 7
		}).Return(nil)

	signed, err := f.uc.CreateRefresh(ctx, 42)
	require.NoError(t, err)

	// Advance past the refresh TTL: the signature gate reports expiry before
	// the record is ever loaded.
	f.clock.now = f.clock.now.Add(f.cfg.RefreshTokenTTL + time.Minute)

	_, err = f.uc.Resolve(ctx, signed, authDomain.RefreshToken)
	assert.ErrorIs(t, err, authDomain.ErrTokenExpired)
	f.tokenRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestTokenUseCase_Resolve_StoredExpiry(t *testing.T) {
	f := newTokenFixture(false)
	ctx := context.Background()

	f.tokenRepo.On("Create", ctx, mock.AnythingOfType("*domain.Token")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*authDomain.Token).ID = 7
		}).Return(nil)

	signed, err := f.uc.CreateRefresh(ctx, 42)
	require.NoError(t, err)

	// The stored row carries a shorter TTL than the signed expiry; the record
	// check still rejects it.
	stored := &authDomain.Token{
		ID:        7,
		OwnerID:   42,
		Type:      authDomain.RefreshToken,
		CreatedAt: f.clock.Now().Unix(),
		TTL:       60,
	}
	f.tokenRepo.On("Get", ctx, int64(7)).Return(stored, nil)

	f.clock.now = f.clock.now.Add(2 * time.Minute)

	_, err = f.uc.Resolve(ctx, signed, authDomain.RefreshToken)
	assert.ErrorIs(t, err, authDomain.ErrTokenExpired)
}

func TestTokenUseCase_Resolve_Revoked(t *testing.T) {
	f := newTokenFixture(false)
	ctx := context.Background()

	f.tokenRepo.On("Create", ctx, mock.AnythingOfType("*domain.Token")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*authDomain.Token).ID = 7
		}).Return(nil)

	signed, err := f.uc.CreateRefresh(ctx, 42)
	require.NoError(t, err)

	stored := &authDomain.Token{
		ID:        7,
		OwnerID:   42,
		Type:      authDomain.RefreshToken,
		CreatedAt: f.clock.Now().Unix(),
		TTL:       int64(f.cfg.RefreshTokenTTL.Seconds()),
		Revoked:   true,
	}
	f.tokenRepo.On("Get", ctx, int64(7)).Return(stored, nil)

	_, err = f.uc.Resolve(ctx, signed, authDomain.RefreshToken)
	assert.ErrorIs(t, err, authDomain.ErrTokenRevoked)
}

func TestTokenUseCase_Resolve_NotFound(t *testing.T) {
	f := newTokenFixture(false)
	ctx := context.Background()

	f.tokenRepo.On("Create", ctx, mock.AnythingOfType("*domain.Token")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*authDomain.Token).ID = 7
		}).Return(nil)

	signed, err := f.uc.CreateRefresh(ctx, 42)
	require.NoError(t, err)

	f.tokenRepo.On("Get", ctx, int64(7)).Return(nil, authDomain.ErrTokenNotFound)

	_, err = f.uc.Resolve(ctx, signed, authDomain.RefreshToken)
	assert.ErrorIs(t, err, authDomain.ErrTokenNotFound)
}

func TestTokenUseCase_Resolve_TypeMismatch(t *testing.T) {
	// Shared signing secret across types: the signature verifies, so the type
	// claim is what rejects the token.
	f := newTokenFixture(true)
	ctx := context.Background()

	f.txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	f.userRepo.On("GetByEmail", ctx, "a@b.com").Return(testUser(), nil)
	f.tokenRepo.On("Create", ctx, mock.AnythingOfType("*domain.Token")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*authDomain.Token).ID = 9
		}).Return(nil)
	f.outboxRepo.On("Create", ctx, mock.Anything).Return(nil)

	signed, err := f.uc.CreateVerification(ctx, "a@b.com")
	require.NoError(t, err)

	_, err = f.uc.Resolve(ctx, signed, authDomain.RefreshToken)
	assert.ErrorIs(t, err, authDomain.ErrTokenTypeMismatch)
}

func TestTokenUseCase_Resolve_TypeMismatch_DistinctSecrets(t *testing.T) {
	// With per-type secrets a cross-type presentation fails the signature
	// before the type claim is reachable.
	f := newTokenFixture(false)
	ctx := context.Background()

	f.txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	f.userRepo.On("GetByEmail", ctx, "a@b.com").Return(testUser(), nil)
	f.tokenRepo.On("Create", ctx, mock.AnythingOfType("*domain.Token")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*authDomain.Token).ID = 9
		}).Return(nil)
	f.outboxRepo.On("Create", ctx, mock.Anything).Return(nil)

	signed, err := f.uc.CreateVerification(ctx, "a@b.com")
	require.NoError(t, err)

	_, err = f.uc.Resolve(ctx, signed, authDomain.RefreshToken)
	assert.ErrorIs(t, err, authDomain.ErrTokenMalformed)
}

func TestTokenUseCase_Resolve_RecordTypeMismatch(t *testing.T) {
	f := newTokenFixture(false)
	ctx := context.Background()

	f.tokenRepo.On("Create", ctx, mock.AnythingOfType("*domain.Token")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*authDomain.Token).ID = 7
		}).Return(nil)

	signed, err := f.uc.CreateRefresh(ctx, 42)
	require.NoError(t, err)

	// Row 7 is actually a verification token: the stored type wins.
	stored := &authDomain.Token{
		ID:        7,
		OwnerID:   42,
		Type:      authDomain.VerificationToken,
		CreatedAt: f.clock.Now().Unix(),
		TTL:       86400,
	}
	f.tokenRepo.On("Get", ctx, int64(7)).Return(stored, nil)

	_, err = f.uc.Resolve(ctx, signed, authDomain.RefreshToken)
	assert.ErrorIs(t, err, authDomain.ErrTokenTypeMismatch)
}

func TestTokenUseCase_Resolve_OwnerTamper(t *testing.T) {
	f := newTokenFixture(false)
	ctx := context.Background()

	// An attacker with the signing key re-issues the token with another
	// subject. The jti still points at owner 42's row, so resolution fails.
	forged, err := f.codec.Sign(authDomain.Claims{
		TokenID: 7,
		Subject: "99",
		Type:    authDomain.RefreshToken,
	}, time.Hour)
	require.NoError(t, err)

	stored := &authDomain.Token{
		ID:        7,
		OwnerID:   42,
		Type:      authDomain.RefreshToken,
		CreatedAt: f.clock.Now().Unix(),
		TTL:       86400,
	}
	f.tokenRepo.On("Get", ctx, int64(7)).Return(stored, nil)
	f.userRepo.On("GetByID", ctx, int64(42)).Return(testUser(), nil)

	_, err = f.uc.Resolve(ctx, forged, authDomain.RefreshToken)
	assert.ErrorIs(t, err, authDomain.ErrTokenOwnerMismatch)
}

func TestTokenUseCase_Resolve_VerificationSubjectCaseInsensitive(t *testing.T) {
	f := newTokenFixture(false)
	ctx := context.Background()

	// The subject was typed by a human somewhere along the way; a case
	// difference from the stored address must not break the cross-check.
	signed, err := f.codec.Sign(authDomain.Claims{
		TokenID: 9,
		Subject: "A@B.COM",
		Type:    authDomain.VerificationToken,
	}, time.Hour)
	require.NoError(t, err)

	stored := &authDomain.Token{
		ID:        9,
		OwnerID:   42,
		Type:      authDomain.VerificationToken,
		CreatedAt: f.clock.Now().Unix(),
		TTL:       86400,
	}
	f.tokenRepo.On("Get", ctx, int64(9)).Return(stored, nil)
	f.userRepo.On("GetByID", ctx, int64(42)).Return(testUser(), nil)

	resolved, err := f.uc.Resolve(ctx, signed, authDomain.VerificationToken)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", resolved.Owner.Email)
}

func TestTokenUseCase_Resolve_VerificationSubjectMismatch(t *testing.T) {
	f := newTokenFixture(false)
	ctx := context.Background()

	signed, err := f.codec.Sign(authDomain.Claims{
		TokenID: 9,
		Subject: "other@example.com",
		Type:    authDomain.VerificationToken,
	}, time.Hour)
	require.NoError(t, err)

	stored := &authDomain.Token{
		ID:        9,
		OwnerID:   42,
		Type:      authDomain.VerificationToken,
		CreatedAt: f.clock.Now().Unix(),
		TTL:       86400,
	}
	f.tokenRepo.On("Get", ctx, int64(9)).Return(stored, nil)
	f.userRepo.On("GetByID", ctx, int64(42)).Return(testUser(), nil)

	_, err = f.uc.Resolve(ctx, signed, authDomain.VerificationToken)
	assert.ErrorIs(t, err, authDomain.ErrTokenOwnerMismatch)
}

func TestTokenUseCase_AuthenticateAccess(t *testing.T) {
	f := newTokenFixture(false)
	ctx := context.Background()

	f.userRepo.On("GetByID", ctx, int64(42)).Return(testUser(), nil)

	signed, err := f.uc.CreateAccess(ctx, 42)
	require.NoError(t, err)

	user, err := f.uc.AuthenticateAccess(ctx, signed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
}

func TestTokenUseCase_AuthenticateAccess_UnknownUser(t *testing.T) {
	f := newTokenFixture(false)
	ctx := context.Background()

	signed, err := f.codec.Sign(authDomain.Claims{
		Subject: "9999",
		Type:    authDomain.AccessToken,
	}, time.Hour)
	require.NoError(t, err)

	f.userRepo.On("GetByID", ctx, int64(9999)).Return(nil, userDomain.ErrUserNotFound)

	_, err = f.uc.AuthenticateAccess(ctx, signed)
	assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
}

func TestTokenUseCase_Revoke(t *testing.T) {
	f := newTokenFixture(false)
	ctx := context.Background()

	t.Run("revokes token", func(t *testing.T) {
		revoked := &authDomain.Token{ID: 7, OwnerID: 42, Type: authDomain.RefreshToken, Revoked: true}
		f.tokenRepo.On("UpdateRevoked", ctx, int64(7), true).Return(revoked, nil).Once()

		assert.NoError(t, f.uc.Revoke(ctx, 7))
	})

	t.Run("idempotent on already revoked", func(t *testing.T) {
		revoked := &authDomain.Token{ID: 7, OwnerID: 42, Type: authDomain.RefreshToken, Revoked: true}
		f.tokenRepo.On("UpdateRevoked", ctx, int64(7), true).Return(revoked, nil).Once()

		assert.NoError(t, f.uc.Revoke(ctx, 7))
	})

	t.Run("not found", func(t *testing.T) {
		f.tokenRepo.On("UpdateRevoked", ctx, int64(1234), true).
			Return(nil, authDomain.ErrTokenNotFound).Once()

		assert.ErrorIs(t, f.uc.Revoke(ctx, 1234), authDomain.ErrTokenNotFound)
	})
}

func TestTokenUseCase_RevokedTokenStaysRevoked(t *testing.T) {
	f := newTokenFixture(false)
	ctx := context.Background()

	f.tokenRepo.On("Create", ctx, mock.AnythingOfType("*domain.Token")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*authDomain.Token).ID = 7
		}).Return(nil)

	signed, err := f.uc.CreateRefresh(ctx, 42)
	require.NoError(t, err)

	stored := &authDomain.Token{
		ID:        7,
		OwnerID:   42,
		Type:      authDomain.RefreshToken,
		CreatedAt: f.clock.Now().Unix(),
		TTL:       int64(f.cfg.RefreshTokenTTL.Seconds()),
		Revoked:   true,
	}
	f.tokenRepo.On("UpdateRevoked", ctx, int64(7), true).Return(stored, nil)
	f.tokenRepo.On("Get", ctx, int64(7)).Return(stored, nil)

	require.NoError(t, f.uc.Revoke(ctx, 7))

	// Every later presentation fails, no matter how many times.
	for i := 0; i < 3; i++ {
		_, err = f.uc.Resolve(ctx, signed, authDomain.RefreshToken)
		assert.ErrorIs(t, err, authDomain.ErrTokenRevoked)
	}
}

func TestTokenUseCase_ValidateOwnership(t *testing.T) {
	f := newTokenFixture(false)
	ctx := context.Background()
	token := &authDomain.Token{ID: 7, OwnerID: 42, Type: authDomain.RefreshToken}

	t.Run("numeric uid match", func(t *testing.T) {
		assert.NoError(t, f.uc.ValidateOwnership(ctx, token, "42"))
	})

	t.Run("numeric uid mismatch", func(t *testing.T) {
		err := f.uc.ValidateOwnership(ctx, token, "99")
		assert.ErrorIs(t, err, authDomain.ErrOwnershipRequired)
	})

	t.Run("email uid match", func(t *testing.T) {
		f.userRepo.On("GetByID", ctx, int64(42)).Return(testUser(), nil)
		assert.NoError(t, f.uc.ValidateOwnership(ctx, token, "a@b.com"))
	})

	t.Run("email uid mismatch", func(t *testing.T) {
		err := f.uc.ValidateOwnership(ctx, token, "other@example.com")
		assert.ErrorIs(t, err, authDomain.ErrOwnershipRequired)
	})
}

func TestTokenUseCase_CleanupExpired(t *testing.T) {
	f := newTokenFixture(false)
	ctx := context.Background()

	f.tokenRepo.On("DeleteExpired", ctx, f.clock.Now(), 30, false).Return(int64(5), nil)

	count, err := f.uc.CleanupExpired(ctx, 30, false)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}
