package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authService "github.com/allisson/authcore/internal/auth/service"
	apperrors "github.com/allisson/authcore/internal/errors"
	outboxDomain "github.com/allisson/authcore/internal/outbox/domain"
	"github.com/allisson/authcore/internal/user/domain"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
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

type fixedClock struct {
	now time.Time
}

func (f *fixedClock) Now() time.Time { return f.now }

type userFixture struct {
	uc         UseCase
	userRepo   *MockUserRepository
	outboxRepo *MockOutboxEventRepository
	txManager  *MockTxManager
	clock      *fixedClock
}

func newUserFixture() *userFixture {
	userRepo := &MockUserRepository{}
	outboxRepo := &MockOutboxEventRepository{}
	txManager := &MockTxManager{}
	clock := &fixedClock{now: time.Unix(1700000000, 0).UTC()}

	return &userFixture{
		uc:         NewUserUseCase(txManager, userRepo, outboxRepo, authService.NewPasswordService(), clock),
		userRepo:   userRepo,
		outboxRepo: outboxRepo,
		txManager:  txManager,
		clock:      clock,
	}
}

func TestUserUseCase_RegisterUser(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	f.txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	f.userRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == "John Doe" &&
			u.Email == "john@example.com" &&
			u.Password != nil && *u.Password != "Secret123!" &&
			u.EmailVerifiedAt == nil
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = 42
	}).Return(nil)
	f.outboxRepo.On("Create", ctx, mock.MatchedBy(func(e *outboxDomain.OutboxEvent) bool {
		return e.EventType == outboxDomain.EventTypeUserCreated
	})).Return(nil)

	user, err := f.uc.RegisterUser(ctx, RegisterUserInput{
		Name:     "John Doe",
		Email:    "John@Example.com",
		Password: "Secret123!",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	// Email is normalized to lowercase.
	assert.Equal(t, "john@example.com", user.Email)
	f.outboxRepo.AssertExpectations(t)
}

func TestUserUseCase_RegisterUser_InvalidInput(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	tests := []struct {
		name  string
		input RegisterUserInput
	}{
		{"missing name", RegisterUserInput{Email: "a@b.com", Password: "Secret123!"}},
		{"blank name", RegisterUserInput{Name: "   ", Email: "a@b.com", Password: "Secret123!"}},
		{"invalid email", RegisterUserInput{Name: "John", Email: "not-an-email", Password: "Secret123!"}},
		{"short password", RegisterUserInput{Name: "John", Email: "a@b.com", Password: "Ab1!"}},
		{"weak password", RegisterUserInput{Name: "John", Email: "a@b.com", Password: "alllowercase1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.RegisterUser(ctx, tt.input)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}

	f.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserUseCase_RegisterUser_DuplicateEmail(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	f.txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	f.userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(domain.ErrUserAlreadyExists)

	_, err := f.uc.RegisterUser(ctx, RegisterUserInput{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "Secret123!",
	})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	f.outboxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserUseCase_MarkEmailVerified(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps verification time", func(t *testing.T) {
		f := newUserFixture()
		user := &domain.User{ID: 42, Name: "John Doe", Email: "a@b.com"}

		f.userRepo.On("GetByID", ctx, int64(42)).Return(user, nil)
		f.userRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.EmailVerifiedAt != nil && u.EmailVerifiedAt.Equal(f.clock.now)
		})).Return(nil)

		got, err := f.uc.MarkEmailVerified(ctx, 42)
		require.NoError(t, err)
		assert.True(t, got.EmailVerified())
	})

	t.Run("already verified keeps original timestamp", func(t *testing.T) {
		f := newUserFixture()
		verifiedAt := time.Unix(1600000000, 0).UTC()
		user := &domain.User{ID: 42, Email: "a@b.com", EmailVerifiedAt: &verifiedAt}

		f.userRepo.On("GetByID", ctx, int64(42)).Return(user, nil)

		got, err := f.uc.MarkEmailVerified(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, verifiedAt, *got.EmailVerifiedAt)
		f.userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newUserFixture()
		f.userRepo.On("GetByID", ctx, int64(9999)).Return(nil, domain.ErrUserNotFound)

		_, err := f.uc.MarkEmailVerified(ctx, 9999)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestUserUseCase_ListUsers(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	users := []*domain.User{{ID: 1}, {ID: 2}}
	f.userRepo.On("List", ctx, 0, 10).Return(users, nil)

	got, err := f.uc.ListUsers(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestUserUseCase_DeleteUser(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	f.userRepo.On("Delete", ctx, int64(42)).Return(nil)

	assert.NoError(t, f.uc.DeleteUser(ctx, 42))
}
