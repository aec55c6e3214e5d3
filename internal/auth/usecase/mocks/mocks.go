// Package mocks provides testify mocks for the auth use case interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/authcore/internal/auth/domain"
	"github.com/allisson/authcore/internal/auth/usecase"
	userDomain "github.com/allisson/authcore/internal/user/domain"
)

// MockTokenUseCase is a mock implementation of usecase.TokenUseCase.
type MockTokenUseCase struct {
	mock.Mock
}

func (m *MockTokenUseCase) CreateAccess(ctx context.Context, ownerID int64) (string, error) {
	args := m.Called(ctx, ownerID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenUseCase) CreateRefresh(ctx context.Context, ownerID int64) (string, error) {
	args := m.Called(ctx, ownerID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenUseCase) CreateVerification(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockTokenUseCase) Resolve(
	ctx context.Context,
	raw string,
	expected authDomain.TokenType,
) (*usecase.ResolvedToken, error) {
	args := m.Called(ctx, raw, expected)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ResolvedToken), args.Error(1)
}

func (m *MockTokenUseCase) AuthenticateAccess(ctx context.Context, raw string) (*userDomain.User, error) {
	args := m.Called(ctx, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *MockTokenUseCase) Revoke(ctx context.Context, tokenID int64) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenUseCase) Delete(ctx context.Context, tokenID int64) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenUseCase) ValidateOwnership(
	ctx context.Context,
	token *authDomain.Token,
	uid string,
) error {
	args := m.Called(ctx, token, uid)
	return args.Error(0)
}

func (m *MockTokenUseCase) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

// MockCredentialUseCase is a mock implementation of usecase.CredentialUseCase.
type MockCredentialUseCase struct {
	mock.Mock
}

func (m *MockCredentialUseCase) ValidateLocal(
	ctx context.Context,
	email, password string,
) (*userDomain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}
