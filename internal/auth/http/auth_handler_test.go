package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/authcore/internal/auth/domain"
	"github.com/allisson/authcore/internal/auth/http/dto"
	authUseCase "github.com/allisson/authcore/internal/auth/usecase"
	usecaseMocks "github.com/allisson/authcore/internal/auth/usecase/mocks"
	userDomain "github.com/allisson/authcore/internal/user/domain"
	userUseCase "github.com/allisson/authcore/internal/user/usecase"
)

// mockUserUseCase is a mock implementation of the user UseCase for testing.
type mockUserUseCase struct {
	mock.Mock
}

func (m *mockUserUseCase) RegisterUser(
	ctx context.Context,
	input userUseCase.RegisterUserInput,
) (*userDomain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *mockUserUseCase) GetUserByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *mockUserUseCase) GetUserByID(ctx context.Context, id int64) (*userDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *mockUserUseCase) MarkEmailVerified(ctx context.Context, id int64) (*userDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *mockUserUseCase) ListUsers(ctx context.Context, offset, limit int) ([]*userDomain.User, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*userDomain.User), args.Error(1)
}

func (m *mockUserUseCase) DeleteUser(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type handlerFixture struct {
	handler        *AuthHandler
	tokenUseCase   *usecaseMocks.MockTokenUseCase
	credentialUC   *usecaseMocks.MockCredentialUseCase
	userUseCase    *mockUserUseCase
	accessTokenTTL time.Duration
}

func setupAuthTestHandler(t *testing.T) *handlerFixture {
	t.Helper()

	gin.SetMode(gin.TestMode)

	tokenUC := &usecaseMocks.MockTokenUseCase{}
	credentialUC := &usecaseMocks.MockCredentialUseCase{}
	userUC := &mockUserUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ttl := 15 * time.Minute

	return &handlerFixture{
		handler:        NewAuthHandler(tokenUC, credentialUC, userUC, ttl, logger),
		tokenUseCase:   tokenUC,
		credentialUC:   credentialUC,
		userUseCase:    userUC,
		accessTokenTTL: ttl,
	}
}

// createTestContext builds a gin test context with an optional JSON body.
func createTestContext(t *testing.T, method, path string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

func testResolvedToken() *authUseCase.ResolvedToken {
	return &authUseCase.ResolvedToken{
		Record: &authDomain.Token{
			ID:      7,
			OwnerID: 42,
			Type:    authDomain.RefreshToken,
		},
		Owner: &userDomain.User{ID: 42, Name: "John Doe", Email: "john@example.com"},
	}
}

func TestAuthHandler_LoginHandler(t *testing.T) {
	t.Run("Success_ValidCredentials", func(t *testing.T) {
		f := setupAuthTestHandler(t)
		user := &userDomain.User{ID: 42, Email: "john@example.com"}

		f.credentialUC.On("ValidateLocal", mock.Anything, "john@example.com", "Secret123!").
			Return(user, nil).Once()
		f.tokenUseCase.On("CreateAccess", mock.Anything, int64(42)).
			Return("signed-access", nil).Once()
		f.tokenUseCase.On("CreateRefresh", mock.Anything, int64(42)).
			Return("signed-refresh", nil).Once()

		c, w := createTestContext(t, http.MethodPost, "/v1/auth/login", dto.LoginRequest{
			Email:    "john@example.com",
			Password: "Secret123!",
		})

		f.handler.LoginHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.TokenPairResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "signed-access", response.AccessToken)
		assert.Equal(t, "signed-refresh", response.RefreshToken)
		assert.Equal(t, "Bearer", response.TokenType)
		assert.Equal(t, int64(900), response.ExpiresIn)

		f.tokenUseCase.AssertExpectations(t)
		f.credentialUC.AssertExpectations(t)
	})

	t.Run("Error_InvalidCredentials", func(t *testing.T) {
		f := setupAuthTestHandler(t)

		f.credentialUC.On("ValidateLocal", mock.Anything, "john@example.com", "wrong").
			Return(nil, authDomain.NewCredentialError(42, "john@example.com")).Once()

		c, w := createTestContext(t, http.MethodPost, "/v1/auth/login", dto.LoginRequest{
			Email:    "john@example.com",
			Password: "wrong",
		})

		f.handler.LoginHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		f.tokenUseCase.AssertNotCalled(t, "CreateAccess", mock.Anything, mock.Anything)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		f := setupAuthTestHandler(t)

		c, w := createTestContext(t, http.MethodPost, "/v1/auth/login", nil)
		c.Request.Body = io.NopCloser(bytes.NewReader([]byte("not json")))

		f.handler.LoginHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "validation_error")
	})

	t.Run("Error_UnknownEmailReadsAsUnauthorized", func(t *testing.T) {
		f := setupAuthTestHandler(t)

		f.credentialUC.On("ValidateLocal", mock.Anything, "ghost@example.com", "Secret123!").
			Return(nil, userDomain.ErrUserNotFound).Once()

		c, w := createTestContext(t, http.MethodPost, "/v1/auth/login", dto.LoginRequest{
			Email:    "ghost@example.com",
			Password: "Secret123!",
		})

		f.handler.LoginHandler(c)

		// Unknown accounts must be indistinguishable from wrong passwords.
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotContains(t, w.Body.String(), "not found")
		f.tokenUseCase.AssertNotCalled(t, "CreateAccess", mock.Anything, mock.Anything)
	})

	t.Run("Error_MissingEmail", func(t *testing.T) {
		f := setupAuthTestHandler(t)

		c, w := createTestContext(t, http.MethodPost, "/v1/auth/login", dto.LoginRequest{
			Password: "Secret123!",
		})

		f.handler.LoginHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		f.credentialUC.AssertNotCalled(t, "ValidateLocal", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_RefreshHandler(t *testing.T) {
	t.Run("Success_RotatesToken", func(t *testing.T) {
		f := setupAuthTestHandler(t)
		resolved := testResolvedToken()

		f.tokenUseCase.On("Revoke", mock.Anything, int64(7)).Return(nil).Once()
		f.tokenUseCase.On("CreateAccess", mock.Anything, int64(42)).
			Return("new-access", nil).Once()
		f.tokenUseCase.On("CreateRefresh", mock.Anything, int64(42)).
			Return("new-refresh", nil).Once()

		c, w := createTestContext(t, http.MethodPost, "/v1/auth/refresh", nil)
		c.Request = c.Request.WithContext(WithResolvedToken(c.Request.Context(), resolved))

		f.handler.RefreshHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.TokenPairResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "new-access", response.AccessToken)
		assert.Equal(t, "new-refresh", response.RefreshToken)

		f.tokenUseCase.AssertExpectations(t)
	})

	t.Run("Error_NoResolvedToken", func(t *testing.T) {
		f := setupAuthTestHandler(t)

		c, w := createTestContext(t, http.MethodPost, "/v1/auth/refresh", nil)

		f.handler.RefreshHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		f.tokenUseCase.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything)
	})

	t.Run("Error_RevokeFails", func(t *testing.T) {
		f := setupAuthTestHandler(t)
		resolved := testResolvedToken()

		f.tokenUseCase.On("Revoke", mock.Anything, int64(7)).
			Return(authDomain.ErrTokenNotFound).Once()

		c, w := createTestContext(t, http.MethodPost, "/v1/auth/refresh", nil)
		c.Request = c.Request.WithContext(WithResolvedToken(c.Request.Context(), resolved))

		f.handler.RefreshHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		f.tokenUseCase.AssertNotCalled(t, "CreateAccess", mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_LogoutHandler(t *testing.T) {
	t.Run("Success_RevokesToken", func(t *testing.T) {
		f := setupAuthTestHandler(t)
		resolved := testResolvedToken()

		f.tokenUseCase.On("Revoke", mock.Anything, int64(7)).Return(nil).Once()

		c, w := createTestContext(t, http.MethodPost, "/v1/auth/logout", nil)
		c.Request = c.Request.WithContext(WithResolvedToken(c.Request.Context(), resolved))

		f.handler.LogoutHandler(c)
		c.Writer.WriteHeaderNow()

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
		f.tokenUseCase.AssertExpectations(t)
	})

	t.Run("Error_NoResolvedToken", func(t *testing.T) {
		f := setupAuthTestHandler(t)

		c, w := createTestContext(t, http.MethodPost, "/v1/auth/logout", nil)

		f.handler.LogoutHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_RequestVerificationHandler(t *testing.T) {
	t.Run("Success_QueuesVerification", func(t *testing.T) {
		f := setupAuthTestHandler(t)
		user := &userDomain.User{ID: 42, Email: "john@example.com"}

		f.tokenUseCase.On("CreateVerification", mock.Anything, "john@example.com").
			Return("signed-verification", nil).Once()

		c, w := createTestContext(t, http.MethodPost, "/v1/auth/request-verification", nil)
		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), user))

		f.handler.RequestVerificationHandler(c)

		assert.Equal(t, http.StatusAccepted, w.Code)
		// The signed token travels via the outbox e-mail, never the response.
		assert.NotContains(t, w.Body.String(), "signed-verification")
		f.tokenUseCase.AssertExpectations(t)
	})

	t.Run("Success_MatchingEmailInBody", func(t *testing.T) {
		f := setupAuthTestHandler(t)
		user := &userDomain.User{ID: 42, Email: "john@example.com"}

		f.tokenUseCase.On("CreateVerification", mock.Anything, "john@example.com").
			Return("signed-verification", nil).Once()

		c, w := createTestContext(t, http.MethodPost, "/v1/auth/request-verification",
			dto.RequestVerificationRequest{Email: "John@Example.com"})
		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), user))

		f.handler.RequestVerificationHandler(c)

		assert.Equal(t, http.StatusAccepted, w.Code)
		f.tokenUseCase.AssertExpectations(t)
	})

	t.Run("Error_EmailMismatch", func(t *testing.T) {
		f := setupAuthTestHandler(t)
		user := &userDomain.User{ID: 42, Email: "john@example.com"}

		c, w := createTestContext(t, http.MethodPost, "/v1/auth/request-verification",
			dto.RequestVerificationRequest{Email: "other@example.com"})
		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), user))

		f.handler.RequestVerificationHandler(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		f.tokenUseCase.AssertNotCalled(t, "CreateVerification", mock.Anything, mock.Anything)
	})

	t.Run("Error_NoAuthenticatedUser", func(t *testing.T) {
		f := setupAuthTestHandler(t)

		c, w := createTestContext(t, http.MethodPost, "/v1/auth/request-verification", nil)

		f.handler.RequestVerificationHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_VerifyEmailHandler(t *testing.T) {
	t.Run("Success_MarksVerifiedAndRevokes", func(t *testing.T) {
		f := setupAuthTestHandler(t)
		resolved := testResolvedToken()
		resolved.Record.Type = authDomain.VerificationToken
		verifiedAt := time.Now().UTC()
		verifiedUser := &userDomain.User{
			ID:              42,
			Email:           "john@example.com",
			EmailVerifiedAt: &verifiedAt,
		}

		f.userUseCase.On("MarkEmailVerified", mock.Anything, int64(42)).
			Return(verifiedUser, nil).Once()
		f.tokenUseCase.On("Revoke", mock.Anything, int64(7)).Return(nil).Once()

		c, w := createTestContext(t, http.MethodGet, "/v1/auth/verify?token=x", nil)
		c.Request = c.Request.WithContext(WithResolvedToken(c.Request.Context(), resolved))

		f.handler.VerifyEmailHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.VerifyResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "john@example.com", response.Email)
		assert.True(t, response.Verified)

		f.userUseCase.AssertExpectations(t)
		f.tokenUseCase.AssertExpectations(t)
	})

	t.Run("Error_UserLookupFails", func(t *testing.T) {
		f := setupAuthTestHandler(t)
		resolved := testResolvedToken()

		f.userUseCase.On("MarkEmailVerified", mock.Anything, int64(42)).
			Return(nil, userDomain.ErrUserNotFound).Once()

		c, w := createTestContext(t, http.MethodGet, "/v1/auth/verify?token=x", nil)
		c.Request = c.Request.WithContext(WithResolvedToken(c.Request.Context(), resolved))

		f.handler.VerifyEmailHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		f.tokenUseCase.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything)
	})
}
