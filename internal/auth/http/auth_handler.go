package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allisson/authcore/internal/auth/http/dto"
	authUseCase "github.com/allisson/authcore/internal/auth/usecase"
	apperrors "github.com/allisson/authcore/internal/errors"
	"github.com/allisson/authcore/internal/httputil"
	userDomain "github.com/allisson/authcore/internal/user/domain"
	userUseCase "github.com/allisson/authcore/internal/user/usecase"
	customValidation "github.com/allisson/authcore/internal/validation"
)

// AuthHandler handles HTTP requests for login, token refresh and e-mail
// verification flows.
type AuthHandler struct {
	tokenUseCase      authUseCase.TokenUseCase
	credentialUseCase authUseCase.CredentialUseCase
	userUseCase       userUseCase.UseCase
	accessTokenTTL    time.Duration
	logger            *slog.Logger
}

// NewAuthHandler creates a new auth handler with required dependencies.
func NewAuthHandler(
	tokenUseCase authUseCase.TokenUseCase,
	credentialUseCase authUseCase.CredentialUseCase,
	userUC userUseCase.UseCase,
	accessTokenTTL time.Duration,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		tokenUseCase:      tokenUseCase,
		credentialUseCase: credentialUseCase,
		userUseCase:       userUC,
		accessTokenTTL:    accessTokenTTL,
		logger:            logger,
	}
}

// issueTokenPair issues a fresh access/refresh pair for the user.
func (h *AuthHandler) issueTokenPair(c *gin.Context, ownerID int64) (*dto.TokenPairResponse, error) {
	accessToken, err := h.tokenUseCase.CreateAccess(c.Request.Context(), ownerID)
	if err != nil {
		return nil, err
	}

	refreshToken, err := h.tokenUseCase.CreateRefresh(c.Request.Context(), ownerID)
	if err != nil {
		return nil, err
	}

	return &dto.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(h.accessTokenTTL.Seconds()),
	}, nil
}

// LoginHandler authenticates an e-mail/password pair and issues a token pair.
// POST /v1/auth/login - No authentication required.
// Returns 200 OK with access and refresh tokens.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	user, err := h.credentialUseCase.ValidateLocal(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// An unknown account reads the same as a wrong password, so the
		// endpoint can't be used to enumerate registered e-mails.
		if apperrors.Is(err, userDomain.ErrUserNotFound) {
			err = apperrors.Wrap(apperrors.ErrUnauthorized, "invalid login credentials")
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response, err := h.issueTokenPair(c, user.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, response)
}

// RefreshHandler rotates a refresh token.
// POST /v1/auth/refresh - Requires a valid refresh token (guard).
// The presented token is revoked and a fresh pair is issued, so each refresh
// token works exactly once.
func (h *AuthHandler) RefreshHandler(c *gin.Context) {
	resolved, ok := GetResolvedToken(c.Request.Context())
	if !ok || resolved == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	// Revoke before issuing: a failure mid-rotation must not leave the old
	// token usable.
	if err := h.tokenUseCase.Revoke(c.Request.Context(), resolved.Record.ID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response, err := h.issueTokenPair(c, resolved.Owner.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, response)
}

// LogoutHandler revokes the presented refresh token.
// POST /v1/auth/logout - Requires a valid refresh token (guard).
// Returns 204 No Content. Revocation is idempotent.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	resolved, ok := GetResolvedToken(c.Request.Context())
	if !ok || resolved == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	if err := h.tokenUseCase.Revoke(c.Request.Context(), resolved.Record.ID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// RequestVerificationHandler issues a verification token for the
// authenticated user and enqueues the verification e-mail.
// POST /v1/auth/request-verification - Requires access token authentication.
// Returns 202 Accepted; the e-mail is sent asynchronously via the outbox.
func (h *AuthHandler) RequestVerificationHandler(c *gin.Context) {
	user, ok := GetUser(c.Request.Context())
	if !ok || user == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	// Body is optional; when an e-mail is given it must be the caller's own.
	if c.Request.ContentLength > 0 {
		var req dto.RequestVerificationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httputil.HandleValidationErrorGin(c, err, h.logger)
			return
		}
		if err := req.Validate(); err != nil {
			httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
			return
		}
		if req.Email != "" && !strings.EqualFold(req.Email, user.Email) {
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, h.logger)
			return
		}
	}

	if _, err := h.tokenUseCase.CreateVerification(c.Request.Context(), user.Email); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusAccepted, dto.MessageResponse{
		Message: "verification e-mail queued",
	})
}

// VerifyEmailHandler confirms an e-mail address using a verification token.
// GET /v1/auth/verify?token=<token> - Requires a valid verification token (guard).
// The token is single-use: it is revoked once the address is marked verified.
func (h *AuthHandler) VerifyEmailHandler(c *gin.Context) {
	resolved, ok := GetResolvedToken(c.Request.Context())
	if !ok || resolved == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	user, err := h.userUseCase.MarkEmailVerified(c.Request.Context(), resolved.Owner.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if err := h.tokenUseCase.Revoke(c.Request.Context(), resolved.Record.ID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.VerifyResponse{
		Email:    user.Email,
		Verified: user.EmailVerified(),
	})
}
