package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/authcore/internal/auth/domain"
	authUseCase "github.com/allisson/authcore/internal/auth/usecase"
	apperrors "github.com/allisson/authcore/internal/errors"
	"github.com/allisson/authcore/internal/httputil"
)

// extractToken pulls the presented token out of the request. The
// Authorization header ("Bearer <token>", case-insensitive prefix) wins;
// the "token" query parameter is the fallback for link-based flows such as
// e-mail verification.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		const bearerPrefix = "bearer "
		if len(authHeader) >= len(bearerPrefix) &&
			strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			return strings.TrimSpace(authHeader[len(bearerPrefix):])
		}
		return ""
	}

	return c.Query("token")
}

// AuthenticationMiddleware authenticates requests via a stateless access
// token in the Authorization header.
//
// The middleware:
// 1. Extracts the Bearer token from the Authorization header (case-insensitive)
// 2. Verifies signature, expiry and token type via tokenUseCase.AuthenticateAccess()
// 3. Stores the authenticated user in the request context
// 4. Allows downstream handlers to access the user via GetUser()
//
// Error handling:
//   - Missing or malformed Authorization header → 401 Unauthorized
//   - Invalid/expired token → 401 Unauthorized (from AuthenticateAccess)
//   - Other errors → mapped by httputil.HandleErrorGin
func AuthenticationMiddleware(tokenUseCase authUseCase.TokenUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			logger.Debug("authentication failed: missing bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		user, err := tokenUseCase.AuthenticateAccess(c.Request.Context(), raw)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, authDomain.ErrInvalidCredentials, logger)
			c.Abort()
			return
		}

		ctx := WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful", slog.Int64("user_id", user.ID))

		c.Next()
	}
}

// NewTokenGuard builds a middleware that resolves a stored token of the
// given type before letting the request through. One constructor covers
// every stored token type; the expected type is the parameter rather than
// a guard per type.
//
// The guard:
// 1. Extracts the token from the Authorization header or "token" query parameter
// 2. Resolves it end to end via tokenUseCase.Resolve() with the expected type
// 3. Stores the resolved record and its owner in the request context
// 4. Allows downstream handlers to access them via GetResolvedToken() and GetUser()
//
// Error handling:
//   - Missing token → 401 Unauthorized
//   - Resolution failures keep their domain mapping (expired/revoked → 422,
//     type mismatch → 409, unknown record → 404, owner mismatch → 401)
func NewTokenGuard(
	tokenType authDomain.TokenType,
	tokenUseCase authUseCase.TokenUseCase,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			logger.Debug("token guard failed: missing token",
				slog.String("token_type", string(tokenType)))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		resolved, err := tokenUseCase.Resolve(c.Request.Context(), raw, tokenType)
		if err != nil {
			logger.Debug("token guard failed",
				slog.String("token_type", string(tokenType)),
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithResolvedToken(c.Request.Context(), resolved)
		ctx = WithUser(ctx, resolved.Owner)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("token guard passed",
			slog.String("token_type", string(tokenType)),
			slog.Int64("token_id", resolved.Record.ID),
			slog.Int64("user_id", resolved.Owner.ID))

		c.Next()
	}
}
