// Package http provides HTTP handlers for account management operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/authcore/internal/auth/http"
	apperrors "github.com/allisson/authcore/internal/errors"
	"github.com/allisson/authcore/internal/httputil"
	"github.com/allisson/authcore/internal/user/http/dto"
	userUseCase "github.com/allisson/authcore/internal/user/usecase"
	customValidation "github.com/allisson/authcore/internal/validation"
)

// UserHandler handles HTTP requests for account management.
type UserHandler struct {
	userUseCase userUseCase.UseCase
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler with required dependencies.
func NewUserHandler(userUC userUseCase.UseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUC,
		logger:      logger,
	}
}

// RegisterHandler creates a new account.
// POST /v1/users - No authentication required.
// Returns 201 Created with the account data (never the password hash).
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterUserRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	user, err := h.userUseCase.RegisterUser(c.Request.Context(), userUseCase.RegisterUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapUserToResponse(user))
}

// MeHandler returns the authenticated account.
// GET /v1/users/me - Requires access token authentication.
func (h *UserHandler) MeHandler(c *gin.Context) {
	user, ok := authHTTP.GetUser(c.Request.Context())
	if !ok || user == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

// GetHandler retrieves an account by ID.
// GET /v1/users/:id - Requires access token authentication.
func (h *UserHandler) GetHandler(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid user ID format: must be an integer"),
			h.logger)
		return
	}

	user, err := h.userUseCase.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

// ListHandler retrieves accounts with offset/limit pagination.
// GET /v1/users?offset=0&limit=50 - Requires access token authentication.
func (h *UserHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	users, err := h.userUseCase.ListUsers(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUsersToListResponse(users))
}

// DeleteHandler removes an account. Callers may only delete their own
// account; tokens cascade at the database level.
// DELETE /v1/users/:id - Requires access token authentication.
// Returns 204 No Content.
func (h *UserHandler) DeleteHandler(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid user ID format: must be an integer"),
			h.logger)
		return
	}

	caller, ok := authHTTP.GetUser(c.Request.Context())
	if !ok || caller == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	if caller.ID != userID {
		httputil.HandleErrorGin(c, apperrors.ErrForbidden, h.logger)
		return
	}

	if err := h.userUseCase.DeleteUser(c.Request.Context(), userID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
