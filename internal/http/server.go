package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/authcore/internal/auth/domain"
	authHTTP "github.com/allisson/authcore/internal/auth/http"
	authUseCase "github.com/allisson/authcore/internal/auth/usecase"
	"github.com/allisson/authcore/internal/config"
	userHTTP "github.com/allisson/authcore/internal/user/http"
)

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates the API server and wires all routes.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	authHandler *authHTTP.AuthHandler,
	userHandler *userHTTP.UserHandler,
	tokenUseCase authUseCase.TokenUseCase,
	dbPing func() error,
) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", HealthHandler)
	router.GET("/ready", ReadinessHandler(dbPing))

	v1 := router.Group("/v1")

	// Login is the only credential-bearing endpoint, rate limited per IP.
	login := v1.Group("/auth")
	if cfg.RateLimitLoginEnabled {
		login.Use(authHTTP.RateLimitMiddleware(
			cfg.RateLimitLoginRequestsPerSec,
			cfg.RateLimitLoginBurst,
			logger,
		))
	}
	login.POST("/login", authHandler.LoginHandler)

	// Stored token flows. Each endpoint names the token type it accepts.
	refreshGuard := authHTTP.NewTokenGuard(authDomain.RefreshToken, tokenUseCase, logger)
	verificationGuard := authHTTP.NewTokenGuard(authDomain.VerificationToken, tokenUseCase, logger)
	v1.POST("/auth/refresh", refreshGuard, authHandler.RefreshHandler)
	v1.POST("/auth/logout", refreshGuard, authHandler.LogoutHandler)
	v1.GET("/auth/verify", verificationGuard, authHandler.VerifyEmailHandler)

	// Registration is public.
	v1.POST("/users", userHandler.RegisterHandler)

	// Access token protected routes.
	authenticated := v1.Group("")
	authenticated.Use(authHTTP.AuthenticationMiddleware(tokenUseCase, logger))
	if cfg.RateLimitEnabled {
		authenticated.Use(authHTTP.RateLimitMiddleware(
			cfg.RateLimitRequestsPerSec,
			cfg.RateLimitBurst,
			logger,
		))
	}
	authenticated.POST("/auth/request-verification", authHandler.RequestVerificationHandler)
	authenticated.GET("/me", userHandler.MeHandler)
	authenticated.GET("/users", userHandler.ListHandler)
	authenticated.GET("/users/:id", userHandler.GetHandler)
	authenticated.DELETE("/users/:id", userHandler.DeleteHandler)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
