// Package http provides HTTP server implementation and request routing.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestIDHeader is the header carrying the request correlation id.
const requestIDHeader = "X-Request-Id"

// RequestIDMiddleware assigns a request id to every request. An incoming
// X-Request-Id is kept so callers can correlate across services.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.Must(uuid.NewV7()).String()
		}

		c.Set("request_id", requestID)
		c.Header(requestIDHeader, requestID)

		c.Next()
	}
}

// CustomLoggerMiddleware logs HTTP requests with structured logging.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		if requestID := c.GetString("request_id"); requestID != "" {
			attrs = append(attrs, slog.String("request_id", requestID))
		}

		logger.Info("http request", attrs...)
	}
}

// HealthHandler reports process liveness.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// ReadinessHandler reports readiness to receive traffic. The ping function
// typically checks the database connection.
func ReadinessHandler(ping func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			if err := ping(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
