// Package http provides HTTP handlers and middleware for authentication.
package http

import (
	"context"

	authUseCase "github.com/allisson/authcore/internal/auth/usecase"
	userDomain "github.com/allisson/authcore/internal/user/domain"
)

// userKey is a context key type for storing authenticated users.
type userKey struct{}

// resolvedTokenKey is a context key type for storing resolved stored tokens.
type resolvedTokenKey struct{}

// WithUser stores an authenticated user in the context.
// This is typically called by the access token middleware after successful verification.
func WithUser(ctx context.Context, user *userDomain.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// GetUser retrieves an authenticated user from the context.
// Returns (user, true) if a user is present, or (nil, false) if no user was set.
func GetUser(ctx context.Context) (*userDomain.User, bool) {
	user, ok := ctx.Value(userKey{}).(*userDomain.User)
	return user, ok
}

// WithResolvedToken stores a resolved stored token in the context.
// This is typically called by a token guard after successful resolution.
func WithResolvedToken(ctx context.Context, resolved *authUseCase.ResolvedToken) context.Context {
	return context.WithValue(ctx, resolvedTokenKey{}, resolved)
}

// GetResolvedToken retrieves a resolved stored token from the context.
// Returns (resolved, true) if present, or (nil, false) if no token was set.
func GetResolvedToken(ctx context.Context) (*authUseCase.ResolvedToken, bool) {
	resolved, ok := ctx.Value(resolvedTokenKey{}).(*authUseCase.ResolvedToken)
	return resolved, ok
}
