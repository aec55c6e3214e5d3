package dto

import (
	"time"

	userDomain "github.com/allisson/authcore/internal/user/domain"
)

// UserResponse represents an account in API responses (excludes the password hash).
type UserResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// MapUserToResponse converts a domain user to an API response.
func MapUserToResponse(user *userDomain.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		EmailVerified: user.EmailVerified(),
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

// ListUsersResponse represents a paginated list of accounts in API responses.
type ListUsersResponse struct {
	Data []UserResponse `json:"data"`
}

// MapUsersToListResponse converts a slice of domain users to a list API response.
func MapUsersToListResponse(users []*userDomain.User) ListUsersResponse {
	userResponses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		userResponses = append(userResponses, MapUserToResponse(user))
	}
	return ListUsersResponse{
		Data: userResponses,
	}
}
