// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/authcore/internal/validation"
)

// LoginRequest contains the credentials for a local e-mail/password login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks if the login request is valid.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Email,
		),
		validation.Field(&r.Password,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}

// RequestVerificationRequest asks for a verification e-mail to be sent.
// Email is optional for authenticated callers; when present it must match
// the authenticated account.
type RequestVerificationRequest struct {
	Email string `json:"email"`
}

// Validate checks if the request verification request is valid.
func (r *RequestVerificationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email,
			customValidation.Email,
		),
	)
}
