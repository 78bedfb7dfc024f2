// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"github.com/go-playground/validator/v10"

	"github.com/taskdeck/taskdeck/internal/model"
)

var validate = validator.New()

// SignUpRequest represents the request body for registering an account.
type SignUpRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Validate checks required fields and formats.
func (r *SignUpRequest) Validate() error {
	return validate.Struct(r)
}

// SignInRequest represents the request body for authenticating.
type SignInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Validate checks required fields.
func (r *SignInRequest) Validate() error {
	return validate.Struct(r)
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ToUserResponse converts a user to its API representation.
func ToUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
