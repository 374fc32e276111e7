package dto

import (
	"strings"

	"github.com/baechuer/account-service/internal/domain"
)

// CredentialsRequest is the body of register, login and create-user.
type CredentialsRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=1024"`
}

// Validate trims the email, checks the tags, then the domain password rule.
func (r *CredentialsRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if err := validateStruct(r); err != nil {
		return err
	}
	return domain.ValidatePassword(r.Password)
}

// LoginRequest rejects a malformed email up front. An empty password is let
// through and fails verification like any other wrong password.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"max=1024"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return validateStruct(r)
}

// DeleteUserRequest names the target by uuid or email; anything else is 422.
type DeleteUserRequest struct {
	UserIdentifier string `json:"user_identifier" validate:"required,max=254,uuid|email"`
}

func (r *DeleteUserRequest) Validate() error {
	r.UserIdentifier = strings.TrimSpace(r.UserIdentifier)
	return validateStruct(r)
}
