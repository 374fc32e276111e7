package dto

import (
	"time"

	"github.com/baechuer/account-service/internal/domain"
)

// UserView is the public shape of a user. Email is null for anonymous users.
type UserView struct {
	ID          string    `json:"id"`
	Email       *string   `json:"email"`
	IsVerified  bool      `json:"is_verified"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewUserView(u domain.User) UserView {
	v := UserView{
		ID:          u.ID.String(),
		IsVerified:  u.IsVerified,
		IsSuperuser: u.IsSuperuser,
		CreatedAt:   u.CreatedAt.UTC(),
	}
	if u.HasEmail() {
		email := u.Email
		v.Email = &email
	}
	return v
}

// TokenResponse is returned by anonymous create, register and login.
type TokenResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        UserView `json:"user"`
}

type CreateUserResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	User    UserView `json:"user"`
}

type DeleteUserResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
