package http_handlers

import (
	"fmt"
	"net/http"

	"github.com/baechuer/account-service/internal/application/account"
	"github.com/baechuer/account-service/internal/domain"
	"github.com/baechuer/account-service/internal/logger"
	"github.com/baechuer/account-service/internal/transport/http/dto"
	"github.com/baechuer/account-service/internal/transport/http/middleware"
	"github.com/baechuer/account-service/internal/transport/http/response"
)

type AccountHandler struct {
	svc *account.Service
}

func NewAccountHandler(svc *account.Service) *AccountHandler {
	return &AccountHandler{svc: svc}
}

func tokenResponse(res account.AuthResult) dto.TokenResponse {
	return dto.TokenResponse{
		AccessToken: res.AccessToken,
		TokenType:   res.TokenType,
		User:        dto.NewUserView(res.User),
	}
}

// caller returns the user placed by the Auth middleware.
// Reaching a protected handler without one is a wiring bug, reported as a 401.
func caller(r *http.Request) (domain.User, error) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return domain.User{}, domain.ErrTokenMissing()
	}
	return u, nil
}

// CreateAnonymous handles POST /api/users/
func (h *AccountHandler) CreateAnonymous(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.CreateAnonymous(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID.String()).
		Msg("anonymous_user_created")

	response.OK(w, tokenResponse(res))
}

// Register handles POST /api/users/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	u, err := caller(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	var req dto.CredentialsRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Register(r.Context(), u, req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID.String()).
		Msg("user_registered")

	response.OK(w, tokenResponse(res))
}

// Login handles POST /api/users/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID.String()).
		Msg("user_logged_in")

	response.OK(w, tokenResponse(res))
}

// Me handles GET /api/users/me
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := caller(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewUserView(h.svc.Me(r.Context(), u)))
}

// CreateUser handles POST /api/users/create-user
//
// The role check runs before the body is read, so a non-superuser gets 403
// whatever they send.
func (h *AccountHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	u, err := caller(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	if _, err := account.AuthorizeSuperuser(u); err != nil {
		response.WriteError(w, r, err)
		return
	}

	var req dto.CredentialsRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	created, err := h.svc.AdminCreateUser(r.Context(), u, req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.CreateUserResponse{
		Success: true,
		Message: fmt.Sprintf("Successfully created user %s", created.Email),
		User:    dto.NewUserView(created),
	})
}

// DeleteUser handles DELETE /api/users/delete-user
func (h *AccountHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	u, err := caller(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	if _, err := account.AuthorizeSuperuser(u); err != nil {
		response.WriteError(w, r, err)
		return
	}

	var req dto.DeleteUserRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	deleted, err := h.svc.AdminDeleteUser(r.Context(), u, req.UserIdentifier)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.DeleteUserResponse{
		Success: true,
		Message: fmt.Sprintf("Successfully deleted user %s", deleted.DisplayName()),
	})
}
