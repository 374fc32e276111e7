package account

import (
	"context"

	"github.com/baechuer/account-service/internal/domain"
)

// Register attaches credentials to the caller's own row. The row keeps its id.
func (s *Service) Register(ctx context.Context, caller domain.User, email, password string) (AuthResult, error) {
	const action = "account.register"

	email = domain.NormalizeEmail(email)
	fields := map[string]string{"user_id": caller.ID.String(), "email": email}

	if email == "" {
		err := domain.ErrMissingField("email")
		s.record(ctx, action, err, fields)
		return AuthResult{}, err
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		s.record(ctx, action, err, fields)
		return AuthResult{}, err
	}

	u, err := s.users.Register(ctx, caller.ID, email, hash)
	if err != nil {
		s.record(ctx, action, err, fields)
		return AuthResult{}, err
	}

	res, err := s.issue(u)
	s.record(ctx, action, err, fields)
	return res, err
}
