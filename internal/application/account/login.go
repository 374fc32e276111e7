package account

import (
	"context"

	"github.com/baechuer/account-service/internal/domain"
)

// Login authenticates a user and issues a token.
// IMPORTANT: must not leak whether the email exists (avoid user enumeration).
func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	const action = "account.login"

	email = domain.NormalizeEmail(email)
	fields := map[string]string{"email": email}

	if email == "" || password == "" {
		err := domain.ErrInvalidCredentials()
		s.record(ctx, action, err, fields)
		return AuthResult{}, err
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// store outages surface as 503, only absence is hidden
		if domain.Is(err, "user_not_found") {
			s.hasher.Verify(s.decoyHash(), password)
			err = domain.ErrInvalidCredentials()
		}
		s.record(ctx, action, err, fields)
		return AuthResult{}, err
	}

	hash := u.PasswordHash
	if hash == "" {
		hash = s.decoyHash()
	}
	if !s.hasher.Verify(hash, password) || !u.IsVerified || !u.HasPassword() {
		err := domain.ErrInvalidCredentials()
		s.record(ctx, action, err, fields)
		return AuthResult{}, err
	}

	fields["user_id"] = u.ID.String()
	res, err := s.issue(u)
	s.record(ctx, action, err, fields)
	return res, err
}
