package account

import (
	"context"
)

// CreateAnonymous creates a credential-less user and hands back its token.
func (s *Service) CreateAnonymous(ctx context.Context) (AuthResult, error) {
	const action = "account.create_anonymous"

	u, err := s.users.CreateAnonymous(ctx)
	if err != nil {
		s.record(ctx, action, err, nil)
		return AuthResult{}, err
	}

	res, err := s.issue(u)
	s.record(ctx, action, err, map[string]string{"user_id": u.ID.String()})
	return res, err
}
