package account

import (
	"context"

	"github.com/baechuer/account-service/internal/domain"
)

// Me returns the authenticated caller as the gate loaded it.
func (s *Service) Me(_ context.Context, caller domain.User) domain.User {
	return caller
}
