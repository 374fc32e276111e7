package account

import (
	"context"

	"github.com/baechuer/account-service/internal/domain"
)

// SeedSuperuser makes sure a superuser with the given email exists. Restart
// safe: an existing account is promoted and its password is left alone.
// Empty settings are a no-op.
func (s *Service) SeedSuperuser(ctx context.Context, email, password string) (u domain.User, err error) {
	const action = "ops.seed_superuser"

	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return domain.User{}, nil
	}

	fields := map[string]string{"email": email}
	defer func() {
		if err == nil {
			fields["target_id"] = u.ID.String()
		}
		s.record(ctx, action, err, fields)
	}()

	if s.admin == nil {
		return domain.User{}, domain.ErrInternal(errNoAdminStore)
	}

	u, err = s.admin.GetByEmail(ctx, email)
	if domain.Is(err, "user_not_found") {
		u, err = s.createSeed(ctx, email, password)
	}
	if err != nil {
		return domain.User{}, err
	}
	if u.IsSuperuser {
		return u, nil
	}
	return s.admin.SetSuperuser(ctx, u.ID)
}

// createSeed inserts the seed account. Another instance seeding the same
// email concurrently wins the insert; its row is then reused.
func (s *Service) createSeed(ctx context.Context, email, password string) (domain.User, error) {
	hash, err := s.hashPassword(password)
	if err != nil {
		return domain.User{}, err
	}
	u, err := s.admin.CreateRegistered(ctx, email, hash)
	if domain.Is(err, "email_already_exists") {
		return s.admin.GetByEmail(ctx, email)
	}
	return u, err
}
