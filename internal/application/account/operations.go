package account

import (
	"context"
	"errors"
	"strings"

	"github.com/baechuer/account-service/internal/domain"
)

// Operational workflows run from the CLI with direct database access.
// They bypass the gate and are never routed over HTTP.

var errNoAdminStore = errors.New("user store has no operational extension")

// ProvisionUser creates a verified account without an acting superuser.
func (s *Service) ProvisionUser(ctx context.Context, email, password string) (domain.User, error) {
	const action = "ops.provision_user"

	email = domain.NormalizeEmail(email)
	fields := map[string]string{"email": email}

	if email == "" {
		err := domain.ErrMissingField("email")
		s.record(ctx, action, err, fields)
		return domain.User{}, err
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		s.record(ctx, action, err, fields)
		return domain.User{}, err
	}

	u, err := s.users.CreateRegistered(ctx, email, hash)
	if err == nil {
		fields["target_id"] = u.ID.String()
	}
	s.record(ctx, action, err, fields)
	return u, err
}

// PromoteSuperuser is idempotent; already reports whether nothing changed.
func (s *Service) PromoteSuperuser(ctx context.Context, identifier string) (u domain.User, already bool, err error) {
	const action = "ops.promote_superuser"

	identifier = strings.TrimSpace(identifier)
	fields := map[string]string{"identifier": identifier}
	defer func() {
		if err == nil {
			fields["target_id"] = u.ID.String()
		}
		s.record(ctx, action, err, fields)
	}()

	if s.admin == nil {
		return domain.User{}, false, domain.ErrInternal(errNoAdminStore)
	}
	if identifier == "" {
		return domain.User{}, false, domain.ErrMissingField("identifier")
	}

	target := domain.ParseIdentifier(identifier)
	if target.IsID() {
		u, err = s.admin.GetByID(ctx, target.ID)
	} else {
		u, err = s.admin.GetByEmail(ctx, target.Email)
	}
	if err != nil {
		return domain.User{}, false, err
	}
	if u.IsSuperuser {
		return u, true, nil
	}

	u, err = s.admin.SetSuperuser(ctx, u.ID)
	if err != nil {
		return domain.User{}, false, err
	}
	return u, false, nil
}

// ListUsers returns every user ordered by creation time.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	if s.admin == nil {
		return nil, domain.ErrInternal(errNoAdminStore)
	}
	return s.admin.List(ctx)
}
