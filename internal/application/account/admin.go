package account

import (
	"context"
	"strings"

	"github.com/baechuer/account-service/internal/domain"
)

// AdminCreateUser creates a verified account on behalf of a superuser.
// No token is issued; the new user logs in separately.
func (s *Service) AdminCreateUser(ctx context.Context, caller domain.User, email, password string) (domain.User, error) {
	const action = "admin.create_user"

	email = domain.NormalizeEmail(email)
	fields := map[string]string{"actor_id": caller.ID.String(), "email": email}

	if _, err := AuthorizeSuperuser(caller); err != nil {
		s.record(ctx, action, err, fields)
		return domain.User{}, err
	}

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

// AdminDeleteUser removes a non-superuser account by id or email.
func (s *Service) AdminDeleteUser(ctx context.Context, caller domain.User, identifier string) (domain.User, error) {
	const action = "admin.delete_user"

	identifier = strings.TrimSpace(identifier)
	fields := map[string]string{"actor_id": caller.ID.String(), "identifier": identifier}

	if _, err := AuthorizeSuperuser(caller); err != nil {
		s.record(ctx, action, err, fields)
		return domain.User{}, err
	}

	if identifier == "" {
		err := domain.ErrMissingField("identifier")
		s.record(ctx, action, err, fields)
		return domain.User{}, err
	}

	u, err := s.users.Delete(ctx, domain.ParseIdentifier(identifier), caller.ID)
	if err == nil {
		fields["target_id"] = u.ID.String()
	}
	s.record(ctx, action, err, fields)
	return u, err
}
