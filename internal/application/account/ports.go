package account

import (
	"context"

	"github.com/google/uuid"

	"github.com/baechuer/account-service/internal/domain"
)

/*
UserStore
---------
Persistence port for users. Every method is one transaction: a rejected
mutation leaves the table untouched.

Errors:
  - absent rows: domain.ErrUserNotFound
  - email uniqueness: domain.ErrEmailAlreadyExists
  - delete protection: domain.ErrCannotDeleteSelf / ErrCannotDeleteSuperuser
  - anything else: domain.ErrDBUnavailable
*/
type UserStore interface {
	CreateAnonymous(ctx context.Context) (domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// Register upgrades an existing row in place and marks it verified.
	Register(ctx context.Context, id uuid.UUID, email, passwordHash string) (domain.User, error)
	// CreateRegistered inserts a verified, non-superuser row.
	CreateRegistered(ctx context.Context, email, passwordHash string) (domain.User, error)
	// Delete returns the row as it was before removal.
	Delete(ctx context.Context, target domain.Identifier, actingID uuid.UUID) (domain.User, error)
}

/*
UserAdminStore
--------------
Operational extension used by the CLI. Not reachable over HTTP.
*/
type UserAdminStore interface {
	UserStore
	SetSuperuser(ctx context.Context, id uuid.UUID) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt. Verify must be false for an empty hash.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

/*
TokenCodec
----------
Issues and decodes access tokens (JWT).
Used by the service and the authentication gate.
*/
type TokenCodec interface {
	IssueToken(u domain.User) (string, error)
	DecodeToken(token string) (uuid.UUID, error)
}

// AuditFunc receives one call per workflow outcome.
type AuditFunc func(ctx context.Context, action string, fields map[string]string)
