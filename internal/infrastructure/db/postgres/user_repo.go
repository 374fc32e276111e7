package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/baechuer/account-service/internal/domain"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// ---------- helpers ----------

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// mapWriteErr converts driver errors on INSERT/UPDATE.
func mapWriteErr(err error) error {
	switch {
	case isNoRows(err):
		return domain.ErrUserNotFound()
	case isUniqueViolation(err):
		return domain.ErrEmailAlreadyExists()
	default:
		return domain.ErrDBUnavailable(err)
	}
}

// withTx commits when fn returns nil and rolls back otherwise.
func (r *UserRepo) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists()
		}
		return domain.ErrDBUnavailable(err)
	}
	return nil
}

// ---------- account.UserStore ----------

func (r *UserRepo) CreateAnonymous(ctx context.Context) (domain.User, error) {
	const q = `
INSERT INTO users (id)
VALUES ($1)
RETURNING ` + userColumns + `;
`
	var u domain.User
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		ur, err := scanUserRow(tx.QueryRowContext(ctx, q, uuid.New()))
		if err != nil {
			return domain.ErrDBUnavailable(err)
		}
		u = toDomainUser(ur)
		return nil
	})
	return u, err
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	if id == uuid.Nil {
		return domain.User{}, domain.ErrUserNotFound()
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
LIMIT 1;
`
	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.User{}, domain.ErrUserNotFound()
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1
LIMIT 1;
`
	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) Register(ctx context.Context, id uuid.UUID, email, passwordHash string) (domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if passwordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}

	const q = `
UPDATE users
SET email = $2,
    password_hash = $3,
    is_verified = TRUE
WHERE id = $1
RETURNING ` + userColumns + `;
`
	var u domain.User
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		ur, err := scanUserRow(tx.QueryRowContext(ctx, q, id, email, passwordHash))
		if err != nil {
			return mapWriteErr(err)
		}
		u = toDomainUser(ur)
		return nil
	})
	return u, err
}

func (r *UserRepo) CreateRegistered(ctx context.Context, email, passwordHash string) (domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if passwordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}

	const q = `
INSERT INTO users (id, email, password_hash, is_verified, is_superuser)
VALUES ($1, $2, $3, TRUE, FALSE)
RETURNING ` + userColumns + `;
`
	var u domain.User
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		ur, err := scanUserRow(tx.QueryRowContext(ctx, q, uuid.New(), email, passwordHash))
		if err != nil {
			return mapWriteErr(err)
		}
		u = toDomainUser(ur)
		return nil
	})
	return u, err
}

// Delete locks the target row so the protection checks and the delete see
// the same state.
func (r *UserRepo) Delete(ctx context.Context, target domain.Identifier, actingID uuid.UUID) (domain.User, error) {
	const (
		byID = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
FOR UPDATE;
`
		byEmail = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1
FOR UPDATE;
`
		del = `DELETE FROM users WHERE id = $1;`
	)

	var u domain.User
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var row *sql.Row
		if target.IsID() {
			row = tx.QueryRowContext(ctx, byID, target.ID)
		} else {
			row = tx.QueryRowContext(ctx, byEmail, domain.NormalizeEmail(target.Email))
		}

		ur, err := scanUserRow(row)
		if err != nil {
			if isNoRows(err) {
				return domain.ErrUserNotFound()
			}
			return domain.ErrDBUnavailable(err)
		}

		found := toDomainUser(ur)
		if found.ID == actingID {
			return domain.ErrCannotDeleteSelf()
		}
		if found.IsSuperuser {
			return domain.ErrCannotDeleteSuperuser()
		}

		if _, err := tx.ExecContext(ctx, del, found.ID); err != nil {
			return domain.ErrDBUnavailable(err)
		}
		u = found
		return nil
	})
	return u, err
}

// ---------- account.UserAdminStore ----------

func (r *UserRepo) SetSuperuser(ctx context.Context, id uuid.UUID) (domain.User, error) {
	const q = `
UPDATE users
SET is_superuser = TRUE
WHERE id = $1
RETURNING ` + userColumns + `;
`
	var u domain.User
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		ur, err := scanUserRow(tx.QueryRowContext(ctx, q, id))
		if err != nil {
			return mapWriteErr(err)
		}
		u = toDomainUser(ur)
		return nil
	})
	return u, err
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
ORDER BY created_at, id;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		ur, err := scanUserRow(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, toDomainUser(ur))
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}
