package postgres

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/account-service/internal/domain"
)

const userColumns = `id, email, password_hash, is_verified, is_superuser, created_at`

type userRow struct {
	ID           uuid.UUID
	Email        sql.NullString
	PasswordHash sql.NullString
	IsVerified   bool
	IsSuperuser  bool
	CreatedAt    time.Time
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUserRow(s scanner) (userRow, error) {
	var ur userRow
	err := s.Scan(
		&ur.ID,
		&ur.Email,
		&ur.PasswordHash,
		&ur.IsVerified,
		&ur.IsSuperuser,
		&ur.CreatedAt,
	)
	return ur, err
}

func toDomainUser(ur userRow) domain.User {
	return domain.User{
		ID:           ur.ID,
		Email:        ur.Email.String,
		PasswordHash: ur.PasswordHash.String,
		IsVerified:   ur.IsVerified,
		IsSuperuser:  ur.IsSuperuser,
		CreatedAt:    ur.CreatedAt,
	}
}
