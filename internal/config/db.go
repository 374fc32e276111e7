package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/baechuer/account-service/internal/logger"
	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Pool limits for the users table workload: short single-row statements.
const (
	dbMaxOpenConns    = 20
	dbMaxIdleConns    = 10
	dbConnMaxIdleTime = 5 * time.Minute
	dbConnMaxLifetime = time.Hour
	dbPingTimeout     = 3 * time.Second
)

// NewDB opens a pgx-backed pool and pings it once. A DSN that pgx cannot parse
// is rejected before any connection attempt.
func NewDB(dsn string, debug bool) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty DB DSN")
	}
	pc, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DB DSN: %w", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxIdleTime(dbConnMaxIdleTime)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s:%d: %w", pc.Host, pc.Port, err)
	}

	if debug {
		var ver string
		_ = db.QueryRowContext(ctx, "SHOW server_version").Scan(&ver)

		logger.Logger.Debug().
			Str("host", pc.Host).
			Uint16("port", pc.Port).
			Str("db", pc.Database).
			Str("user", pc.User).
			Str("version", ver).
			Int("max_open_conns", dbMaxOpenConns).
			Msg("db connected")
	}

	return db, nil
}
