package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/baechuer/account-service/internal/application/account"
	"github.com/baechuer/account-service/internal/audit"
	"github.com/baechuer/account-service/internal/config"
	"github.com/baechuer/account-service/internal/infrastructure/db/migrations"
	"github.com/baechuer/account-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/account-service/internal/infrastructure/memory"
	"github.com/baechuer/account-service/internal/infrastructure/security"
	"github.com/baechuer/account-service/internal/logger"
	http_handlers "github.com/baechuer/account-service/internal/transport/http/handlers"
	"github.com/baechuer/account-service/internal/transport/http/middleware"
	"github.com/baechuer/account-service/internal/transport/http/response"
	"github.com/baechuer/account-service/internal/transport/http/router"
)

const (
	migrateTimeout = 30 * time.Second
	seedTimeout    = 10 * time.Second
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(addr string, debug bool) (*sql.DB, error)

	Migrate func(ctx context.Context, db *sql.DB) error

	NewRouter func(router.Deps) (http.Handler, error)
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cleanupFns []func()

	// 1) store: postgres everywhere except ENV=test without DB_ADDR
	var (
		users  account.UserAdminStore
		pinger http_handlers.Pinger
	)
	if cfg.Env == "test" && cfg.DBAddr == "" {
		logger.Logger.Warn().Msg("ENV=test without DB_ADDR; using in-memory user store")
		users = memory.NewUserRepo()
	} else {
		db, err := deps.NewDB(cfg.DBAddr, cfg.DBDebug)
		if err != nil {
			return nil, nil, err
		}
		cleanupFns = append(cleanupFns, func() { _ = db.Close() })

		if cfg.DBMigrate {
			ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
			err := deps.Migrate(ctx, db)
			cancel()
			if err != nil {
				runCleanup(cleanupFns)
				return nil, nil, err
			}
			logger.Logger.Info().Msg("migrations applied")
		}

		users = postgres.NewUserRepo(db)
		pinger = db
	}

	// 2) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Dur("ttl", cfg.AccessTokenTTL).Msg("initializing jwt codec")
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	codec := security.NewJWTCodec(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL)

	// 3) service + audit
	auditLog := audit.New(logger.Logger)
	svc := account.NewService(users, hasher, codec).
		WithAudit(func(ctx context.Context, action string, fields map[string]string) {
			auditLog.Record(ctx, action, fields)
			if cfg.MetricsEnabled {
				middleware.ObserveAccountEvent(action, fields)
			}
		})
	gate := account.NewGate(codec, users)

	// seed (non-production only); a failed seed is logged, not fatal
	if cfg.Env == "dev" || cfg.Env == "test" {
		ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
		if _, err := svc.SeedSuperuser(ctx, cfg.BootstrapSuperuserEmail, cfg.BootstrapSuperuserPassword); err != nil {
			logger.Logger.Error().Err(err).Msg("bootstrap superuser seed failed")
		}
		cancel()
	}

	// 4) handlers + middleware
	accountH := http_handlers.NewAccountHandler(svc)
	healthH := http_handlers.NewHealthHandler(pinger)

	rd := router.Deps{
		Health:      healthH,
		Account:     accountH,
		RequestIDMW: middleware.RequestID,
		RecoverMW:   middleware.Recover(response.WriteError),
		AuthMW:      middleware.Auth(gate, response.WriteError),
	}
	if cfg.MetricsEnabled {
		rd.MetricsMW = middleware.Metrics
	}

	// 5) router
	mux, err := deps.NewRouter(rd)
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 6) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		Migrate:    migrations.Up,
		NewRouter:  router.New,
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
