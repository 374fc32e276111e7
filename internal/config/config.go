package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost applies when BCRYPT_COST is unset.
const DefaultBcryptCost = 12

type Config struct {
	//App
	Env string // dev / test / staging / prod
	//HTTP
	HTTPAddr string
	//Auth / Security
	JWTSecret      string
	JWTIssuer      string
	AccessTokenTTL time.Duration
	BcryptCost     int

	// Infrastructure
	Database

	MetricsEnabled bool

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// Dev-only superuser seed
	BootstrapSuperuserEmail    string
	BootstrapSuperuserPassword string
}

// Database is the subset of settings the operational CLI needs.
type Database struct {
	DBAddr    string
	DBDebug   bool
	DBMigrate bool
}

func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8000"),
	}
	switch cfg.Env {
	case "dev", "test", "staging", "prod":
	default:
		return nil, fmt.Errorf("invalid ENV: %q", cfg.Env)
	}

	// required values
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required env var: JWT_SECRET")
	}
	cfg.JWTIssuer = getEnv("JWT_ISSUER", "")

	ttl, err := getDuration("ACCESS_TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}
	cfg.AccessTokenTTL = ttl

	cost, err := getInt("BCRYPT_COST", DefaultBcryptCost)
	if err != nil {
		return nil, err
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	cfg.BcryptCost = cost

	// The in-memory store backs ENV=test, so only there may the DB be absent.
	db, err := loadDatabase(cfg.Env != "test")
	if err != nil {
		return nil, err
	}
	cfg.Database = db

	if cfg.MetricsEnabled, err = getBool("METRICS_ENABLED", true); err != nil {
		return nil, err
	}

	//Timeout values are optional and have a default value if not
	rt, err := getDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPReadTimeout = rt

	wt, err := getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPWriteTimeout = wt

	it, err := getDuration("HTTP_IDLE_TIMEOUT", time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.HTTPIdleTimeout = it

	cfg.BootstrapSuperuserEmail = getEnv("BOOTSTRAP_SUPERUSER_EMAIL", "")
	cfg.BootstrapSuperuserPassword = os.Getenv("BOOTSTRAP_SUPERUSER_PASSWORD")
	if (cfg.BootstrapSuperuserEmail == "") != (cfg.BootstrapSuperuserPassword == "") {
		return nil, fmt.Errorf("BOOTSTRAP_SUPERUSER_EMAIL and BOOTSTRAP_SUPERUSER_PASSWORD must be set together")
	}

	return cfg, nil
}

// LoadDatabase reads only the database settings; DB_ADDR is always required.
func LoadDatabase() (Database, error) {
	_ = godotenv.Load()
	return loadDatabase(true)
}

func loadDatabase(required bool) (Database, error) {
	var (
		db  Database
		err error
	)

	db.DBAddr = strings.TrimSpace(os.Getenv("DB_ADDR"))
	if db.DBAddr == "" {
		if required {
			return Database{}, fmt.Errorf("missing required env var: DB_ADDR")
		}
	} else if err := validatePostgresDSN(db.DBAddr); err != nil {
		return Database{}, err
	}

	if db.DBDebug, err = getBool("DB_DEBUG", false); err != nil {
		return Database{}, err
	}
	if db.DBMigrate, err = getBool("DB_MIGRATE", true); err != nil {
		return Database{}, err
	}
	return db, nil
}

func validatePostgresDSN(dsn string) error {
	u, err := url.Parse(dsn)
	if err != nil {
		return fmt.Errorf("invalid DB_ADDR: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return fmt.Errorf("invalid DB_ADDR scheme: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid DB_ADDR: missing host")
	}
	if strings.Trim(u.Path, "/") == "" {
		return fmt.Errorf("invalid DB_ADDR: missing database name")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %q: %w", key, v, err)
	}
	return i, nil
}

func getBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	switch strings.ToLower(v) {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean for %s: %q", key, v)
	}
}
