package logger

import (
	"context"
	"io"
	"os"
	"time"

	appCtx "github.com/baechuer/account-service/internal/pkg/context"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// ServiceName is stamped on every log line.
const ServiceName = "account-service"

var Logger zerolog.Logger

func Init() {
	InitWithWriter(os.Stdout)
}

func InitWithWriter(w io.Writer) {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	format := os.Getenv("LOG_FORMAT") // "json" or "console"
	if format == "" {
		format = "console"
	}

	out := w
	if format != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	Logger = zerolog.New(out).With().
		Timestamp().
		Str("service", ServiceName).
		Logger().
		Level(level)

	// set global
	zlog.Logger = Logger
}

// WithCtx returns the package logger tagged with the request id and the
// authenticated user id, when the context carries them.
func WithCtx(ctx context.Context) *zerolog.Logger {
	c := Logger.With()
	if rid := appCtx.GetRequestID(ctx); rid != "" {
		c = c.Str("request_id", rid)
	}
	if uid := appCtx.GetUserID(ctx); uid != "" {
		c = c.Str("user_id", uid)
	}
	l := c.Logger()
	return &l
}
