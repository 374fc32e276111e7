package audit

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	appCtx "github.com/baechuer/account-service/internal/pkg/context"
)

// Logger provides structured audit logging for account events
type Logger struct {
	log zerolog.Logger
}

// New creates a new audit logger
func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// Record writes one workflow outcome. Failed outcomes log at warn.
func (l *Logger) Record(ctx context.Context, action string, fields map[string]string) {
	evt := l.log.Info()
	if fields["result"] == "error" {
		evt = l.log.Warn()
	}
	evt = evt.Str("action", action)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := fields[k]
		if k == "email" {
			v = maskEmail(v)
		}
		evt = evt.Str(k, v)
	}

	if rid := appCtx.GetRequestID(ctx); rid != "" {
		evt = evt.Str("request_id", rid)
	}
	if _, set := fields["actor_id"]; !set {
		if uid := appCtx.GetUserID(ctx); uid != "" {
			evt = evt.Str("actor_id", uid)
		}
	}
	evt.Msg("audit")
}

// maskEmail partially masks email for privacy in logs
func maskEmail(email string) string {
	if len(email) < 5 {
		return "***"
	}
	// Show first 2 chars and domain
	at := -1
	for i, c := range email {
		if c == '@' {
			at = i
			break
		}
	}
	if at < 0 {
		return email[:2] + "***"
	}
	if at < 2 {
		return email[:1] + "***" + email[at:]
	}
	return email[:2] + "***" + email[at:]
}
