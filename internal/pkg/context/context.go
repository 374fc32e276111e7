// Package context holds the request-scoped values that logging and error
// responses read back: the request id and, once authenticated, the caller id.
package context

import "context"

type key int

const (
	keyRequestID key = iota
	keyUserID
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

func GetRequestID(ctx context.Context) string {
	return str(ctx, keyRequestID)
}

// WithUserID records the authenticated caller so log lines can be tied to an account.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyUserID, id)
}

func GetUserID(ctx context.Context) string {
	return str(ctx, keyUserID)
}

func str(ctx context.Context, k key) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(k).(string)
	return s
}
