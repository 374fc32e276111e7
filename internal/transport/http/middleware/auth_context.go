package middleware

import (
	"context"

	"github.com/baechuer/account-service/internal/domain"
	appCtx "github.com/baechuer/account-service/internal/pkg/context"
)

type userKey struct{}

// WithUser stores the authenticated account and tags the context with its id
// so request logs and audit entries name the caller.
func WithUser(ctx context.Context, u domain.User) context.Context {
	ctx = appCtx.WithUserID(ctx, u.ID.String())
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext returns the user placed by Auth. ok is false on
// unauthenticated routes.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(userKey{}).(domain.User)
	return u, ok
}
