package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/baechuer/account-service/internal/domain"
)

// Authenticator resolves a raw bearer token to the live user row.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.User, error)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

// Auth resolves the bearer token to the live user row and places it in the
// request context. Any failure is written with writeErr and stops the chain.
func Auth(authn Authenticator, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := bearerToken(r.Header.Get("Authorization"))
			if err != nil {
				writeErr(w, r, err)
				return
			}

			u, err := authn.Authenticate(r.Context(), raw)
			if err != nil {
				writeErr(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// bearerToken extracts <token> from "Bearer <token>". The scheme is matched
// case-insensitively.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", domain.ErrTokenMissing()
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", domain.ErrTokenInvalid()
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrTokenInvalid()
	}
	return token, nil
}
