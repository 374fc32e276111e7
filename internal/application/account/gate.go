package account

import (
	"context"
	"strings"

	"github.com/baechuer/account-service/internal/domain"
)

// Gate resolves bearer tokens to live user rows.
type Gate struct {
	tokens TokenCodec
	users  UserStore
}

func NewGate(tokens TokenCodec, users UserStore) *Gate {
	return &Gate{tokens: tokens, users: users}
}

// Authenticate never trusts token claims beyond the subject: flags and email
// come from the store, so a deleted or promoted user is seen as they are now.
func (g *Gate) Authenticate(ctx context.Context, token string) (domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.User{}, domain.ErrTokenMissing()
	}

	id, err := g.tokens.DecodeToken(token)
	if err != nil {
		return domain.User{}, err
	}

	u, err := g.users.GetByID(ctx, id)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return domain.User{}, domain.ErrTokenInvalid()
		}
		return domain.User{}, err
	}
	return u, nil
}

// AuthorizeSuperuser passes the user through unchanged or rejects it.
func AuthorizeSuperuser(u domain.User) (domain.User, error) {
	if !u.IsSuperuser {
		return domain.User{}, domain.ErrSuperuserRequired()
	}
	return u, nil
}
