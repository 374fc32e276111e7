package security

import (
	"errors"

	"github.com/baechuer/account-service/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher is the credential codec for stored password hashes.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns a salted bcrypt hash; two calls with the same password differ.
func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	switch {
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		return "", domain.ErrPasswordTooLong()
	case err != nil:
		return "", domain.ErrHashFailed(err)
	}
	return string(b), nil
}

// Verify reports whether password matches hash. An empty or malformed hash
// never matches, so password-less accounts cannot log in.
func (h *BcryptHasher) Verify(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
