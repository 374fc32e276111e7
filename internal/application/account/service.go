package account

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/baechuer/account-service/internal/domain"
)

const TokenTypeBearer = "bearer"

type Service struct {
	users  UserStore
	admin  UserAdminStore // nil when the store has no operational extension
	hasher PasswordHasher
	tokens TokenCodec

	audit AuditFunc

	decoyOnce sync.Once
	decoy     string
}

func NewService(users UserStore, hasher PasswordHasher, tokens TokenCodec) *Service {
	admin, _ := users.(UserAdminStore)
	return &Service{
		users:  users,
		admin:  admin,
		hasher: hasher,
		tokens: tokens,
		audit:  func(context.Context, string, map[string]string) {},
	}
}

// AuthResult is returned by every workflow that hands out a token.
type AuthResult struct {
	User        domain.User
	AccessToken string
	TokenType   string
}

func (s *Service) WithAudit(fn AuditFunc) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

func (s *Service) issue(u domain.User) (AuthResult, error) {
	tok, err := s.tokens.IssueToken(u)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: u, AccessToken: tok, TokenType: TokenTypeBearer}, nil
}

// decoyHash is a hash at the configured cost that no login can match. Login
// verifies against it when there is no real hash, so an unknown email costs
// the same bcrypt work as a wrong password.
func (s *Service) decoyHash() string {
	s.decoyOnce.Do(func() {
		s.decoy, _ = s.hasher.Hash("decoy-" + uuid.NewString())
	})
	return s.decoy
}

// hashPassword checks the length before spending any bcrypt work.
func (s *Service) hashPassword(password string) (string, error) {
	if err := domain.ValidatePassword(password); err != nil {
		return "", err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			return "", err
		}
		return "", domain.ErrHashFailed(err)
	}
	return hash, nil
}
