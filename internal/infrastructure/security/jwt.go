package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/baechuer/account-service/internal/domain"
)

// JWTCodec issues and decodes HS256 access tokens.
type JWTCodec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTCodec(secret string, issuer string, ttl time.Duration) *JWTCodec {
	return &JWTCodec{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Email is a pointer so anonymous users encode as null.
type accessClaims struct {
	Email       *string `json:"email"`
	IsVerified  bool    `json:"is_verified"`
	IsSuperuser bool    `json:"is_superuser"`
	jwt.RegisteredClaims
}

func (c *JWTCodec) IssueToken(u domain.User) (string, error) {
	now := c.now()

	var email *string
	if u.HasEmail() {
		e := u.Email
		email = &e
	}

	claims := accessClaims{
		Email:       email,
		IsVerified:  u.IsVerified,
		IsSuperuser: u.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

// DecodeToken returns the subject of a valid token. Claims other than sub are
// informational; callers must re-read the user.
func (c *JWTCodec) DecodeToken(token string) (uuid.UUID, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &accessClaims{}, func(t *jwt.Token) (any, error) {
		// prevent alg confusion
		if t.Method != jwt.SigningMethodHS256 {
			return nil, domain.ErrTokenInvalid()
		}
		return c.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, domain.ErrTokenExpired()
		}
		return uuid.Nil, domain.ErrTokenInvalid()
	}

	claims, ok := parsed.Claims.(*accessClaims)
	if !ok || !parsed.Valid {
		return uuid.Nil, domain.ErrTokenInvalid()
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, domain.ErrTokenInvalid()
	}
	return id, nil
}
