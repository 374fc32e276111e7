package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MinPasswordLength is counted in characters, not bytes.
const MinPasswordLength = 6

// User is the single account entity.
// Email and PasswordHash are empty until the account is registered.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	IsVerified   bool
	IsSuperuser  bool
	CreatedAt    time.Time
}

func (u User) HasEmail() bool { return u.Email != "" }

func (u User) HasPassword() bool { return u.PasswordHash != "" }

// DisplayName is the email when present, otherwise the id.
func (u User) DisplayName() string {
	if u.HasEmail() {
		return u.Email
	}
	return u.ID.String()
}

// NormalizeEmail trims and lower-cases an address before storage or lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrWeakPassword("min length 6")
	}
	return nil
}

// Identifier is either a user id or an email address.
type Identifier struct {
	ID    uuid.UUID
	Email string
}

// ParseIdentifier treats anything that parses as a UUID as an id and the rest as an email.
func ParseIdentifier(raw string) Identifier {
	raw = strings.TrimSpace(raw)
	if id, err := uuid.Parse(raw); err == nil {
		return Identifier{ID: id}
	}
	return Identifier{Email: NormalizeEmail(raw)}
}

func (i Identifier) IsID() bool { return i.ID != uuid.Nil }

func (i Identifier) String() string {
	if i.IsID() {
		return i.ID.String()
	}
	return i.Email
}
