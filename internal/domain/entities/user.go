package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is an account owning topics.
type User struct {
	ID             uuid.UUID
	Name           string
	Email          string
	PasswordHash   string
	Timezone       string // IANA name or UTC offset, see ParseTimezoneLocation
	TelegramChatID *int64 // set once the user links the reminder bot
	CreatedAt      time.Time
}

// NewUser creates a user with a normalized email.
func NewUser(name, email, passwordHash, timezone string, now time.Time) *User {
	return &User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Timezone:     timezone,
		CreatedAt:    now,
	}
}

// NormalizeEmail lower-cases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Location resolves the user's timezone, falling back to fallback when the
// stored value cannot be parsed.
func (u *User) Location(fallback *time.Location) *time.Location {
	loc, err := ParseTimezoneLocation(u.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}

// LocalNow returns now in the user's timezone.
func (u *User) LocalNow(now time.Time, fallback *time.Location) time.Time {
	return now.In(u.Location(fallback))
}
