package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLength is the longest password bcrypt can hash. Anything past
// this many bytes would be ignored by the hash.
const MaxPasswordLength = 72

// User is an account that can log in to the website.
// Only the bcrypt hash of the password is ever stored.
type User struct {
	UserID       uuid.UUID // UUIDv7
	Username     string
	RealName     string
	Email        string
	PasswordHash string

	IsActive    bool
	IsSuperuser bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CheckPassword reports whether candidate matches the stored password hash.
// A malformed or empty hash never matches, nor does a candidate longer than
// MaxPasswordLength.
func (u *User) CheckPassword(candidate string) bool {
	if u == nil || u.PasswordHash == "" || len(candidate) > MaxPasswordLength {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate)) == nil
}
