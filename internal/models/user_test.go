package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUser_CheckPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &User{PasswordHash: string(hash)}

	tests := []struct {
		name      string
		candidate string
		expected  bool
	}{
		{name: "correct password", candidate: "correct horse", expected: true},
		{name: "altered password", candidate: "correct horsE", expected: false},
		{name: "extra character", candidate: "correct horse!", expected: false},
		{name: "empty password", candidate: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, user.CheckPassword(tt.candidate))
		})
	}
}

func TestUser_CheckPassword_maxLength(t *testing.T) {
	password := strings.Repeat("a", MaxPasswordLength)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &User{PasswordHash: string(hash)}

	tests := []struct {
		name      string
		candidate string
		expected  bool
	}{
		{name: "exact password", candidate: password, expected: true},
		{name: "one extra byte", candidate: password + "x", expected: false},
		{name: "long suffix", candidate: password + "-totally-different", expected: false},
		{name: "one byte short", candidate: password[:MaxPasswordLength-1], expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, user.CheckPassword(tt.candidate))
		})
	}
}

func TestUser_CheckPassword_malformedHash(t *testing.T) {
	require.False(t, (&User{PasswordHash: "not-a-bcrypt-hash"}).CheckPassword("anything"))
	require.False(t, (&User{}).CheckPassword(""))

	var nilUser *User
	require.False(t, nilUser.CheckPassword("anything"))
}

func TestSession_IsExpired(t *testing.T) {
	require.True(t, (&Session{ExpiresAt: time.Now().Add(-time.Minute)}).IsExpired())
	require.False(t, (&Session{ExpiresAt: time.Now().Add(time.Minute)}).IsExpired())
}
