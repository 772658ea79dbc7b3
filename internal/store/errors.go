package store

import (
	"errors"
	"fmt"
)

// Generic error kinds. Entity specific errors wrap one of these so callers can
// match at either granularity with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrInvalidReference = errors.New("invalid reference")
)

// Sentinel errors for entity store operations
var (
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrUserAlreadyExists    = fmt.Errorf("user %w", ErrAlreadyExists)
	ErrOrganizationNotFound = fmt.Errorf("organization %w", ErrNotFound)
	ErrSiteNotFound         = fmt.Errorf("site %w", ErrNotFound)
	ErrRecorderNotFound     = fmt.Errorf("recorder %w", ErrNotFound)
	ErrGrantNotFound        = fmt.Errorf("grant %w", ErrNotFound)
	ErrGrantAlreadyExists   = fmt.Errorf("grant %w", ErrAlreadyExists)
	ErrSessionNotFound      = fmt.Errorf("session %w", ErrNotFound)
	ErrSessionExpired       = errors.New("session expired")
)
