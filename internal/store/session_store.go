package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/wolfeidau/ndrweb/internal/models"
)

// SessionStore defines the interface for server-side login sessions.
type SessionStore interface {
	// Create creates a new session.
	Create(ctx context.Context, session *models.Session) error

	// Get retrieves a session by ID.
	// Returns ErrSessionNotFound if missing and ErrSessionExpired if past its expiry.
	Get(ctx context.Context, sessionID uuid.UUID) (*models.Session, error)

	// UpdateLastUsed updates the last used timestamp for a session.
	UpdateLastUsed(ctx context.Context, sessionID uuid.UUID) error

	// Delete deletes a session by ID (logout).
	Delete(ctx context.Context, sessionID uuid.UUID) error

	// DeleteByUser deletes all sessions for a user (logout everywhere).
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int, error)

	// DeleteExpired deletes all expired sessions (cleanup job).
	DeleteExpired(ctx context.Context) (int, error)
}
