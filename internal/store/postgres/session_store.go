package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/ndrweb/internal/models"
	"github.com/wolfeidau/ndrweb/internal/store"
)

// SessionStore implements store.SessionStore using PostgreSQL.
type SessionStore struct {
	pool *pgxpool.Pool
}

// NewSessionStore creates a new PostgreSQL-backed session store.
func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{
		pool: pool,
	}
}

// Create creates a new session in the database.
func (s *SessionStore) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (
			session_id, user_id,
			created_at, expires_at, last_used_at,
			user_agent, ip_address
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7::inet
		)
	`

	// Empty IP address is stored as NULL for proper INET handling
	var ipAddress any
	if session.IPAddress != "" {
		ipAddress = session.IPAddress
	}

	_, err := s.pool.Exec(ctx, query,
		session.SessionID,
		session.UserID,
		session.CreatedAt,
		session.ExpiresAt,
		session.LastUsedAt,
		session.UserAgent,
		ipAddress,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", mapPostgresError(err, nil))
	}

	log.Debug().
		Str("session_id", session.SessionID.String()).
		Str("user_id", session.UserID.String()).
		Msg("Created session")

	return nil
}

// Get retrieves a session by ID.
func (s *SessionStore) Get(ctx context.Context, sessionID uuid.UUID) (*models.Session, error) {
	query := `
		SELECT
			session_id, user_id,
			created_at, expires_at, last_used_at,
			user_agent, COALESCE(HOST(ip_address), '')
		FROM sessions
		WHERE session_id = $1
	`

	var session models.Session
	err := s.pool.QueryRow(ctx, query, sessionID).Scan(
		&session.SessionID,
		&session.UserID,
		&session.CreatedAt,
		&session.ExpiresAt,
		&session.LastUsedAt,
		&session.UserAgent,
		&session.IPAddress,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.IsExpired() {
		return nil, store.ErrSessionExpired
	}

	return &session, nil
}

// UpdateLastUsed updates the last_used_at timestamp for a session.
func (s *SessionStore) UpdateLastUsed(ctx context.Context, sessionID uuid.UUID) error {
	query := `
		UPDATE sessions
		SET last_used_at = $2
		WHERE session_id = $1
	`

	result, err := s.pool.Exec(ctx, query, sessionID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update session last_used_at: %w", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrSessionNotFound
	}

	return nil
}

// Delete deletes a session by ID (logout).
func (s *SessionStore) Delete(ctx context.Context, sessionID uuid.UUID) error {
	query := `DELETE FROM sessions WHERE session_id = $1`

	result, err := s.pool.Exec(ctx, query, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrSessionNotFound
	}

	log.Debug().
		Str("session_id", sessionID.String()).
		Msg("Deleted session")

	return nil
}

// DeleteByUser deletes all sessions for a user (logout everywhere).
func (s *SessionStore) DeleteByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `DELETE FROM sessions WHERE user_id = $1`

	result, err := s.pool.Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete sessions by user: %w", err)
	}

	count := int(result.RowsAffected())

	log.Info().
		Str("user_id", userID.String()).
		Int("count", count).
		Msg("Deleted all sessions for user")

	return count, nil
}

// DeleteExpired deletes all expired sessions (cleanup job).
func (s *SessionStore) DeleteExpired(ctx context.Context) (int, error) {
	query := `DELETE FROM sessions WHERE expires_at < $1`

	result, err := s.pool.Exec(ctx, query, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	return int(result.RowsAffected()), nil
}
