package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wolfeidau/ndrweb/internal/models"
	"github.com/wolfeidau/ndrweb/internal/store"
)

// SessionStore implements store.SessionStore using in-memory storage.
// This implementation is for testing only - data is lost on restart.
type SessionStore struct {
	mu sync.RWMutex

	sessions       map[uuid.UUID]*models.Session // session_id -> Session
	sessionsByUser map[uuid.UUID][]uuid.UUID     // user_id -> []session_id
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions:       make(map[uuid.UUID]*models.Session),
		sessionsByUser: make(map[uuid.UUID][]uuid.UUID),
	}
}

// Create creates a new session in memory.
func (s *SessionStore) Create(ctx context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.SessionID]; exists {
		return store.ErrAlreadyExists
	}

	clone := *session
	s.sessions[session.SessionID] = &clone
	s.sessionsByUser[session.UserID] = append(s.sessionsByUser[session.UserID], session.SessionID)

	return nil
}

// Get retrieves a session by ID, rejecting expired sessions.
func (s *SessionStore) Get(ctx context.Context, sessionID uuid.UUID) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		return nil, store.ErrSessionNotFound
	}

	if session.IsExpired() {
		return nil, store.ErrSessionExpired
	}

	clone := *session
	return &clone, nil
}

// UpdateLastUsed updates the last used timestamp for a session.
func (s *SessionStore) UpdateLastUsed(ctx context.Context, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		return store.ErrSessionNotFound
	}

	session.LastUsedAt = time.Now()
	return nil
}

// Delete deletes a session by ID (logout).
func (s *SessionStore) Delete(ctx context.Context, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		return store.ErrSessionNotFound
	}

	s.remove(session)
	return nil
}

// DeleteByUser deletes all sessions for a user (logout everywhere).
func (s *SessionStore) DeleteByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessionIDs := s.sessionsByUser[userID]
	for _, sessionID := range sessionIDs {
		delete(s.sessions, sessionID)
	}
	delete(s.sessionsByUser, userID)

	return len(sessionIDs), nil
}

// DeleteExpired deletes all expired sessions (cleanup job).
func (s *SessionStore) DeleteExpired(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	var expired []*models.Session
	for _, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			expired = append(expired, session)
		}
	}

	for _, session := range expired {
		s.remove(session)
	}

	return len(expired), nil
}

// remove drops a session and its user index entry. Callers hold the write lock.
func (s *SessionStore) remove(session *models.Session) {
	delete(s.sessions, session.SessionID)

	remaining := slices.DeleteFunc(s.sessionsByUser[session.UserID], func(id uuid.UUID) bool {
		return id == session.SessionID
	})
	if len(remaining) == 0 {
		delete(s.sessionsByUser, session.UserID)
		return
	}
	s.sessionsByUser[session.UserID] = remaining
}
