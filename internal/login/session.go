package login

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"
	httpmiddleware "github.com/wolfeidau/ndrweb/internal/http"
	"github.com/wolfeidau/ndrweb/internal/models"
	"github.com/wolfeidau/ndrweb/internal/store"
	"github.com/wolfeidau/ndrweb/internal/telemetry"
)

const (
	// CookieName is the name of the signed session cookie.
	CookieName = "ndrweb_session"

	// sessionIDKey holds the server-side session ID inside the cookie.
	sessionIDKey = "session_id"
)

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrInactiveUser   = errors.New("user is inactive")
)

type contextKey string

const (
	userContextKey    contextKey = "user"
	sessionContextKey contextKey = "session"
)

// UserFromContext returns the authenticated user placed on the context by RequireAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

// SessionFromContext returns the server-side session placed on the context by RequireAuth.
func SessionFromContext(ctx context.Context) (*models.Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(*models.Session)
	return session, ok
}

// WithUser returns a copy of ctx carrying user and session.
func WithUser(ctx context.Context, user *models.User, session *models.Session) context.Context {
	ctx = context.WithValue(ctx, userContextKey, user)
	return context.WithValue(ctx, sessionContextKey, session)
}

func (h *Handler) cookie(r *http.Request) *sessions.Session {
	// A cookie that fails to decode (rotated secret, tampering) yields a fresh session.
	session, err := h.cookies.Get(r, CookieName)
	if err != nil {
		log.Debug().Err(err).Msg("Discarding undecodable session cookie")
	}
	return session
}

// AddFlash queues a message for display on the next rendered page.
func (h *Handler) AddFlash(w http.ResponseWriter, r *http.Request, message string) {
	session := h.cookie(r)
	session.AddFlash(message)
	if err := session.Save(r, w); err != nil {
		log.Error().Err(err).Msg("Failed to save flash message")
	}
}

// Flashes returns and clears the pending flash messages. It writes a cookie so
// it must run before the response body.
func (h *Handler) Flashes(w http.ResponseWriter, r *http.Request) []string {
	session := h.cookie(r)

	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}

	if err := session.Save(r, w); err != nil {
		log.Error().Err(err).Msg("Failed to clear flash messages")
	}

	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}

// startSession creates a server-side session for user and binds it to the cookie.
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, user *models.User) error {
	sessionID, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate session id: %w", err)
	}

	now := time.Now()
	session := &models.Session{
		SessionID:  sessionID,
		UserID:     user.UserID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(h.sessionTTL),
		LastUsedAt: now,
		UserAgent:  r.UserAgent(),
		IPAddress:  httpmiddleware.ClientIPFromContext(r.Context()),
	}

	if err := h.sessions.Create(r.Context(), session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	cookie := h.cookie(r)
	cookie.Values[sessionIDKey] = sessionID.String()
	if err := cookie.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session cookie: %w", err)
	}

	telemetry.GetMetrics().SessionsCreated.Add(r.Context(), 1)

	return nil
}

// endSession deletes the server-side session and clears its ID from the cookie.
// The cookie itself is kept so flash messages survive logout.
func (h *Handler) endSession(w http.ResponseWriter, r *http.Request) {
	cookie := h.cookie(r)

	if raw, ok := cookie.Values[sessionIDKey].(string); ok {
		if sessionID, err := uuid.Parse(raw); err == nil {
			err := h.sessions.Delete(r.Context(), sessionID)
			if err != nil && !errors.Is(err, store.ErrSessionNotFound) {
				log.Error().Err(err).Str("session_id", raw).Msg("Failed to delete session")
			}
		}
	}

	delete(cookie.Values, sessionIDKey)
	if err := cookie.Save(r, w); err != nil {
		log.Error().Err(err).Msg("Failed to clear session cookie")
	}
}

// Authenticate resolves the request's cookie to an active user and a live session.
func (h *Handler) Authenticate(r *http.Request) (*models.User, *models.Session, error) {
	raw, ok := h.cookie(r).Values[sessionIDKey].(string)
	if !ok {
		return nil, nil, ErrInvalidSession
	}

	sessionID, err := uuid.Parse(raw)
	if err != nil {
		return nil, nil, ErrInvalidSession
	}

	ctx := r.Context()

	session, err := h.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	user, err := h.accounts.ReadByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, err
	}

	if !user.IsActive {
		return nil, nil, ErrInactiveUser
	}

	if err := h.sessions.UpdateLastUsed(ctx, session.SessionID); err != nil {
		log.Warn().Err(err).Str("session_id", raw).Msg("Failed to update session last used")
	}

	return user, session, nil
}
