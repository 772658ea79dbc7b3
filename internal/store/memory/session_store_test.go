package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/ndrweb/internal/models"
	"github.com/wolfeidau/ndrweb/internal/store"
)

func newTestSession(userID uuid.UUID, expiresIn time.Duration) *models.Session {
	now := time.Now()
	return &models.Session{
		SessionID:  uuid.New(),
		UserID:     userID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(expiresIn),
		LastUsedAt: now,
	}
}

func TestSessionStore_lifecycle(t *testing.T) {
	ctx := context.Background()
	st := NewSessionStore()

	session := newTestSession(uuid.New(), time.Hour)
	require.NoError(t, st.Create(ctx, session))
	require.ErrorIs(t, st.Create(ctx, session), store.ErrAlreadyExists)

	got, err := st.Get(ctx, session.SessionID)
	require.NoError(t, err)
	require.Equal(t, session.UserID, got.UserID)

	require.NoError(t, st.UpdateLastUsed(ctx, session.SessionID))

	require.NoError(t, st.Delete(ctx, session.SessionID))

	_, err = st.Get(ctx, session.SessionID)
	require.ErrorIs(t, err, store.ErrSessionNotFound)
	require.ErrorIs(t, st.Delete(ctx, session.SessionID), store.ErrSessionNotFound)
	require.ErrorIs(t, st.UpdateLastUsed(ctx, session.SessionID), store.ErrSessionNotFound)
}

func TestSessionStore_expired(t *testing.T) {
	ctx := context.Background()
	st := NewSessionStore()

	userID := uuid.New()
	live := newTestSession(userID, time.Hour)
	expired := newTestSession(userID, -time.Hour)

	require.NoError(t, st.Create(ctx, live))
	require.NoError(t, st.Create(ctx, expired))

	_, err := st.Get(ctx, expired.SessionID)
	require.ErrorIs(t, err, store.ErrSessionExpired)

	count, err := st.DeleteExpired(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	_, err = st.Get(ctx, expired.SessionID)
	require.ErrorIs(t, err, store.ErrSessionNotFound)

	_, err = st.Get(ctx, live.SessionID)
	require.NoError(t, err)
}

func TestSessionStore_DeleteByUser(t *testing.T) {
	ctx := context.Background()
	st := NewSessionStore()

	userID := uuid.New()
	require.NoError(t, st.Create(ctx, newTestSession(userID, time.Hour)))
	require.NoError(t, st.Create(ctx, newTestSession(userID, time.Hour)))

	other := newTestSession(uuid.New(), time.Hour)
	require.NoError(t, st.Create(ctx, other))

	count, err := st.DeleteByUser(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	count, err = st.DeleteByUser(ctx, userID)
	require.NoError(t, err)
	require.Zero(t, count)

	_, err = st.Get(ctx, other.SessionID)
	require.NoError(t, err)
}
