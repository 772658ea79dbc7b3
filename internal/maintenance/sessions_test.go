package maintenance

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/ndrweb/internal/models"
	"github.com/wolfeidau/ndrweb/internal/store"
	"github.com/wolfeidau/ndrweb/internal/store/memory"
)

type countingDeleter struct {
	calls atomic.Int32
	err   error
}

func (c *countingDeleter) DeleteExpired(ctx context.Context) (int, error) {
	c.calls.Add(1)
	return 0, c.err
}

func TestSessionCleanup_RunNow(t *testing.T) {
	ctx := context.Background()
	sessions := memory.NewSessionStore()

	now := time.Now()
	live := &models.Session{SessionID: uuid.New(), UserID: uuid.New(), CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	expired := &models.Session{SessionID: uuid.New(), UserID: uuid.New(), CreatedAt: now, ExpiresAt: now.Add(-time.Hour)}
	require.NoError(t, sessions.Create(ctx, live))
	require.NoError(t, sessions.Create(ctx, expired))

	NewSessionCleanup(sessions, "@hourly").RunNow()

	_, err := sessions.Get(ctx, expired.SessionID)
	require.ErrorIs(t, err, store.ErrSessionNotFound)

	_, err = sessions.Get(ctx, live.SessionID)
	require.NoError(t, err)
}

func TestSessionCleanup_RunNow_error(t *testing.T) {
	deleter := &countingDeleter{err: errors.New("database unavailable")}

	require.NotPanics(t, NewSessionCleanup(deleter, "@hourly").RunNow)
	require.Equal(t, int32(1), deleter.calls.Load())
}

func TestSessionCleanup_StartStop(t *testing.T) {
	deleter := &countingDeleter{}
	job := NewSessionCleanup(deleter, "@every 10ms")

	require.NoError(t, job.Start())
	require.Error(t, job.Start())

	require.Eventually(t, func() bool {
		return deleter.calls.Load() > 0
	}, 5*time.Second, 10*time.Millisecond)

	<-job.Stop().Done()

	// stopping twice is harmless
	<-job.Stop().Done()
}

func TestSessionCleanup_invalidSchedule(t *testing.T) {
	require.Error(t, NewSessionCleanup(&countingDeleter{}, "not a schedule").Start())
}
