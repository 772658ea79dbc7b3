// Package maintenance runs scheduled housekeeping jobs.
package maintenance

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/ndrweb/internal/telemetry"
)

// ExpiredSessionDeleter removes sessions past their expiry.
type ExpiredSessionDeleter interface {
	DeleteExpired(ctx context.Context) (int, error)
}

// SessionCleanup periodically deletes expired login sessions.
type SessionCleanup struct {
	sessions ExpiredSessionDeleter
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	mu       sync.Mutex
	running  bool
}

// NewSessionCleanup creates a cleanup job run on schedule, a standard cron spec
// or descriptor such as "@hourly".
func NewSessionCleanup(sessions ExpiredSessionDeleter, schedule string) *SessionCleanup {
	return &SessionCleanup{
		sessions: sessions,
		schedule: schedule,
		timeout:  time.Minute,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// Start begins running the cleanup on its schedule.
func (s *SessionCleanup) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("session cleanup already running")
	}

	if _, err := s.cron.AddFunc(s.schedule, s.RunNow); err != nil {
		return err
	}

	s.cron.Start()
	s.running = true

	log.Info().Str("schedule", s.schedule).Msg("Session cleanup started")

	return nil
}

// Stop stops the scheduler. The returned context is done once a running job finishes.
func (s *SessionCleanup) Stop() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}

	s.running = false
	log.Info().Msg("Stopping session cleanup")
	return s.cron.Stop()
}

// RunNow deletes expired sessions immediately.
func (s *SessionCleanup) RunNow() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	deleted, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Session cleanup failed")
		return
	}

	telemetry.GetMetrics().SessionsExpiredDeleted.Add(ctx, int64(deleted))

	if deleted > 0 {
		log.Info().Int("count", deleted).Msg("Deleted expired sessions")
	}
}
