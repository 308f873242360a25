package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// SessionPurger is the one piece of storage the scheduler touches.
type SessionPurger interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// Scheduler runs the periodic expired-session sweep. Token issuance
// also sweeps opportunistically; nothing is correct only because this
// job ran.
type Scheduler struct {
	cron     *cron.Cron
	sessions SessionPurger
	interval time.Duration
	log      zerolog.Logger
}

func NewScheduler(sessions SessionPurger, interval time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		sessions: sessions,
		interval: interval,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if s.sessions == nil {
		return nil
	}

	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, s.purgeExpiredSessions); err != nil {
		return fmt.Errorf("schedule session purge: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits for an in-flight sweep to finish,
// bounded at five seconds.
func (s *Scheduler) Stop() {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out waiting for running jobs")
	}
}

func (s *Scheduler) purgeExpiredSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("session purge failed")
		return
	}
	if removed > 0 {
		s.log.Info().Int64("removed", removed).Msg("expired sessions purged")
	}
}
