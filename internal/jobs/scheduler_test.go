package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakePurger struct {
	calls   int
	removed int64
	err     error
}

func (f *fakePurger) DeleteExpired(_ context.Context) (int64, error) {
	f.calls++
	return f.removed, f.err
}

func TestPurgeExpiredSessions(t *testing.T) {
	purger := &fakePurger{removed: 3}
	s := NewScheduler(purger, time.Hour, zerolog.Nop())

	s.purgeExpiredSessions()
	if purger.calls != 1 {
		t.Fatalf("DeleteExpired called %d times, want 1", purger.calls)
	}

	// A failing sweep is logged, never panics; the next tick retries.
	purger.err = errors.New("connection refused")
	s.purgeExpiredSessions()
	if purger.calls != 2 {
		t.Fatalf("DeleteExpired called %d times, want 2", purger.calls)
	}
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(&fakePurger{}, time.Hour, zerolog.Nop())
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Stop must return once cron confirms no job is running, well
	// inside its internal bound.
	finished := make(chan struct{})
	go func() {
		s.Stop()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return with no jobs in flight")
	}
}

func TestStartWithoutStore(t *testing.T) {
	s := NewScheduler(nil, time.Hour, zerolog.Nop())
	if err := s.Start(); err != nil {
		t.Fatalf("Start with nil store: %v", err)
	}
	s.Stop()
}
