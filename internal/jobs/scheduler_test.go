package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lifequest/internal/engine"
)

type fakeRoller struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeRoller) Rollover(context.Context) (*engine.RolloverResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &engine.RolloverResult{}, nil
}

func (f *fakeRoller) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestStartRunsCatchUpRollover(t *testing.T) {
	r := &fakeRoller{}
	s := NewScheduler(r, "0 0 * * *", time.UTC)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	if got := r.count(); got != 1 {
		t.Fatalf("rollover calls=%d, want 1", got)
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := NewScheduler(&fakeRoller{}, "every day", time.UTC)
	if err := s.Start(context.Background()); err == nil {
		t.Fatalf("expected error for a bad cron expression")
	}
}

func TestRolloverErrorsAreNotFatal(t *testing.T) {
	r := &fakeRoller{err: errors.New("disk gone")}
	s := NewScheduler(r, "@every 1h", time.UTC)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
	if got := r.count(); got != 1 {
		t.Fatalf("rollover calls=%d, want 1", got)
	}
}
