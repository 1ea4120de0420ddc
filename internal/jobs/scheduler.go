// Package jobs runs background work on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"lifequest/internal/engine"
)

// Roller is the daily rollover the scheduler drives.
type Roller interface {
	Rollover(ctx context.Context) (*engine.RolloverResult, error)
}

type Scheduler struct {
	cron     *cron.Cron
	roller   Roller
	schedule string
}

// NewScheduler creates a scheduler that evaluates schedule in loc.
func NewScheduler(roller Roller, schedule string, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		roller:   roller,
		schedule: schedule,
	}
}

// Start runs one catch-up rollover, then registers the daily job.
func (s *Scheduler) Start(ctx context.Context) error {
	s.runRollover(ctx)

	if _, err := s.cron.AddFunc(s.schedule, func() { s.runRollover(ctx) }); err != nil {
		return fmt.Errorf("rollover schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	log.WithField("schedule", s.schedule).Info("scheduler started")
	return nil
}

func (s *Scheduler) runRollover(ctx context.Context) {
	res, err := s.roller.Rollover(ctx)
	if err != nil {
		log.WithError(err).Error("[CRON] rollover failed")
		return
	}
	if !res.Changed() {
		log.Debug("[CRON] rollover: nothing to decay")
	}
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("scheduler stopped")
}
