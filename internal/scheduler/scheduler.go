// Package scheduler runs periodic background jobs on cron expressions with
// seconds precision.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hourly-labs/timetrack-backend/internal/logging"
)

// Job is one unit of background work.
type Job func(ctx context.Context) error

type Scheduler struct {
	cron   *cron.Cron
	logger logging.Logger
}

func NewScheduler(logger logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Scheduler{
		// a run still in progress makes the next tick a no-op
		cron:   cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger: logger,
	}
}

// Add registers job under name on the given six-field cron expression.
func (s *Scheduler) Add(expr, name string, job Job) error {
	_, err := s.cron.AddFunc(expr, func() {
		s.RunOnce(context.Background(), name, job)
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	s.logger.Info(context.Background(), "job scheduled", "job", name, "schedule", expr)
	return nil
}

// RunOnce runs job immediately and logs the outcome.
func (s *Scheduler) RunOnce(ctx context.Context, name string, job Job) error {
	start := time.Now()
	err := job(ctx)
	if err != nil {
		s.logger.Error(ctx, "job failed", "job", name, "error", err, "took", time.Since(start).String())
		return err
	}
	s.logger.Info(ctx, "job finished", "job", name, "took", time.Since(start).String())
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs or ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
