package utils

import (
	"context"
	"fmt"
	"time"

	"easyhora-backend/logger"

	cron "github.com/robfig/cron/v3"
)

// Scheduler runs named background jobs on cron specs.
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
}

func NewScheduler(loc *time.Location, log *logger.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
		log:  log.WithComponent("scheduler"),
	}
}

// AddJob registers fn under spec. An empty spec disables the job.
func (s *Scheduler) AddJob(name, spec string, fn func(ctx context.Context)) error {
	if spec == "" {
		s.log.Infow("job disabled", "job", name)
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		ctx := logger.WithLogger(context.Background(), s.log.With("job", name))
		fn(ctx)
		s.log.Infow("job finished", "job", name, "duration", time.Since(start))
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	s.log.Infow("job scheduled", "job", name, "spec", spec)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warnw("scheduler stop timed out")
	}
}
