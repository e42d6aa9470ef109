// Package scheduler runs the periodic maintenance of the internship catalog.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonathan/smartmatch/internal/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Expirer deactivates internships whose application deadline has passed.
type Expirer interface {
	DeactivateExpired(ctx context.Context, asOf time.Time) (int64, error)
}

// Invalidator drops cached catalog snapshots.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Scheduler wraps robfig/cron and runs the expiry job.
type Scheduler struct {
	cron        *cron.Cron
	expirer     Expirer
	invalidator Invalidator
	spec        string // cron spec, e.g. "@every 1h"
	logger      *zap.Logger
	now         func() time.Time

	wg sync.WaitGroup
}

// New creates a Scheduler. invalidator may be nil when no cache is in use.
func New(expirer Expirer, invalidator Invalidator, spec string, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		expirer:     expirer,
		invalidator: invalidator,
		spec:        spec,
		logger:      logger.OrNop(log),
		now:         time.Now,
	}
}

// Start registers the job and starts cron. The job also runs once right away
// so stale entries are dropped without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("spec", s.spec))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.RunOnce(ctx)
	}()
	return nil
}

// Stop stops cron and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

// RunOnce deactivates expired internships and invalidates the catalog cache
// when anything changed. It returns the number of deactivated internships.
func (s *Scheduler) RunOnce(ctx context.Context) int64 {
	n, err := s.expirer.DeactivateExpired(ctx, s.now())
	if err != nil {
		s.logger.Error("expiry cycle failed", zap.Error(err))
		return 0
	}
	s.logger.Info("expiry cycle complete", zap.Int64("deactivated", n))

	if n > 0 && s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx); err != nil {
			s.logger.Warn("failed to invalidate catalog cache", zap.Error(err))
		}
	}
	return n
}
