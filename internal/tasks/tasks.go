// Package tasks runs the storefront's scheduled maintenance jobs.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher reloads the catalog snapshot.
type Refresher interface {
	Refresh(ctx context.Context) (bool, error)
}

// VisitorCleaner forgets idle rate-limit buckets.
type VisitorCleaner interface {
	Cleanup(maxIdle time.Duration) int
}

// BanReporter writes out the daily ban summary.
type BanReporter interface {
	LogDailySummary(ctx context.Context)
}

type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

func NewScheduler(log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		log:  log.Named("tasks"),
	}
}

// AddCatalogRefresh reloads the catalog on spec, e.g. "@every 5m".
func (s *Scheduler) AddCatalogRefresh(spec string, r Refresher) error {
	return s.add("catalog-refresh", spec, 2*time.Minute, func(ctx context.Context) {
		changed, err := r.Refresh(ctx)
		if err != nil {
			s.log.Warn("scheduled catalog refresh failed", zap.Error(err))
			return
		}
		if changed {
			s.log.Info("catalog refreshed")
		}
	})
}

// AddVisitorCleanup drops rate-limit state for clients idle longer than
// maxIdle, checking every minute.
func (s *Scheduler) AddVisitorCleanup(c VisitorCleaner, maxIdle time.Duration) error {
	return s.add("visitor-cleanup", "@every 1m", time.Minute, func(context.Context) {
		if n := c.Cleanup(maxIdle); n > 0 {
			s.log.Debug("dropped idle visitors", zap.Int("count", n))
		}
	})
}

// AddDailyBanSummary reports the day's bans at 23:59.
func (s *Scheduler) AddDailyBanSummary(b BanReporter) error {
	return s.add("ban-summary", "59 23 * * *", time.Minute, b.LogDailySummary)
}

func (s *Scheduler) add(name, spec string, timeout time.Duration, job func(ctx context.Context)) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		started := time.Now()
		job(ctx)
		s.log.Debug("task finished", zap.String("task", name), zap.Duration("duration", time.Since(started)))
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for %s: %w", spec, name, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs, or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Entries is the number of scheduled jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
