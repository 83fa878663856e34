/*
scheduler.go - Scheduled pricing cache refresh

PURPOSE:
  Reloads the pricing cache on a cron schedule so edits made to the price
  table in the backend reach the resolver without a restart.

DESIGN:
  - robfig/cron drives the job; the schedule is a standard cron expression or a
    descriptor such as "@every 1h"
  - Each run swaps in a whole new snapshot; readers never see a mix
  - Overlapping runs are skipped, not queued

CONFIGURATION:
  - Schedule: cron expression (default: "@every 1h", from pricing.refresh_schedule)
  - Enabled:  false when the schedule is empty

USAGE:
  scheduler, err := NewRefreshScheduler(cache, "@every 1h", logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: RefreshPricing endpoint (manual refresh)
  - pricing/cache.go: Cache.Refresh
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/warp/billboard-engine/pricing"
	"go.uber.org/zap"
)

// refreshTimeout bounds a single scheduled reload.
const refreshTimeout = 30 * time.Second

// RefreshScheduler periodically reloads the pricing cache.
type RefreshScheduler struct {
	Cache    *pricing.Cache
	Schedule string
	Enabled  bool

	cron    *cron.Cron
	logger  *zap.Logger
	mu      sync.Mutex
	running bool
	lastRun pricing.RefreshResult
	lastAt  time.Time
}

// NewRefreshScheduler validates the schedule and creates a stopped scheduler.
func NewRefreshScheduler(cache *pricing.Cache, schedule string, logger *zap.Logger) (*RefreshScheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rs := &RefreshScheduler{
		Cache:    cache,
		Schedule: schedule,
		Enabled:  schedule != "",
		logger:   logger.Named("refresh-scheduler"),
	}
	if !rs.Enabled {
		return rs, nil
	}

	rs.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := rs.cron.AddFunc(schedule, rs.run); err != nil {
		return nil, err
	}
	return rs, nil
}

// Start begins the scheduler.
func (rs *RefreshScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		rs.logger.Info("disabled, not starting")
		return
	}
	if rs.running {
		return
	}
	rs.cron.Start()
	rs.running = true
	rs.logger.Info("started", zap.String("schedule", rs.Schedule))
}

// Stop stops the scheduler and waits for a running refresh to finish.
func (rs *RefreshScheduler) Stop() {
	rs.mu.Lock()
	if !rs.running {
		rs.mu.Unlock()
		return
	}
	rs.running = false
	rs.mu.Unlock()

	<-rs.cron.Stop().Done()
	rs.logger.Info("stopped")
}

// RunNow refreshes immediately, outside the schedule.
func (rs *RefreshScheduler) RunNow(ctx context.Context) pricing.RefreshResult {
	result := rs.Cache.Refresh(ctx)

	rs.mu.Lock()
	rs.lastRun = result
	rs.lastAt = time.Now()
	rs.mu.Unlock()

	return result
}

// LastRun reports the most recent refresh and when it happened.
func (rs *RefreshScheduler) LastRun() (pricing.RefreshResult, time.Time) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.lastRun, rs.lastAt
}

func (rs *RefreshScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	result := rs.RunNow(ctx)
	if len(result.Failed) > 0 {
		rs.logger.Warn("scheduled refresh incomplete", zap.Strings("failed", result.Failed))
	}
}
