// Package syncjob reloads the project snapshot on a schedule so changes made
// by other writers show up without a local mutation.
package syncjob

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher reloads a cached snapshot from its source.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type Scheduler struct {
	refresher Refresher
	logger    *zap.Logger
	timeout   time.Duration
	cron      *cron.Cron
}

// NewScheduler creates a scheduler. timeout bounds each run; zero means none.
func NewScheduler(refresher Refresher, timeout time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		refresher: refresher,
		logger:    logger,
		timeout:   timeout,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// Start registers the refresh job under spec (six fields, seconds first) and
// starts the scheduler. An empty spec leaves the scheduler idle.
func (s *Scheduler) Start(spec string) error {
	if spec == "" {
		s.logger.Info("periodic refresh disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(spec, s.runRefresh); err != nil {
		return fmt.Errorf("schedule refresh %q: %w", spec, err)
	}

	s.cron.Start()
	s.logger.Info("periodic refresh scheduled", zap.String("schedule", spec))
	return nil
}

// Stop halts the scheduler. The returned context is done once a running
// refresh has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) runRefresh() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := s.refresher.Refresh(ctx); err != nil {
		s.logger.Warn("periodic refresh failed", zap.Error(err))
		return
	}
	s.logger.Debug("periodic refresh done", zap.Duration("took", time.Since(start)))
}
