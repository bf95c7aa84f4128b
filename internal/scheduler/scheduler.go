// Package scheduler repeats collection runs on a fixed interval.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/amishk599/jobsift/internal/model"
)

// Poller runs one collection pass.
type Poller interface {
	Poll(ctx context.Context) (model.RunSummary, error)
}

// Scheduler owns the main loop: one run immediately, then one per interval.
type Scheduler struct {
	poller   Poller
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that runs p at the given interval.
func NewScheduler(p Poller, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		poller:   p,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the collection loop. It returns nil when ctx is cancelled
// (graceful shutdown). A failed run is logged and the loop carries on.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "interval", s.interval.String())

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	summary, err := s.poller.Poll(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Error("collection run failed", "error", err)
		return
	}
	s.logger.Info("next collection run scheduled",
		"run_id", summary.RunID,
		"took", time.Since(start).Round(time.Millisecond),
		"next", time.Now().Add(s.interval).Format(time.DateTime),
	)
}
