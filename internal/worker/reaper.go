package worker

import (
	"context"
	"log/slog"
	"time"

	"hopgraph.app/api/common/logger"
	"hopgraph.app/api/internal/store"
)

type ReaperConfig struct {
	Retention time.Duration
	Interval  time.Duration
}

// Reaper deletes terminal jobs older than the retention window. Polling an
// id after its job is reaped looks the same as polling an id that never
// existed.
type Reaper struct {
	jobs store.JobStore
	cfg  ReaperConfig

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewReaper(jobs store.JobStore, cfg ReaperConfig) *Reaper {
	return &Reaper{
		jobs:      jobs,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Run starts the reaper loop. Blocks until Stop() is called.
func (r *Reaper) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "hopgraph.worker.reaper",
	})

	defer close(r.stoppedCh)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "reaper started",
		"interval", r.cfg.Interval,
		"retention", r.cfg.Retention)

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			slog.InfoContext(ctx, "reaper stopping")
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-r.cfg.Retention)
			reaped, err := r.jobs.DeleteTerminalBefore(ctx, cutoff)
			if err != nil {
				slog.ErrorContext(ctx, "reap cycle error", "error", err)
				continue
			}
			if reaped > 0 {
				slog.InfoContext(ctx, "reaped settled jobs", "count", reaped)
			}
		}
	}
}

// Stop signals the reaper to stop gracefully.
func (r *Reaper) Stop() {
	close(r.stopCh)
	<-r.stoppedCh
}
