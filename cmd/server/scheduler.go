package main

import (
	"log/slog"
	"time"

	"github.com/reclaimhq/reclaim/internal/enrichment"
	"github.com/reclaimhq/reclaim/internal/tracker"
	"github.com/reclaimhq/reclaim/pkg/lifecycle"
)

// scheduler drives the enrichment worker on a fixed poll interval. Each tick
// checks for unprocessed changes and runs a full worker pass when any exist,
// so a burst of inserts is drained in one invocation rather than one per tick.
type scheduler struct {
	rt       *enrichment.Runtime
	tracker  tracker.System
	interval time.Duration
	logger   *slog.Logger
}

func newScheduler(
	rt *enrichment.Runtime,
	trk tracker.System,
	interval time.Duration,
	logger *slog.Logger,
) *scheduler {
	return &scheduler{
		rt:       rt,
		tracker:  trk,
		interval: interval,
		logger:   logger.With("system", "scheduler"),
	}
}

func (s *scheduler) Start(lc *lifecycle.Coordinator) {
	done := make(chan struct{})

	go func() {
		defer close(done)

		s.logger.Info("scheduler started", "interval", s.interval)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-lc.Context().Done():
				return
			case <-ticker.C:
				s.tick(lc)
			}
		}
	}()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		<-done
		s.logger.Info("scheduler stopped")
	})
}

func (s *scheduler) tick(lc *lifecycle.Coordinator) {
	ctx := lc.Context()

	pending, err := s.tracker.HasPending(ctx)
	if err != nil {
		s.logger.Error("pending check failed", "error", err)
		return
	}
	if !pending {
		return
	}

	summary, err := enrichment.NewWorker(s.rt).Run(ctx)
	if err != nil {
		s.logger.Error("enrichment pass failed", "error", err)
		return
	}

	s.logger.Info(
		"enrichment pass complete",
		"polled", summary.Polled,
		"enriched", summary.Enriched,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"quarantined", summary.Quarantined,
	)
}
