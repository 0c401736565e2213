package enrichment

import (
	"context"
	"fmt"
	"sync"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
	"golang.org/x/sync/errgroup"

	"github.com/reclaimhq/reclaim/internal/tracker"
)

// Summary reports the outcome of one worker invocation.
type Summary struct {
	Polled      int `json:"polled"`
	Enriched    int `json:"enriched"`
	Skipped     int `json:"skipped"`
	Failed      int `json:"failed"`
	Quarantined int `json:"quarantined"`
}

type outcome struct {
	enriched    bool
	skipped     bool
	failed      bool
	quarantined bool
}

// Worker drains the pending change log through the enrichment graph.
type Worker struct {
	rt *Runtime
}

// NewWorker creates an enrichment worker over the given runtime.
func NewWorker(rt *Runtime) *Worker {
	return &Worker{rt: rt}
}

// Run polls for pending found items and enriches them with bounded
// parallelism. Model and blob failures are isolated per record and fed to
// the failure ledger; the checkpoint advance is clamped below any failed
// record, so it stays pending and is retried on later runs until it commits
// or quarantines. Record-store failures abort the invocation with the
// checkpoint unadvanced, so the batch is simply re-polled later.
func (w *Worker) Run(ctx context.Context) (Summary, error) {
	position, err := w.rt.Tracker.Position(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("worker: %w", err)
	}

	pending, err := w.rt.Tracker.Poll(ctx, position)
	if err != nil {
		return Summary{}, fmt.Errorf("worker: %w", err)
	}

	summary := Summary{Polled: len(pending)}
	if len(pending) == 0 {
		return summary, nil
	}

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.rt.Options.Parallelism)

	for _, item := range pending {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			result, err := w.process(gctx, item)
			if err != nil {
				return err
			}

			mu.Lock()
			applyOutcome(&summary, result)
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summary, fmt.Errorf("worker: %w", err)
	}

	w.rt.Logger.Info(
		"enrichment run complete",
		"polled", summary.Polled,
		"enriched", summary.Enriched,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"quarantined", summary.Quarantined,
	)

	return summary, nil
}

// process enriches a single pending item. Returned errors are record-store
// or cancellation failures that abort the whole invocation; everything else
// lands in the failure ledger and is reported through the outcome.
func (w *Worker) process(ctx context.Context, item tracker.PendingItem) (outcome, error) {
	quarantined, err := w.rt.Ledger.Quarantined(ctx, item.Filename)
	if err != nil {
		return outcome{}, err
	}
	if quarantined {
		w.rt.Logger.Debug("skipping quarantined item", "filename", item.Filename)
		// Quarantined records are parked until an operator clears the ledger
		// row; move the checkpoint past them so the pending gate can settle.
		if err := w.rt.Enriched.Checkpoint(ctx, advanceHook(w.rt, item.Seq)); err != nil {
			return outcome{}, err
		}
		return outcome{skipped: true}, nil
	}

	exists, err := w.rt.Enriched.Exists(ctx, item.Filename)
	if err != nil {
		return outcome{}, err
	}
	if exists {
		// Already enriched by an overlapping batch; move the checkpoint
		// past it without any model calls.
		if err := w.rt.Enriched.Checkpoint(ctx, advanceHook(w.rt, item.Seq)); err != nil {
			return outcome{}, err
		}
		return outcome{skipped: true}, nil
	}

	graph, err := buildGraph(w.rt)
	if err != nil {
		return outcome{}, fmt.Errorf("build graph: %w", err)
	}

	initial := state.New(nil)
	initial = initial.Set(KeyItem, item)

	final, err := graph.Execute(ctx, initial)
	if err != nil {
		if ctx.Err() != nil {
			return outcome{}, err
		}
		if stageOf(err) == StagePersist {
			return outcome{}, err
		}
		return w.recordFailure(ctx, item, err)
	}

	inserted := false
	if val, ok := final.Get(KeyInserted); ok {
		inserted, _ = val.(bool)
	}

	if inserted {
		return outcome{enriched: true}, nil
	}
	return outcome{skipped: true}, nil
}

func (w *Worker) recordFailure(ctx context.Context, item tracker.PendingItem, cause error) (outcome, error) {
	stage := stageOf(cause)
	w.rt.Logger.Error(
		"enrichment failed",
		"filename", item.Filename,
		"stage", stage,
		"error", cause,
	)

	quarantined, err := w.rt.Ledger.RecordFailure(ctx, item.Filename, stage, cause)
	if err != nil {
		return outcome{}, err
	}

	if quarantined {
		if err := w.rt.Enriched.Checkpoint(ctx, advanceHook(w.rt, item.Seq)); err != nil {
			return outcome{}, err
		}
	}

	return outcome{failed: true, quarantined: quarantined}, nil
}

func applyOutcome(s *Summary, o outcome) {
	if o.enriched {
		s.Enriched++
	}
	if o.skipped {
		s.Skipped++
	}
	if o.failed {
		s.Failed++
	}
	if o.quarantined {
		s.Quarantined++
	}
}
