// Package enrichment implements the AI enrichment worker. Each pending found
// item runs through a resolve → classify → describe → persist state graph;
// batches execute with bounded parallelism, per-record failure isolation, and
// a poison-record quarantine ledger.
package enrichment

import (
	"log/slog"
	"time"

	"github.com/reclaimhq/reclaim/internal/ai"
	"github.com/reclaimhq/reclaim/internal/enriched"
	"github.com/reclaimhq/reclaim/internal/tracker"
	"github.com/reclaimhq/reclaim/pkg/storage"
)

// ModelInfo identifies the model stamped onto enrichment records.
type ModelInfo struct {
	Name     string
	Provider string
}

// Options holds the worker's batch and retry parameters.
type Options struct {
	Parallelism int
	MaxAttempts int
	BackoffBase time.Duration
	CallTimeout time.Duration
}

// Runtime bundles the dependencies that enrichment nodes require.
// It is constructed by higher-level composition code from infrastructure
// and domain systems.
type Runtime struct {
	Tracker    tracker.System
	Enriched   enriched.System
	Storage    storage.System
	Classifier ai.Classifier
	Describer  ai.Describer
	Ledger     Ledger
	Model      ModelInfo
	Logger     *slog.Logger
	Options    Options
}
