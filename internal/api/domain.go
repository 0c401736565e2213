package api

import (
	"github.com/reclaimhq/reclaim/internal/ai"
	"github.com/reclaimhq/reclaim/internal/claims"
	"github.com/reclaimhq/reclaim/internal/enriched"
	"github.com/reclaimhq/reclaim/internal/enrichment"
	"github.com/reclaimhq/reclaim/internal/items"
	"github.com/reclaimhq/reclaim/internal/matching"
	"github.com/reclaimhq/reclaim/internal/monitor"
	"github.com/reclaimhq/reclaim/internal/tracker"
	"github.com/reclaimhq/reclaim/internal/usage"
)

// Domain holds all domain systems that comprise the service.
type Domain struct {
	Items    items.System
	Claims   claims.System
	Enriched enriched.System
	Tracker  tracker.System
	Usage    usage.System
	Monitor  monitor.System
	Matching matching.System
	Agents   *ai.Agents
	Ledger   enrichment.Ledger
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()
	cfg := runtime.Config

	usageSystem := usage.New(db, runtime.Logger)

	agents := ai.NewAgents(
		cfg.Agents.Classifier,
		cfg.Agents.Describer,
		cfg.Agents.Scorer,
		usageSystem,
		usage.Pricing{
			InputRate:  cfg.Usage.InputTokenRate,
			OutputRate: cfg.Usage.OutputTokenRate,
		},
		runtime.Logger,
	)

	itemsSystem := items.New(
		db,
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	claimsSystem := claims.New(db, runtime.Logger, runtime.Pagination)

	enrichedSystem := enriched.New(db, runtime.Logger, runtime.Pagination)

	trackerSystem := tracker.New(db, runtime.Logger)

	ledger := enrichment.NewLedger(
		db,
		cfg.Worker.QuarantineThreshold,
		runtime.Logger,
	)

	matchingSystem := matching.NewEngine(
		matching.NewSource(db),
		agents,
		matching.Options{
			TopK:           cfg.Matching.TopK,
			TemporalWindow: cfg.Matching.TemporalWindowDuration(),
		},
		runtime.Logger,
	)

	monitorSystem := monitor.New(db, usageSystem, runtime.Logger)

	return &Domain{
		Items:    itemsSystem,
		Claims:   claimsSystem,
		Enriched: enrichedSystem,
		Tracker:  trackerSystem,
		Usage:    usageSystem,
		Monitor:  monitorSystem,
		Matching: matchingSystem,
		Agents:   agents,
		Ledger:   ledger,
	}
}

// EnrichmentRuntime assembles the worker runtime from the domain systems.
func (d *Domain) EnrichmentRuntime(runtime *Runtime) *enrichment.Runtime {
	cfg := runtime.Config
	model, provider := d.Agents.DescriberModel()

	return &enrichment.Runtime{
		Tracker:    d.Tracker,
		Enriched:   d.Enriched,
		Storage:    runtime.Storage,
		Classifier: d.Agents,
		Describer:  d.Agents,
		Ledger:     d.Ledger,
		Model:      enrichment.ModelInfo{Name: model, Provider: provider},
		Logger:     runtime.Logger.With("module", "enrichment"),
		Options: enrichment.Options{
			Parallelism: cfg.Worker.Parallelism,
			MaxAttempts: cfg.Worker.MaxAttempts,
			BackoffBase: cfg.Worker.BackoffBaseDuration(),
			CallTimeout: cfg.Worker.CallTimeoutDuration(),
		},
	}
}
