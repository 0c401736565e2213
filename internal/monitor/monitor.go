// Package monitor exposes read-only operational statistics: pipeline
// backlog, enrichment outcomes, store sizes, and AI usage totals.
package monitor

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/reclaimhq/reclaim/internal/tracker"
	"github.com/reclaimhq/reclaim/internal/usage"
)

// Stats is a point-in-time snapshot of the pipeline.
type Stats struct {
	FoundItems       int64            `json:"found_items"`
	EnrichedItems    int64            `json:"enriched_items"`
	PendingChanges   int64            `json:"pending_changes"`
	CheckpointOffset int64            `json:"checkpoint_offset"`
	DetailsUnparsed  int64            `json:"details_unparsed"`
	FailedItems      int64            `json:"failed_items"`
	QuarantinedItems int64            `json:"quarantined_items"`
	ClaimsByStatus   map[string]int64 `json:"claims_by_status"`
}

// System defines the public contract for monitoring queries.
type System interface {
	Handler() *Handler
	Stats(ctx context.Context) (*Stats, error)
	Usage(ctx context.Context) ([]usage.ModelTotals, error)
}

type repo struct {
	db     *sql.DB
	usage  usage.System
	logger *slog.Logger
}

// New creates a monitoring system over the record stores.
func New(db *sql.DB, usageSys usage.System, logger *slog.Logger) System {
	return &repo{
		db:     db,
		usage:  usageSys,
		logger: logger.With("system", "monitor"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ClaimsByStatus: make(map[string]int64)}

	counts := []struct {
		query  string
		target *int64
	}{
		{"SELECT COUNT(*) FROM found_items", &stats.FoundItems},
		{"SELECT COUNT(*) FROM enriched_items", &stats.EnrichedItems},
		{"SELECT COUNT(*) FROM enriched_items WHERE details_parsed = false", &stats.DetailsUnparsed},
		{"SELECT COUNT(*) FROM enrichment_failures WHERE quarantined = false", &stats.FailedItems},
		{"SELECT COUNT(*) FROM enrichment_failures WHERE quarantined = true", &stats.QuarantinedItems},
	}

	for _, c := range counts {
		if err := r.db.QueryRowContext(ctx, c.query).Scan(c.target); err != nil {
			return nil, fmt.Errorf("monitor count: %w", err)
		}
	}

	err := r.db.QueryRowContext(ctx, `
		SELECT t.position, COUNT(f.seq)
		FROM tracker_checkpoints t
		LEFT JOIN found_items f ON f.seq > t.position
		WHERE t.name = $1
		GROUP BY t.position`,
		tracker.CheckpointName,
	).Scan(&stats.CheckpointOffset, &stats.PendingChanges)
	if err != nil {
		return nil, fmt.Errorf("monitor checkpoint: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM claims GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("monitor claims: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan claim counts: %w", err)
		}
		stats.ClaimsByStatus[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate claim counts: %w", err)
	}

	return stats, nil
}

func (r *repo) Usage(ctx context.Context) ([]usage.ModelTotals, error) {
	return r.usage.Totals(ctx)
}
