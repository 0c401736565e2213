// Package tracker implements change tracking over the found-item log.
// The found_items table is append-only, so a monotonically increasing
// sequence column plus a persisted checkpoint gives lock-free change
// polling: everything past the checkpoint is pending work.
package tracker

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// CheckpointName identifies the enrichment consumer's checkpoint row.
const CheckpointName = "enrichment"

// PendingItem is a found item whose sequence lies past the checkpoint.
type PendingItem struct {
	Filename  string    `json:"filename"`
	Location  string    `json:"location"`
	FoundTime time.Time `json:"found_time"`
	Seq       int64     `json:"seq"`
}

// System defines the change tracking contract. The checkpoint only moves
// through AdvanceTx inside an enrichment commit transaction, and only across
// records that are enriched or quarantined; a crash between poll and commit
// re-surfaces the same records on the next poll.
type System interface {
	Poll(ctx context.Context, after int64) ([]PendingItem, error)
	Position(ctx context.Context) (int64, error)
	HasPending(ctx context.Context) (bool, error)
	AdvanceTx(ctx context.Context, tx *sql.Tx, seq int64) error
}

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a change tracker over the given database.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "tracker"),
	}
}

// Poll returns found items with seq > after in insertion order.
func (r *repo) Poll(ctx context.Context, after int64) ([]PendingItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT filename, location, found_time, seq
		FROM found_items
		WHERE seq > $1
		ORDER BY seq`,
		after,
	)
	if err != nil {
		return nil, fmt.Errorf("poll found items after %d: %w", after, err)
	}
	defer rows.Close()

	var pending []PendingItem
	for rows.Next() {
		var p PendingItem
		if err := rows.Scan(&p.Filename, &p.Location, &p.FoundTime, &p.Seq); err != nil {
			return nil, fmt.Errorf("scan pending item: %w", err)
		}
		pending = append(pending, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending items: %w", err)
	}

	return pending, nil
}

// Position returns the committed checkpoint offset.
func (r *repo) Position(ctx context.Context) (int64, error) {
	var position int64
	err := r.db.QueryRowContext(
		ctx,
		"SELECT position FROM tracker_checkpoints WHERE name = $1",
		CheckpointName,
	).Scan(&position)
	if err != nil {
		return 0, fmt.Errorf("read checkpoint %s: %w", CheckpointName, err)
	}
	return position, nil
}

// HasPending reports whether any found item lies past the checkpoint.
func (r *repo) HasPending(ctx context.Context) (bool, error) {
	var pending bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM found_items f, tracker_checkpoints t
			WHERE t.name = $1 AND f.seq > t.position
		)`,
		CheckpointName,
	).Scan(&pending)
	if err != nil {
		return false, fmt.Errorf("check pending items: %w", err)
	}
	return pending, nil
}

// AdvanceTx moves the checkpoint toward seq within the caller's transaction.
// The advance is clamped to the resolved prefix: the position never passes a
// found item that is neither enriched nor quarantined, so a record whose
// enrichment failed stays pending even after later records commit. GREATEST
// keeps concurrent out-of-order commits from rewinding the offset; a commit
// held back by an unresolved neighbor is caught up by the already-enriched
// skip on a later poll.
func (r *repo) AdvanceTx(ctx context.Context, tx *sql.Tx, seq int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE tracker_checkpoints
		SET position = GREATEST(position, LEAST($2, COALESCE((
			SELECT MIN(f.seq) - 1
			FROM found_items f
			WHERE f.seq <= $2
				AND NOT EXISTS (
					SELECT 1 FROM enriched_items e
					WHERE e.filename = f.filename
				)
				AND NOT EXISTS (
					SELECT 1 FROM enrichment_failures q
					WHERE q.filename = f.filename AND q.quarantined
				)
		), $2))), updated_at = now()
		WHERE name = $1`,
		CheckpointName, seq,
	)
	if err != nil {
		return fmt.Errorf("advance checkpoint %s to %d: %w", CheckpointName, seq, err)
	}
	return nil
}
