package enrichment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/reclaimhq/reclaim/internal/enriched"
)

// Ledger tracks per-filename enrichment failures. A filename whose attempt
// count reaches the quarantine threshold is poisoned: the worker skips it
// without further model calls until the ledger row is cleared.
type Ledger interface {
	// RecordFailure increments the attempt count for the filename and reports
	// whether the record is now quarantined.
	RecordFailure(ctx context.Context, filename, stage string, cause error) (bool, error)
	// Quarantined reports whether the filename is poisoned.
	Quarantined(ctx context.Context, filename string) (bool, error)
	// Clear returns a transaction hook deleting the filename's ledger row,
	// run inside the enrichment commit.
	Clear(filename string) enriched.TxHook
}

type ledger struct {
	db        *sql.DB
	threshold int
	logger    *slog.Logger
}

// NewLedger creates a failure ledger with the given quarantine threshold.
func NewLedger(db *sql.DB, threshold int, logger *slog.Logger) Ledger {
	return &ledger{
		db:        db,
		threshold: threshold,
		logger:    logger.With("system", "enrichment.ledger"),
	}
}

func (l *ledger) RecordFailure(ctx context.Context, filename, stage string, cause error) (bool, error) {
	var quarantined bool
	err := l.db.QueryRowContext(ctx, `
		INSERT INTO enrichment_failures(filename, attempts, last_error, stage, quarantined)
		VALUES ($1, 1, $2, $3, 1 >= $4)
		ON CONFLICT (filename) DO UPDATE
		SET attempts = enrichment_failures.attempts + 1,
			last_error = EXCLUDED.last_error,
			stage = EXCLUDED.stage,
			quarantined = enrichment_failures.attempts + 1 >= $4,
			updated_at = now()
		RETURNING quarantined`,
		filename, cause.Error(), stage, l.threshold,
	).Scan(&quarantined)
	if err != nil {
		return false, fmt.Errorf("record failure %s: %w", filename, err)
	}

	if quarantined {
		l.logger.Warn("item quarantined", "filename", filename, "stage", stage, "error", cause)
	}

	return quarantined, nil
}

func (l *ledger) Quarantined(ctx context.Context, filename string) (bool, error) {
	var quarantined bool
	err := l.db.QueryRowContext(
		ctx,
		"SELECT quarantined FROM enrichment_failures WHERE filename = $1",
		filename,
	).Scan(&quarantined)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check quarantine %s: %w", filename, err)
	}
	return quarantined, nil
}

func (l *ledger) Clear(filename string) enriched.TxHook {
	return func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(
			ctx,
			"DELETE FROM enrichment_failures WHERE filename = $1",
			filename,
		); err != nil {
			return fmt.Errorf("clear failure ledger %s: %w", filename, err)
		}
		return nil
	}
}
