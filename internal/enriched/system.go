package enriched

import (
	"context"
	"database/sql"

	"github.com/reclaimhq/reclaim/pkg/pagination"
)

// TxHook runs inside the Commit transaction after the conditional insert.
// The enrichment worker uses hooks to advance the change tracker checkpoint
// and clear the failure ledger atomically with the record.
type TxHook func(ctx context.Context, tx *sql.Tx) error

// System defines the public contract for enrichment record operations.
type System interface {
	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[EnrichedItem], error)

	Find(ctx context.Context, filename string) (*EnrichedItem, error)
	Exists(ctx context.Context, filename string) (bool, error)

	// Commit conditionally inserts the record and runs the hooks in a single
	// transaction. Returns false when the filename was already enriched; the
	// hooks run either way, so the checkpoint still advances past duplicates.
	Commit(ctx context.Context, item EnrichedItem, hooks ...TxHook) (bool, error)

	// Checkpoint runs the hooks in a transaction without inserting a record,
	// used when a change is skipped but the tracker offset still has to move.
	Checkpoint(ctx context.Context, hooks ...TxHook) error
}
