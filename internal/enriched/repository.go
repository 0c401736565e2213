package enriched

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/reclaimhq/reclaim/pkg/pagination"
	"github.com/reclaimhq/reclaim/pkg/query"
	"github.com/reclaimhq/reclaim/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an enrichment record repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "enriched"),
		pagination: pagination,
	}
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[EnrichedItem], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename", "Location")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count enriched items: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	found, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanEnriched)
	if err != nil {
		return nil, fmt.Errorf("query enriched items: %w", err)
	}

	result := pagination.NewPageResult(found, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, filename string) (*EnrichedItem, error) {
	q, args := query.NewBuilder(projection).BuildSingle("Filename", filename)

	e, err := repository.QueryOne(ctx, r.db, q, args, scanEnriched)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}

func (r *repo) Exists(ctx context.Context, filename string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(
		ctx,
		"SELECT EXISTS (SELECT 1 FROM enriched_items WHERE filename = $1)",
		filename,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check enriched %s: %w", filename, err)
	}
	return exists, nil
}

func (r *repo) Commit(ctx context.Context, item EnrichedItem, hooks ...TxHook) (bool, error) {
	if item.Filename == "" {
		return false, fmt.Errorf("%w: filename required", ErrInvalid)
	}
	if !item.Classification.Valid() {
		return false, fmt.Errorf("%w: classification %q", ErrInvalid, item.Classification)
	}

	var details any
	if item.Details != nil {
		encoded, err := json.Marshal(item.Details)
		if err != nil {
			return false, fmt.Errorf("encode item details: %w", err)
		}
		details = encoded
	}

	var raw any
	if item.DetailsRaw != "" {
		raw = item.DetailsRaw
	}

	inserted, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (bool, error) {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO enriched_items(filename, classification, location, found_time, item_details, details_raw, details_parsed, model_name, provider_name)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (filename) DO NOTHING`,
			item.Filename,
			string(item.Classification),
			item.Location,
			item.FoundTime,
			details,
			raw,
			item.DetailsParsed,
			item.ModelName,
			item.ProviderName,
		)
		if err != nil {
			return false, err
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return false, err
		}

		for _, hook := range hooks {
			if err := hook(ctx, tx); err != nil {
				return false, err
			}
		}

		return rows == 1, nil
	})
	if err != nil {
		return false, fmt.Errorf("commit enrichment %s: %w", item.Filename, err)
	}

	if inserted {
		r.logger.Info(
			"enrichment committed",
			"filename", item.Filename,
			"classification", item.Classification,
			"details_parsed", item.DetailsParsed,
		)
	} else {
		r.logger.Debug("enrichment already present", "filename", item.Filename)
	}

	return inserted, nil
}

func (r *repo) Checkpoint(ctx context.Context, hooks ...TxHook) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		for _, hook := range hooks {
			if err := hook(ctx, tx); err != nil {
				return struct{}{}, err
			}
		}
		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("commit checkpoint: %w", err)
	}
	return nil
}
