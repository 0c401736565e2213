package items

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/reclaimhq/reclaim/pkg/pagination"
	"github.com/reclaimhq/reclaim/pkg/query"
	"github.com/reclaimhq/reclaim/pkg/repository"
	"github.com/reclaimhq/reclaim/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a found-item repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "items"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[FoundItem], error) {
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
		return nil, fmt.Errorf("count found items: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	found, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanItem)
	if err != nil {
		return nil, fmt.Errorf("query found items: %w", err)
	}

	result := pagination.NewPageResult(found, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, filename string) (*FoundItem, error) {
	q, args := query.NewBuilder(projection).BuildSingle("Filename", filename)

	item, err := repository.QueryOne(ctx, r.db, q, args, scanItem)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &item, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*FoundItem, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO found_items(filename, location, found_time)
		VALUES ($1, $2, $3)
		RETURNING filename, location, found_time, inserted_at, seq`

	item, err := repository.QueryOne(
		ctx, r.db, q,
		[]any{cmd.Filename, cmd.Location, cmd.FoundTime},
		scanItem,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("found item registered", "filename", item.Filename, "seq", item.Seq)
	return &item, nil
}

func validateCommand(cmd CreateCommand) error {
	if cmd.Filename == "" {
		return fmt.Errorf("%w: filename required", ErrInvalidItem)
	}
	if cmd.Location == "" {
		return fmt.Errorf("%w: location required", ErrInvalidItem)
	}
	if cmd.FoundTime.IsZero() {
		return fmt.Errorf("%w: found_time required", ErrInvalidItem)
	}
	return nil
}
