package claims

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/reclaimhq/reclaim/internal/categories"
	"github.com/reclaimhq/reclaim/pkg/pagination"
	"github.com/reclaimhq/reclaim/pkg/query"
	"github.com/reclaimhq/reclaim/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a claim repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "claims"),
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
) (*pagination.PageResult[Claim], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Commentary", "Brand", "Name", "Email")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count claims: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	found, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanClaim)
	if err != nil {
		return nil, fmt.Errorf("query claims: %w", err)
	}

	result := pagination.NewPageResult(found, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Claim, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ClaimID", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanClaim)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Claim, error) {
	category, err := validateCommand(cmd)
	if err != nil {
		return nil, err
	}

	lodgedAt := cmd.ClaimLodgedAt
	if lodgedAt.IsZero() {
		lodgedAt = time.Now().UTC()
	}

	q := `
		INSERT INTO claims(claim_id, commentary, category, brand, terminal, gate, name, email, phone_number, helpdesk_location, status, claim_lodged_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING claim_id, commentary, category, brand, terminal, gate, name, email, phone_number, helpdesk_location, status, claim_lodged_at`

	insertArgs := []any{
		uuid.New(),
		cmd.Commentary,
		string(category),
		cmd.Brand,
		cmd.Terminal,
		cmd.Gate,
		cmd.Name,
		cmd.Email,
		cmd.PhoneNumber,
		cmd.HelpdeskLocation,
		string(Outstanding),
		lodgedAt,
	}

	c, err := repository.QueryOne(ctx, r.db, q, insertArgs, scanClaim)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("claim lodged", "claim_id", c.ClaimID, "category", c.Category)
	return &c, nil
}

// UpdateStatus moves a claim from Outstanding to the target state. The
// update predicates on the current status so a concurrent transition loses
// cleanly instead of overwriting.
func (r *repo) UpdateStatus(ctx context.Context, id uuid.UUID, target Status) (*Claim, error) {
	if target != Resolved && target != Cancelled {
		return nil, fmt.Errorf("%w: target %s", ErrInvalidTransition, target)
	}

	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !current.Status.CanTransition(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, target)
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"UPDATE claims SET status = $1 WHERE claim_id = $2 AND status = $3",
			string(target), id, string(Outstanding),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: claim no longer outstanding", ErrInvalidTransition)
	}

	current.Status = target
	r.logger.Info("claim status updated", "claim_id", id, "status", target)
	return current, nil
}

func validateCommand(cmd CreateCommand) (categories.Category, error) {
	category, err := categories.Parse(cmd.Category)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCategory, err)
	}

	if cmd.Commentary == "" {
		return "", fmt.Errorf("%w: commentary required", ErrInvalidClaim)
	}
	if cmd.Terminal == "" {
		return "", fmt.Errorf("%w: terminal required", ErrInvalidClaim)
	}
	if cmd.Gate == "" {
		return "", fmt.Errorf("%w: gate required", ErrInvalidClaim)
	}
	if cmd.Name == "" {
		return "", fmt.Errorf("%w: name required", ErrInvalidClaim)
	}
	if cmd.Email == "" && cmd.PhoneNumber == "" {
		return "", fmt.Errorf("%w: email or phone_number required", ErrInvalidClaim)
	}

	return category, nil
}
