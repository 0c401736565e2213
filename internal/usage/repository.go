package usage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a usage repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "usage"),
	}
}

func (r *repo) Record(ctx context.Context, rec Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ai_usage(id, operation, model_name, provider_name, prompt_tokens, completion_tokens, cost_usd, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID,
		rec.Operation,
		rec.ModelName,
		rec.ProviderName,
		rec.PromptTokens,
		rec.CompletionTokens,
		rec.CostUSD,
		rec.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("record usage %s: %w", rec.Operation, err)
	}

	return nil
}

func (r *repo) Totals(ctx context.Context) ([]ModelTotals, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT model_name, provider_name,
			COUNT(*),
			COALESCE(SUM(prompt_tokens), 0),
			COALESCE(SUM(completion_tokens), 0),
			COALESCE(SUM(cost_usd), 0),
			COALESCE(SUM(duration_ms), 0)
		FROM ai_usage
		GROUP BY model_name, provider_name
		ORDER BY model_name, provider_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("query usage totals: %w", err)
	}
	defer rows.Close()

	totals := make([]ModelTotals, 0)
	for rows.Next() {
		var t ModelTotals
		if err := rows.Scan(
			&t.ModelName,
			&t.ProviderName,
			&t.Calls,
			&t.PromptTokens,
			&t.CompletionTokens,
			&t.CostUSD,
			&t.DurationMS,
		); err != nil {
			return nil, fmt.Errorf("scan usage totals: %w", err)
		}
		totals = append(totals, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate usage totals: %w", err)
	}

	return totals, nil
}
