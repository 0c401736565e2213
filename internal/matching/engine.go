package matching

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/reclaimhq/reclaim/internal/ai"
)

// Options holds the matching parameters.
type Options struct {
	// TopK caps the single-claim result size.
	TopK int
	// TemporalWindow bounds |found_time - claim_lodged_at| when non-zero.
	TemporalWindow time.Duration
}

// Engine implements the System interface over a Source and a similarity
// scorer.
type Engine struct {
	source Source
	scorer ai.SimilarityScorer
	opts   Options
	logger *slog.Logger
}

// NewEngine creates a matching engine.
func NewEngine(source Source, scorer ai.SimilarityScorer, opts Options, logger *slog.Logger) System {
	return &Engine{
		source: source,
		scorer: scorer,
		opts:   opts,
		logger: logger.With("system", "matching"),
	}
}

func (e *Engine) Handler() *Handler {
	return NewHandler(e, e.logger)
}

func (e *Engine) Match(ctx context.Context, claimID uuid.UUID) ([]Match, error) {
	claim, err := e.source.OutstandingClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return []Match{}, nil
	}

	matches, err := e.rank(ctx, *claim)
	if err != nil {
		return nil, err
	}

	return truncate(matches, e.opts.TopK), nil
}

func (e *Engine) MatchAll(ctx context.Context) ([]Match, error) {
	keys, err := e.source.OutstandingClaims(ctx)
	if err != nil {
		return nil, err
	}

	all := make([]Match, 0)
	for _, claim := range keys {
		matches, err := e.rank(ctx, claim)
		if err != nil {
			return nil, err
		}
		all = append(all, matches...)
	}

	return all, nil
}

// rank scores and orders the filtered candidates for one claim.
func (e *Engine) rank(ctx context.Context, claim ClaimKey) ([]Match, error) {
	candidates, err := e.source.Candidates(ctx, claim.ClaimID, e.opts.TemporalWindow)
	if err != nil {
		return nil, err
	}

	claimText := joinText(claim.Brand, claim.Commentary)
	matches := make([]Match, 0, len(candidates))

	for _, c := range candidates {
		raw, err := e.scorer.Score(ctx, joinText(c.Brand, c.DetailsText), claimText)
		if err != nil {
			return nil, fmt.Errorf("score %s against claim %s: %w", c.Filename, claim.ClaimID, err)
		}

		matches = append(matches, Match{
			ClaimID:   claim.ClaimID,
			Filename:  c.Filename,
			FoundTime: c.FoundTime,
			Details:   c.DetailsText,
			Score:     scorePercent(raw),
		})
	}

	sortMatches(matches)

	e.logger.Debug(
		"claim ranked",
		"claim_id", claim.ClaimID,
		"candidates", len(candidates),
	)

	return matches, nil
}
