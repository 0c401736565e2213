// Package matching implements claim-to-item matching: SQL candidate
// filtering on category, terminal, and gate, followed by model-scored
// semantic ranking of the survivors.
package matching

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Candidate is an enriched item that passed the hard filters for a claim.
// Only rows with parsed details qualify, so DetailsText is always the
// structured rendering.
type Candidate struct {
	Filename    string
	FoundTime   time.Time
	Brand       string
	DetailsText string
}

// ClaimKey is the matching-relevant slice of an outstanding claim.
type ClaimKey struct {
	ClaimID    uuid.UUID
	Brand      string
	Commentary string
}

// Match is one ranked pairing of a claim and an enriched item. Score is a
// percentage in [0, 100] rounded to two decimals.
type Match struct {
	ClaimID   uuid.UUID `json:"claim_id"`
	Filename  string    `json:"filename"`
	FoundTime time.Time `json:"found_time"`
	Details   string    `json:"details"`
	Score     float64   `json:"score"`
}

// Source supplies claims and filtered candidates from the record stores.
type Source interface {
	// OutstandingClaim returns the claim key, or nil when the claim is
	// unknown or no longer outstanding.
	OutstandingClaim(ctx context.Context, id uuid.UUID) (*ClaimKey, error)
	OutstandingClaims(ctx context.Context) ([]ClaimKey, error)
	// Candidates returns enriched items matching the claim's category,
	// terminal, and gate. A non-zero window additionally bounds
	// |found_time - claim_lodged_at|.
	Candidates(ctx context.Context, claimID uuid.UUID, window time.Duration) ([]Candidate, error)
}

// System defines the public contract for matching operations.
type System interface {
	Handler() *Handler

	// Match returns the top-ranked candidates for one claim, at most the
	// configured top-k. Unknown or non-outstanding claims yield an empty
	// slice, not an error.
	Match(ctx context.Context, claimID uuid.UUID) ([]Match, error)
	// MatchAll ranks candidates for every outstanding claim, unbounded.
	MatchAll(ctx context.Context) ([]Match, error)
}
