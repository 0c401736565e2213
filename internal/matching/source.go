package matching

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/reclaimhq/reclaim/internal/claims"
	"github.com/reclaimhq/reclaim/internal/enriched"
)

type sqlSource struct {
	db *sql.DB
}

// NewSource creates a Source over the claim and enrichment record stores.
func NewSource(db *sql.DB) Source {
	return &sqlSource{db: db}
}

func (s *sqlSource) OutstandingClaim(ctx context.Context, id uuid.UUID) (*ClaimKey, error) {
	var key ClaimKey
	err := s.db.QueryRowContext(ctx, `
		SELECT claim_id, brand, commentary
		FROM claims
		WHERE claim_id = $1 AND status = $2`,
		id, string(claims.Outstanding),
	).Scan(&key.ClaimID, &key.Brand, &key.Commentary)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find outstanding claim %s: %w", id, err)
	}
	return &key, nil
}

func (s *sqlSource) OutstandingClaims(ctx context.Context) ([]ClaimKey, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT claim_id, brand, commentary
		FROM claims
		WHERE status = $1
		ORDER BY claim_lodged_at`,
		string(claims.Outstanding),
	)
	if err != nil {
		return nil, fmt.Errorf("query outstanding claims: %w", err)
	}
	defer rows.Close()

	keys := make([]ClaimKey, 0)
	for rows.Next() {
		var key ClaimKey
		if err := rows.Scan(&key.ClaimID, &key.Brand, &key.Commentary); err != nil {
			return nil, fmt.Errorf("scan claim key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate claim keys: %w", err)
	}

	return keys, nil
}

// Candidates joins enriched items against the claim on category and on the
// terminal/gate decomposition of the item's location ("Terminal 2, Gate 14").
// All key comparisons are case-insensitive and whitespace-trimmed. Only rows
// with parsed details participate; raw-stored rows have no reliable
// attribute text to rank on.
func (s *sqlSource) Candidates(ctx context.Context, claimID uuid.UUID, window time.Duration) ([]Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.filename, e.found_time, e.item_details
		FROM enriched_items e
		JOIN claims c ON c.claim_id = $1
		WHERE c.status = $2
			AND e.details_parsed = true
			AND LOWER(TRIM(e.classification)) = LOWER(TRIM(c.category))
			AND LOWER(TRIM(SPLIT_PART(e.location, ',', 1))) = LOWER(TRIM(c.terminal))
			AND LOWER(TRIM(SPLIT_PART(e.location, ',', 2))) = LOWER(TRIM(c.gate))
			AND ($3 = 0 OR ABS(EXTRACT(EPOCH FROM (e.found_time - c.claim_lodged_at))) <= $3)
		ORDER BY e.found_time DESC`,
		claimID, string(claims.Outstanding), window.Seconds(),
	)
	if err != nil {
		return nil, fmt.Errorf("query candidates for %s: %w", claimID, err)
	}
	defer rows.Close()

	candidates := make([]Candidate, 0)
	for rows.Next() {
		var c Candidate
		var rawDetails []byte
		if err := rows.Scan(&c.Filename, &c.FoundTime, &rawDetails); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}

		var details enriched.ItemDetails
		if err := json.Unmarshal(rawDetails, &details); err != nil {
			return nil, fmt.Errorf("decode candidate details %s: %w", c.Filename, err)
		}

		c.Brand = details.Brand
		c.DetailsText = details.Text()
		candidates = append(candidates, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}

	return candidates, nil
}
