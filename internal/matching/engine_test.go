package matching_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/reclaimhq/reclaim/internal/matching"
)

type fakeSource struct {
	claims     map[uuid.UUID]*matching.ClaimKey
	candidates map[uuid.UUID][]matching.Candidate
	window     time.Duration
}

func (f *fakeSource) OutstandingClaim(ctx context.Context, id uuid.UUID) (*matching.ClaimKey, error) {
	return f.claims[id], nil
}

func (f *fakeSource) OutstandingClaims(ctx context.Context) ([]matching.ClaimKey, error) {
	keys := make([]matching.ClaimKey, 0, len(f.claims))
	for _, key := range f.claims {
		keys = append(keys, *key)
	}
	return keys, nil
}

func (f *fakeSource) Candidates(ctx context.Context, claimID uuid.UUID, window time.Duration) ([]matching.Candidate, error) {
	f.window = window
	return f.candidates[claimID], nil
}

type fakeScorer struct {
	scores map[string]float64
	err    error
	calls  int
}

func (f *fakeScorer) Score(ctx context.Context, a, b string) (float64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.scores[a], nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func foundAt(day int) time.Time {
	return time.Date(2026, 8, day, 12, 0, 0, 0, time.UTC)
}

func TestMatchRanksAndTruncates(t *testing.T) {
	claimID := uuid.New()
	source := &fakeSource{
		claims: map[uuid.UUID]*matching.ClaimKey{
			claimID: {ClaimID: claimID, Brand: "Fossil", Commentary: "brown leather wallet"},
		},
		candidates: map[uuid.UUID][]matching.Candidate{
			claimID: {
				{Filename: "a.png", FoundTime: foundAt(20), DetailsText: "black wallet"},
				{Filename: "b.png", FoundTime: foundAt(21), Brand: "Fossil", DetailsText: "brown wallet"},
				{Filename: "c.png", FoundTime: foundAt(22), DetailsText: "brown purse"},
				{Filename: "d.png", FoundTime: foundAt(23), DetailsText: "card holder"},
			},
		},
	}
	scorer := &fakeScorer{scores: map[string]float64{
		"black wallet":        0.41,
		"Fossil brown wallet": 0.93,
		"brown purse":         0.78,
		"card holder":         0.30,
	}}

	engine := matching.NewEngine(source, scorer, matching.Options{TopK: 3}, discardLogger())

	matches, err := engine.Match(context.Background(), claimID)
	if err != nil {
		t.Fatalf("Match error: %v", err)
	}

	if len(matches) != 3 {
		t.Fatalf("matches = %d, want 3 (top-k)", len(matches))
	}
	want := []string{"b.png", "c.png", "a.png"}
	for i, filename := range want {
		if matches[i].Filename != filename {
			t.Errorf("[%d] = %s, want %s", i, matches[i].Filename, filename)
		}
	}
	if matches[0].Score != 93.00 {
		t.Errorf("top score = %v, want 93", matches[0].Score)
	}
	if matches[0].ClaimID != claimID {
		t.Errorf("claim id = %v", matches[0].ClaimID)
	}
}

func TestMatchUnknownClaimEmpty(t *testing.T) {
	source := &fakeSource{claims: map[uuid.UUID]*matching.ClaimKey{}}
	engine := matching.NewEngine(source, &fakeScorer{}, matching.Options{TopK: 3}, discardLogger())

	matches, err := engine.Match(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Match error: %v", err)
	}
	if matches == nil {
		t.Fatal("matches should be an empty slice, not nil")
	}
	if len(matches) != 0 {
		t.Errorf("matches = %d, want 0", len(matches))
	}
}

func TestMatchNoCandidates(t *testing.T) {
	claimID := uuid.New()
	source := &fakeSource{
		claims: map[uuid.UUID]*matching.ClaimKey{
			claimID: {ClaimID: claimID, Commentary: "lost umbrella"},
		},
	}
	scorer := &fakeScorer{}
	engine := matching.NewEngine(source, scorer, matching.Options{TopK: 3}, discardLogger())

	matches, err := engine.Match(context.Background(), claimID)
	if err != nil {
		t.Fatalf("Match error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("matches = %d, want 0", len(matches))
	}
	if scorer.calls != 0 {
		t.Errorf("scorer called %d times for zero candidates", scorer.calls)
	}
}

func TestMatchScorerErrorPropagates(t *testing.T) {
	claimID := uuid.New()
	source := &fakeSource{
		claims: map[uuid.UUID]*matching.ClaimKey{
			claimID: {ClaimID: claimID, Commentary: "wallet"},
		},
		candidates: map[uuid.UUID][]matching.Candidate{
			claimID: {{Filename: "a.png", DetailsText: "wallet"}},
		},
	}
	scorer := &fakeScorer{err: errors.New("model unavailable")}
	engine := matching.NewEngine(source, scorer, matching.Options{TopK: 3}, discardLogger())

	if _, err := engine.Match(context.Background(), claimID); err == nil {
		t.Error("expected scorer error to propagate")
	}
}

func TestMatchPassesTemporalWindow(t *testing.T) {
	claimID := uuid.New()
	source := &fakeSource{
		claims: map[uuid.UUID]*matching.ClaimKey{
			claimID: {ClaimID: claimID, Commentary: "wallet"},
		},
	}
	window := 48 * time.Hour
	engine := matching.NewEngine(source, &fakeScorer{}, matching.Options{TopK: 3, TemporalWindow: window}, discardLogger())

	if _, err := engine.Match(context.Background(), claimID); err != nil {
		t.Fatalf("Match error: %v", err)
	}
	if source.window != window {
		t.Errorf("window = %v, want %v", source.window, window)
	}
}

func TestMatchAllUnboundedPerClaim(t *testing.T) {
	claimA := uuid.New()
	claimB := uuid.New()

	candidatesA := make([]matching.Candidate, 5)
	scores := map[string]float64{}
	for i := range candidatesA {
		text := string(rune('a'+i)) + " item"
		candidatesA[i] = matching.Candidate{Filename: text + ".png", FoundTime: foundAt(20 + i), DetailsText: text}
		scores[text] = 0.5
	}
	scores["b item extra"] = 0.9

	source := &fakeSource{
		claims: map[uuid.UUID]*matching.ClaimKey{
			claimA: {ClaimID: claimA, Commentary: "first"},
			claimB: {ClaimID: claimB, Commentary: "second"},
		},
		candidates: map[uuid.UUID][]matching.Candidate{
			claimA: candidatesA,
			claimB: {{Filename: "x.png", FoundTime: foundAt(25), DetailsText: "b item extra"}},
		},
	}

	engine := matching.NewEngine(source, &fakeScorer{scores: scores}, matching.Options{TopK: 3}, discardLogger())

	matches, err := engine.MatchAll(context.Background())
	if err != nil {
		t.Fatalf("MatchAll error: %v", err)
	}

	// 5 for claim A (no top-k truncation) plus 1 for claim B.
	if len(matches) != 6 {
		t.Errorf("matches = %d, want 6", len(matches))
	}
}
