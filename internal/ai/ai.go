// Package ai defines the model-facing contracts for enrichment and matching:
// vision classification against the closed vocabulary, attribute description,
// and chat-based similarity scoring. The go-agents implementation records a
// usage row per call.
package ai

import (
	"context"

	"github.com/reclaimhq/reclaim/internal/categories"
)

// Image is a downloaded item photograph ready for a vision call.
type Image struct {
	Data        []byte
	ContentType string
}

// Classifier labels an item image with a single vocabulary category.
type Classifier interface {
	Classify(ctx context.Context, img Image) (categories.Category, error)
}

// Describer extracts attribute text from an item image. The raw model output
// is returned untouched; parsing and containment of malformed output happen
// in the enrichment worker.
type Describer interface {
	Describe(ctx context.Context, img Image, category categories.Category) (string, error)
}

// SimilarityScorer rates the semantic similarity of two text descriptions
// in [0, 1]. Scoring is treated as symmetric and deterministic.
type SimilarityScorer interface {
	Score(ctx context.Context, a, b string) (float64, error)
}
