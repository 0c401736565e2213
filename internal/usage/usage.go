// Package usage implements AI call accounting: one row per model call with
// estimated token counts, cost, and duration, plus per-model aggregates for
// monitoring.
package usage

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
)

// Record is a single accounted model call.
type Record struct {
	ID               uuid.UUID `json:"id"`
	Operation        string    `json:"operation"`
	ModelName        string    `json:"model_name"`
	ProviderName     string    `json:"provider_name"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	CostUSD          float64   `json:"cost_usd"`
	DurationMS       int64     `json:"duration_ms"`
	CalledAt         time.Time `json:"called_at"`
}

// ModelTotals aggregates usage per model.
type ModelTotals struct {
	ModelName        string  `json:"model_name"`
	ProviderName     string  `json:"provider_name"`
	Calls            int     `json:"calls"`
	PromptTokens     int64   `json:"prompt_tokens"`
	CompletionTokens int64   `json:"completion_tokens"`
	CostUSD          float64 `json:"cost_usd"`
	DurationMS       int64   `json:"duration_ms"`
}

// Recorder is the write-side contract consumed by agent wrappers.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}

// System defines the public contract for usage accounting.
type System interface {
	Recorder
	Totals(ctx context.Context) ([]ModelTotals, error)
}

// Pricing converts token counts to dollar cost. Rates are dollars per
// million tokens.
type Pricing struct {
	InputRate  float64
	OutputRate float64
}

// Cost prices a call from its token counts.
func (p Pricing) Cost(promptTokens, completionTokens int) float64 {
	return float64(promptTokens)/1e6*p.InputRate +
		float64(completionTokens)/1e6*p.OutputRate
}

// EstimateTokens approximates token count from text length. Providers in use
// do not report usage on every response, so four characters per token keeps
// accounting consistent across them.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return int(math.Ceil(float64(len(text)) / 4))
}
