package usage_test

import (
	"math"
	"strings"
	"testing"

	"github.com/reclaimhq/reclaim/internal/usage"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"exact multiple", "abcdefgh", 2},
		{"rounds up", "abcde", 2},
		{"single char", "a", 1},
		{"long text", strings.Repeat("x", 4001), 1001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := usage.EstimateTokens(tt.input); got != tt.want {
				t.Errorf("EstimateTokens(%d chars) = %d, want %d", len(tt.input), got, tt.want)
			}
		})
	}
}

func TestPricingCost(t *testing.T) {
	p := usage.Pricing{InputRate: 0.15, OutputRate: 0.60}

	tests := []struct {
		name       string
		prompt     int
		completion int
		want       float64
	}{
		{"zero tokens", 0, 0, 0},
		{"prompt only", 1_000_000, 0, 0.15},
		{"completion only", 0, 1_000_000, 0.60},
		{"mixed", 2_000_000, 500_000, 0.60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Cost(tt.prompt, tt.completion)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cost(%d, %d) = %v, want %v", tt.prompt, tt.completion, got, tt.want)
			}
		})
	}
}
