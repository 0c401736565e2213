package matching

import (
	"testing"
	"time"
)

func TestScorePercent(t *testing.T) {
	tests := []struct {
		name string
		raw  float64
		want float64
	}{
		{"zero", 0, 0},
		{"one", 1, 100},
		{"typical", 0.8734, 87.34},
		{"rounds half up", 0.87345, 87.35},
		{"clamped low", -0.5, 0},
		{"clamped high", 1.7, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scorePercent(tt.raw); got != tt.want {
				t.Errorf("scorePercent(%v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSortMatches(t *testing.T) {
	older := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 21, 10, 0, 0, 0, time.UTC)

	matches := []Match{
		{Filename: "low.png", Score: 40.00, FoundTime: newer},
		{Filename: "tie-old.png", Score: 85.50, FoundTime: older},
		{Filename: "tie-new.png", Score: 85.50, FoundTime: newer},
		{Filename: "high.png", Score: 92.10, FoundTime: older},
	}

	sortMatches(matches)

	want := []string{"high.png", "tie-new.png", "tie-old.png", "low.png"}
	for i, filename := range want {
		if matches[i].Filename != filename {
			t.Errorf("[%d] = %s, want %s", i, matches[i].Filename, filename)
		}
	}
}

func TestTruncate(t *testing.T) {
	matches := []Match{{Filename: "a"}, {Filename: "b"}, {Filename: "c"}}

	tests := []struct {
		name string
		k    int
		want int
	}{
		{"caps at k", 2, 2},
		{"k larger than slice", 5, 3},
		{"zero k unbounded", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(matches, tt.k); len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestJoinText(t *testing.T) {
	tests := []struct {
		name  string
		brand string
		text  string
		want  string
	}{
		{"both", "Fossil", "brown leather wallet", "Fossil brown leather wallet"},
		{"brand only", "Fossil", "", "Fossil"},
		{"text only", "", "brown leather wallet", "brown leather wallet"},
		{"neither", "", "", ""},
		{"whitespace trimmed", " Fossil ", " wallet ", "Fossil wallet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinText(tt.brand, tt.text); got != tt.want {
				t.Errorf("joinText(%q, %q) = %q, want %q", tt.brand, tt.text, got, tt.want)
			}
		})
	}
}
