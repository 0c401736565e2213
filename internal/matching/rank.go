package matching

import (
	"math"
	"sort"
	"strings"
)

// scorePercent converts a raw [0, 1] similarity to a percentage rounded to
// two decimals. Out-of-range model output is clamped first.
func scorePercent(raw float64) float64 {
	if raw < 0 {
		raw = 0
	}
	if raw > 1 {
		raw = 1
	}
	return math.Round(raw*10000) / 100
}

// sortMatches orders by descending score, breaking ties by most recent
// found_time.
func sortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].FoundTime.After(matches[j].FoundTime)
	})
}

// truncate caps the slice at k entries.
func truncate(matches []Match, k int) []Match {
	if k > 0 && len(matches) > k {
		return matches[:k]
	}
	return matches
}

// joinText composes the brand-prefixed description compared by the scorer.
func joinText(brand, text string) string {
	brand = strings.TrimSpace(brand)
	text = strings.TrimSpace(text)

	switch {
	case brand == "":
		return text
	case text == "":
		return brand
	default:
		return brand + " " + text
	}
}
