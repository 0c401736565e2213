// Package enriched implements the enrichment record store: one immutable row
// per found-item filename holding the classification and extracted attributes.
// Rows are only ever inserted; the conditional insert on filename is the
// idempotency key that collapses at-least-once change delivery into
// at-most-once enrichment.
package enriched

import (
	"strings"
	"time"

	"github.com/reclaimhq/reclaim/internal/categories"
)

// ItemDetails holds the structured attributes extracted by the describer.
type ItemDetails struct {
	ItemType               string `json:"item_type"`
	Color                  string `json:"color"`
	Brand                  string `json:"brand"`
	DistinguishingFeatures string `json:"distinguishing_features"`
	Condition              string `json:"condition"`
}

// EnrichedItem is a persisted enrichment result. Details carries the parsed
// attribute union: when the describer output parsed, Details is populated and
// DetailsParsed is true; otherwise the raw text survives in DetailsRaw with
// DetailsParsed false. Neither case is ever dropped.
type EnrichedItem struct {
	ID             int64               `json:"id"`
	Filename       string              `json:"filename"`
	Classification categories.Category `json:"classification"`
	Location       string              `json:"location"`
	FoundTime      time.Time           `json:"found_time"`
	Details        *ItemDetails        `json:"item_details,omitempty"`
	DetailsRaw     string              `json:"details_raw,omitempty"`
	DetailsParsed  bool                `json:"details_parsed"`
	ModelName      string              `json:"model_name"`
	ProviderName   string              `json:"provider_name"`
	ETLTimestamp   time.Time           `json:"etl_timestamp"`
}

// DetailsText renders the details as free text for similarity scoring:
// the labeled parsed attributes when available, the raw model output
// otherwise.
func (e *EnrichedItem) DetailsText() string {
	if !e.DetailsParsed || e.Details == nil {
		return e.DetailsRaw
	}
	return e.Details.Text()
}

// Text renders non-empty attributes as labeled segments.
func (d *ItemDetails) Text() string {
	segments := make([]string, 0, 5)

	appendSegment := func(label, value string) {
		if value != "" {
			segments = append(segments, label+": "+value)
		}
	}

	appendSegment("item type", d.ItemType)
	appendSegment("color", d.Color)
	appendSegment("brand", d.Brand)
	appendSegment("distinguishing features", d.DistinguishingFeatures)
	appendSegment("condition", d.Condition)

	return strings.Join(segments, "; ")
}
