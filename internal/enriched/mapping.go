package enriched

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/reclaimhq/reclaim/pkg/query"
	"github.com/reclaimhq/reclaim/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "enriched_items", "e").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("classification", "Classification").
	Project("location", "Location").
	Project("found_time", "FoundTime").
	Project("item_details", "Details").
	Project("details_raw", "DetailsRaw").
	Project("details_parsed", "DetailsParsed").
	Project("model_name", "ModelName").
	Project("provider_name", "ProviderName").
	Project("etl_timestamp", "ETLTimestamp")

var defaultSort = query.SortField{
	Field:      "ETLTimestamp",
	Descending: true,
}

// Filters contains optional filtering criteria for enrichment record queries.
// Nil fields are ignored.
type Filters struct {
	Classification *string `json:"classification,omitempty"`
	Location       *string `json:"location,omitempty"`
	DetailsParsed  *bool   `json:"details_parsed,omitempty"`
	ModelName      *string `json:"model_name,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.
		WhereEquals("Classification", f.Classification).
		WhereContains("Location", f.Location).
		WhereEquals("ModelName", f.ModelName)

	if f.DetailsParsed != nil {
		b.WhereExpr("e.details_parsed = $%d", *f.DetailsParsed)
	}

	return b
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("classification"); c != "" {
		f.Classification = &c
	}

	if loc := values.Get("location"); loc != "" {
		f.Location = &loc
	}

	if p := values.Get("details_parsed"); p != "" {
		parsed := p == "true"
		f.DetailsParsed = &parsed
	}

	if m := values.Get("model_name"); m != "" {
		f.ModelName = &m
	}

	return f
}

func scanEnriched(s repository.Scanner) (EnrichedItem, error) {
	var e EnrichedItem
	var details sql.NullString
	var raw sql.NullString

	err := s.Scan(
		&e.ID,
		&e.Filename,
		&e.Classification,
		&e.Location,
		&e.FoundTime,
		&details,
		&raw,
		&e.DetailsParsed,
		&e.ModelName,
		&e.ProviderName,
		&e.ETLTimestamp,
	)
	if err != nil {
		return e, err
	}

	if details.Valid {
		var d ItemDetails
		if err := json.Unmarshal([]byte(details.String), &d); err != nil {
			return e, fmt.Errorf("decode item details %s: %w", e.Filename, err)
		}
		e.Details = &d
	}

	e.DetailsRaw = raw.String
	return e, nil
}
