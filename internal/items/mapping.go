package items

import (
	"net/url"
	"time"

	"github.com/reclaimhq/reclaim/pkg/query"
	"github.com/reclaimhq/reclaim/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "found_items", "f").
	Project("filename", "Filename").
	Project("location", "Location").
	Project("found_time", "FoundTime").
	Project("inserted_at", "InsertedAt").
	Project("seq", "Seq")

var defaultSort = query.SortField{
	Field:      "FoundTime",
	Descending: true,
}

// Filters contains optional filtering criteria for found-item queries.
// Nil fields are ignored. Location uses case-insensitive contains matching;
// FoundAfter and FoundBefore bound the found_time range.
type Filters struct {
	Location    *string    `json:"location,omitempty"`
	FoundAfter  *time.Time `json:"found_after,omitempty"`
	FoundBefore *time.Time `json:"found_before,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.WhereContains("Location", f.Location)

	if f.FoundAfter != nil {
		b.WhereExpr("f.found_time >= $%d", *f.FoundAfter)
	}
	if f.FoundBefore != nil {
		b.WhereExpr("f.found_time <= $%d", *f.FoundBefore)
	}

	return b
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if loc := values.Get("location"); loc != "" {
		f.Location = &loc
	}

	if after := values.Get("found_after"); after != "" {
		if t, err := time.Parse(time.RFC3339, after); err == nil {
			f.FoundAfter = &t
		}
	}

	if before := values.Get("found_before"); before != "" {
		if t, err := time.Parse(time.RFC3339, before); err == nil {
			f.FoundBefore = &t
		}
	}

	return f
}

func scanItem(s repository.Scanner) (FoundItem, error) {
	var i FoundItem
	err := s.Scan(
		&i.Filename,
		&i.Location,
		&i.FoundTime,
		&i.InsertedAt,
		&i.Seq,
	)
	return i, err
}
