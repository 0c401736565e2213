// Package items implements the found-item domain for Reclaim.
// It provides types, data access, and bulk manifest ingestion for the
// immutable found-item records that feed the enrichment pipeline.
package items

import "time"

// FoundItem is an immutable record of a logged found item. Seq is assigned
// by the database on insert and orders the change log consumed by the
// enrichment tracker.
type FoundItem struct {
	Filename   string    `json:"filename"`
	Location   string    `json:"location"`
	FoundTime  time.Time `json:"found_time"`
	InsertedAt time.Time `json:"inserted_at"`
	Seq        int64     `json:"seq"`
}

// CreateCommand carries the data needed to register a single found item.
type CreateCommand struct {
	Filename  string    `json:"filename"`
	Location  string    `json:"location"`
	FoundTime time.Time `json:"found_time"`
}

// BatchResult reports the outcome of a single manifest file within an
// ingest run. Inserted counts new rows; Skipped counts filenames that were
// already present.
type BatchResult struct {
	Manifest string `json:"manifest"`
	Inserted int    `json:"inserted"`
	Skipped  int    `json:"skipped"`
	Error    string `json:"error,omitempty"`
}
