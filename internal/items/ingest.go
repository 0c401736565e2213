package items

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/reclaimhq/reclaim/pkg/storage"
)

// manifest time formats accepted from upstream logging systems.
var manifestTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Ingest bulk-loads found-item manifests from blob storage. Manifests live
// under <area>/json/ as JSON files holding an array of entries (a bare object
// counts as a one-entry array). Field names match case-insensitively and
// ignore underscores; unknown fields are tolerated. Filenames already present
// are skipped, so re-running an ingest is safe.
func (r *repo) Ingest(ctx context.Context, area string) ([]BatchResult, error) {
	area = strings.Trim(area, "/")
	if area == "" {
		return nil, fmt.Errorf("%w: area required", ErrInvalidManifest)
	}

	prefix := area + "/json/"
	results := make([]BatchResult, 0)

	marker := ""
	for {
		listing, err := r.storage.List(ctx, prefix, marker, storage.MaxListCap)
		if err != nil {
			return nil, fmt.Errorf("list manifests %s: %w", prefix, err)
		}

		for _, blob := range listing.Blobs {
			if !strings.HasSuffix(strings.ToLower(blob.Key), ".json") {
				continue
			}
			results = append(results, r.ingestManifest(ctx, blob.Key))
		}

		if listing.NextMarker == "" {
			break
		}
		marker = listing.NextMarker
	}

	r.logger.Info("ingest completed", "area", area, "manifests", len(results))
	return results, nil
}

func (r *repo) ingestManifest(ctx context.Context, key string) BatchResult {
	result := BatchResult{Manifest: key}

	download, err := r.storage.Download(ctx, key)
	if err != nil {
		result.Error = fmt.Sprintf("download: %v", err)
		return result
	}
	defer download.Body.Close()

	data, err := io.ReadAll(download.Body)
	if err != nil {
		result.Error = fmt.Sprintf("read: %v", err)
		return result
	}

	commands, err := parseManifest(data)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	for _, cmd := range commands {
		inserted, err := r.insertIfAbsent(ctx, cmd)
		if err != nil {
			result.Error = fmt.Sprintf("insert %s: %v", cmd.Filename, err)
			return result
		}

		if inserted {
			result.Inserted++
		} else {
			result.Skipped++
		}
	}

	return result
}

func (r *repo) insertIfAbsent(ctx context.Context, cmd CreateCommand) (bool, error) {
	if err := validateCommand(cmd); err != nil {
		return false, err
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO found_items(filename, location, found_time)
		VALUES ($1, $2, $3)
		ON CONFLICT (filename) DO NOTHING`,
		cmd.Filename, cmd.Location, cmd.FoundTime,
	)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows == 1, nil
}

func parseManifest(data []byte) ([]CreateCommand, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty manifest", ErrInvalidManifest)
	}

	var raw []map[string]json.RawMessage
	if trimmed[0] == '{' {
		var single map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
		}
		raw = append(raw, single)
	} else {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
		}
	}

	commands := make([]CreateCommand, 0, len(raw))
	for i, entry := range raw {
		cmd, err := commandFromEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidManifest, i, err)
		}
		commands = append(commands, cmd)
	}

	return commands, nil
}

func commandFromEntry(entry map[string]json.RawMessage) (CreateCommand, error) {
	fields := make(map[string]json.RawMessage, len(entry))
	for k, v := range entry {
		fields[normalizeField(k)] = v
	}

	var cmd CreateCommand
	var err error

	if cmd.Filename, err = stringField(fields, "filename"); err != nil {
		return cmd, err
	}
	if cmd.Location, err = stringField(fields, "location"); err != nil {
		return cmd, err
	}
	if cmd.FoundTime, err = timeField(fields, "foundtime"); err != nil {
		return cmd, err
	}

	return cmd, nil
}

func normalizeField(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "_", "")
	name = strings.ReplaceAll(name, "-", "")
	return name
}

func stringField(fields map[string]json.RawMessage, name string) (string, error) {
	raw, ok := fields[name]
	if !ok {
		return "", fmt.Errorf("missing field %s", name)
	}

	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("field %s: %v", name, err)
	}
	return v, nil
}

func timeField(fields map[string]json.RawMessage, name string) (time.Time, error) {
	v, err := stringField(fields, name)
	if err != nil {
		return time.Time{}, err
	}

	for _, layout := range manifestTimeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("field %s: unrecognized time %q", name, v)
}
