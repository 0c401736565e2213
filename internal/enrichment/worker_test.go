package enrichment_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/reclaimhq/reclaim/internal/ai"
	"github.com/reclaimhq/reclaim/internal/categories"
	"github.com/reclaimhq/reclaim/internal/enriched"
	"github.com/reclaimhq/reclaim/internal/enrichment"
	"github.com/reclaimhq/reclaim/internal/tracker"
	"github.com/reclaimhq/reclaim/pkg/lifecycle"
	"github.com/reclaimhq/reclaim/pkg/pagination"
	"github.com/reclaimhq/reclaim/pkg/storage"
)

type fakeTracker struct {
	mu       sync.Mutex
	pending  []tracker.PendingItem
	position int64
	advanced []int64
	// resolved mirrors the advance clamp: an item counts as resolved once
	// it is enriched or quarantined, and the position never passes an
	// unresolved item.
	resolved func(filename string) bool
}

func (f *fakeTracker) Poll(ctx context.Context, after int64) ([]tracker.PendingItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]tracker.PendingItem, 0)
	for _, item := range f.pending {
		if item.Seq > after {
			items = append(items, item)
		}
	}
	return items, nil
}

func (f *fakeTracker) Position(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.position, nil
}

func (f *fakeTracker) HasPending(ctx context.Context) (bool, error) {
	items, _ := f.Poll(ctx, f.position)
	return len(items) > 0, nil
}

func (f *fakeTracker) AdvanceTx(ctx context.Context, tx *sql.Tx, seq int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.advanced = append(f.advanced, seq)

	limit := seq
	for _, item := range f.pending {
		if item.Seq <= seq && !f.resolved(item.Filename) && item.Seq-1 < limit {
			limit = item.Seq - 1
		}
	}
	if limit > f.position {
		f.position = limit
	}
	return nil
}

type fakeEnriched struct {
	mu        sync.Mutex
	rows      map[string]enriched.EnrichedItem
	commitErr error
}

func newFakeEnriched() *fakeEnriched {
	return &fakeEnriched{rows: make(map[string]enriched.EnrichedItem)}
}

func (f *fakeEnriched) List(ctx context.Context, page pagination.PageRequest, filters enriched.Filters) (*pagination.PageResult[enriched.EnrichedItem], error) {
	return nil, errors.New("not implemented")
}

func (f *fakeEnriched) Find(ctx context.Context, filename string) (*enriched.EnrichedItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.rows[filename]; ok {
		return &row, nil
	}
	return nil, errors.New("not found")
}

func (f *fakeEnriched) Exists(ctx context.Context, filename string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rows[filename]
	return ok, nil
}

func (f *fakeEnriched) Commit(ctx context.Context, item enriched.EnrichedItem, hooks ...enriched.TxHook) (bool, error) {
	if f.commitErr != nil {
		return false, f.commitErr
	}

	f.mu.Lock()
	_, exists := f.rows[item.Filename]
	if !exists {
		f.rows[item.Filename] = item
	}
	f.mu.Unlock()

	for _, hook := range hooks {
		if err := hook(ctx, nil); err != nil {
			return false, err
		}
	}
	return !exists, nil
}

func (f *fakeEnriched) Checkpoint(ctx context.Context, hooks ...enriched.TxHook) error {
	for _, hook := range hooks {
		if err := hook(ctx, nil); err != nil {
			return err
		}
	}
	return nil
}

type fakeStorage struct {
	blobs map[string][]byte
}

func (f *fakeStorage) Start(lc *lifecycle.Coordinator) error { return nil }

func (f *fakeStorage) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	return errors.New("not implemented")
}

func (f *fakeStorage) Download(ctx context.Context, key string) (*storage.DownloadResult, error) {
	data, ok := f.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &storage.DownloadResult{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentType:   "image/png",
		ContentLength: int64(len(data)),
	}, nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error { return storage.ErrNotFound }

func (f *fakeStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := f.blobs[key]
	return ok, nil
}

func (f *fakeStorage) Find(ctx context.Context, key string) (*storage.BlobMeta, error) {
	return nil, storage.ErrNotFound
}

func (f *fakeStorage) List(ctx context.Context, prefix, marker string, maxResults int32) (*storage.ListResult, error) {
	return &storage.ListResult{}, nil
}

func (f *fakeStorage) Presign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "", storage.ErrNotFound
}

type fakeClassifier struct {
	mu       sync.Mutex
	calls    int
	category categories.Category
	err      error
}

func (f *fakeClassifier) Classify(ctx context.Context, img ai.Image) (categories.Category, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.category, nil
}

type fakeDescriber struct {
	raw string
	err error
}

func (f *fakeDescriber) Describe(ctx context.Context, img ai.Image, category categories.Category) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.raw, nil
}

type fakeLedger struct {
	mu        sync.Mutex
	attempts  map[string]int
	threshold int
}

func newFakeLedger(threshold int) *fakeLedger {
	return &fakeLedger{attempts: make(map[string]int), threshold: threshold}
}

func (f *fakeLedger) RecordFailure(ctx context.Context, filename, stage string, cause error) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts[filename]++
	return f.attempts[filename] >= f.threshold, nil
}

func (f *fakeLedger) Quarantined(ctx context.Context, filename string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts[filename] >= f.threshold, nil
}

func (f *fakeLedger) Clear(filename string) enriched.TxHook {
	return func(ctx context.Context, tx *sql.Tx) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.attempts, filename)
		return nil
	}
}

type fixture struct {
	tracker    *fakeTracker
	enriched   *fakeEnriched
	storage    *fakeStorage
	classifier *fakeClassifier
	describer  *fakeDescriber
	ledger     *fakeLedger
	rt         *enrichment.Runtime
}

func newFixture(items ...tracker.PendingItem) *fixture {
	blobs := make(map[string][]byte)
	for _, item := range items {
		blobs[item.Filename] = []byte("png-bytes")
	}

	f := &fixture{
		tracker:    &fakeTracker{pending: items},
		enriched:   newFakeEnriched(),
		storage:    &fakeStorage{blobs: blobs},
		classifier: &fakeClassifier{category: categories.Wallet},
		describer:  &fakeDescriber{raw: `{"item_type": "wallet", "color": "brown", "brand": "Fossil"}`},
		ledger:     newFakeLedger(3),
	}

	f.tracker.resolved = func(filename string) bool {
		if ok, _ := f.enriched.Exists(context.Background(), filename); ok {
			return true
		}
		quarantined, _ := f.ledger.Quarantined(context.Background(), filename)
		return quarantined
	}

	f.rt = &enrichment.Runtime{
		Tracker:    f.tracker,
		Enriched:   f.enriched,
		Storage:    f.storage,
		Classifier: f.classifier,
		Describer:  f.describer,
		Ledger:     f.ledger,
		Model:      enrichment.ModelInfo{Name: "test-model", Provider: "test"},
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Options: enrichment.Options{
			Parallelism: 2,
			MaxAttempts: 2,
			BackoffBase: time.Millisecond,
			CallTimeout: time.Second,
		},
	}
	return f
}

func pendingItem(filename string, seq int64) tracker.PendingItem {
	return tracker.PendingItem{
		Filename:  filename,
		Location:  "Terminal 2, Gate 14",
		FoundTime: time.Date(2026, 8, 20, 14, 31, 0, 0, time.UTC),
		Seq:       seq,
	}
}

func TestWorkerEnrichesPendingItems(t *testing.T) {
	f := newFixture(pendingItem("a.png", 1), pendingItem("b.png", 2))

	summary, err := enrichment.NewWorker(f.rt).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if summary.Polled != 2 || summary.Enriched != 2 {
		t.Errorf("summary = %+v, want 2 polled, 2 enriched", summary)
	}

	record, err := f.enriched.Find(context.Background(), "a.png")
	if err != nil {
		t.Fatalf("record missing: %v", err)
	}
	if record.Classification != categories.Wallet {
		t.Errorf("classification = %q", record.Classification)
	}
	if !record.DetailsParsed || record.Details == nil {
		t.Fatalf("details should be parsed: %+v", record)
	}
	if record.Details.Brand != "Fossil" {
		t.Errorf("brand = %q", record.Details.Brand)
	}
	if record.ModelName != "test-model" {
		t.Errorf("model = %q", record.ModelName)
	}

	// A commit that lands before a lower-seq neighbor's holds the checkpoint
	// back; the next pass catches it up through the already-enriched skip.
	if _, err := enrichment.NewWorker(f.rt).Run(context.Background()); err != nil {
		t.Fatalf("second Run error: %v", err)
	}
	if f.tracker.position != 2 {
		t.Errorf("checkpoint = %d, want 2", f.tracker.position)
	}
}

func TestWorkerNoPending(t *testing.T) {
	f := newFixture()

	summary, err := enrichment.NewWorker(f.rt).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if summary.Polled != 0 {
		t.Errorf("polled = %d, want 0", summary.Polled)
	}
	if f.classifier.calls != 0 {
		t.Errorf("classifier called %d times", f.classifier.calls)
	}
}

func TestWorkerSkipsAlreadyEnriched(t *testing.T) {
	f := newFixture(pendingItem("a.png", 5))
	f.enriched.rows["a.png"] = enriched.EnrichedItem{Filename: "a.png"}

	summary, err := enrichment.NewWorker(f.rt).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if summary.Skipped != 1 || summary.Enriched != 0 {
		t.Errorf("summary = %+v, want 1 skipped", summary)
	}
	if f.classifier.calls != 0 {
		t.Errorf("classifier called %d times for an enriched item", f.classifier.calls)
	}
	if f.tracker.position != 5 {
		t.Errorf("checkpoint = %d, want 5 (advanced past duplicate)", f.tracker.position)
	}
}

func TestWorkerMalformedDetailsStoredRaw(t *testing.T) {
	f := newFixture(pendingItem("a.png", 1))
	f.describer.raw = "a brown leather wallet, quite worn"

	summary, err := enrichment.NewWorker(f.rt).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if summary.Enriched != 1 || summary.Failed != 0 {
		t.Errorf("summary = %+v, want 1 enriched, 0 failed", summary)
	}

	record, err := f.enriched.Find(context.Background(), "a.png")
	if err != nil {
		t.Fatalf("record missing: %v", err)
	}
	if record.DetailsParsed {
		t.Error("details_parsed should be false")
	}
	if record.DetailsRaw != "a brown leather wallet, quite worn" {
		t.Errorf("details_raw = %q", record.DetailsRaw)
	}
	if len(f.ledger.attempts) != 0 {
		t.Error("malformed details must not feed the failure ledger")
	}
}

func TestWorkerRecordsModelFailure(t *testing.T) {
	f := newFixture(pendingItem("a.png", 1))
	f.classifier.err = errors.New("model unavailable")

	summary, err := enrichment.NewWorker(f.rt).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if summary.Failed != 1 {
		t.Errorf("summary = %+v, want 1 failed", summary)
	}
	if f.ledger.attempts["a.png"] != 1 {
		t.Errorf("ledger attempts = %d, want 1", f.ledger.attempts["a.png"])
	}
	if f.tracker.position != 0 {
		t.Errorf("checkpoint = %d, failures must not advance it", f.tracker.position)
	}
	// Two attempts inside withRetry count as one ledger failure.
	if f.classifier.calls != 2 {
		t.Errorf("classifier calls = %d, want 2 (retry)", f.classifier.calls)
	}
}

func TestWorkerFailedRecordRetriedAfterLaterCommit(t *testing.T) {
	f := newFixture(pendingItem("a.png", 1), pendingItem("b.png", 2))
	f.rt.Options.Parallelism = 1
	delete(f.storage.blobs, "a.png")

	summary, err := enrichment.NewWorker(f.rt).Run(context.Background())
	if err != nil {
		t.Fatalf("first Run error: %v", err)
	}
	if summary.Enriched != 1 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want 1 enriched, 1 failed", summary)
	}

	// b.png committed, but the checkpoint must not pass the failed a.png.
	if f.tracker.position != 0 {
		t.Errorf("checkpoint = %d, want 0 (held below the failed record)", f.tracker.position)
	}
	pending, err := f.tracker.Poll(context.Background(), f.tracker.position)
	if err != nil {
		t.Fatalf("Poll error: %v", err)
	}
	if len(pending) == 0 || pending[0].Filename != "a.png" {
		t.Fatalf("pending = %+v, failed record must re-surface", pending)
	}

	// The photograph turns up; the next run drains the held-back record.
	f.storage.blobs["a.png"] = []byte("png-bytes")

	summary, err = enrichment.NewWorker(f.rt).Run(context.Background())
	if err != nil {
		t.Fatalf("second Run error: %v", err)
	}
	if summary.Enriched != 1 || summary.Skipped != 1 {
		t.Errorf("summary = %+v, want 1 enriched, 1 skipped", summary)
	}

	record, err := f.enriched.Find(context.Background(), "a.png")
	if err != nil {
		t.Fatalf("record missing: %v", err)
	}
	if record.Classification != categories.Wallet {
		t.Errorf("classification = %q", record.Classification)
	}
	if f.tracker.position != 2 {
		t.Errorf("checkpoint = %d, want 2", f.tracker.position)
	}
	if len(f.ledger.attempts) != 0 {
		t.Error("successful commit should clear the ledger row")
	}
}

func TestWorkerQuarantineAdvancesCheckpoint(t *testing.T) {
	f := newFixture(pendingItem("a.png", 1))
	f.ledger.threshold = 1
	f.classifier.err = errors.New("model unavailable")

	summary, err := enrichment.NewWorker(f.rt).Run(context.Background())
	if err != nil {
		t.Fatalf("first Run error: %v", err)
	}
	if summary.Quarantined != 1 {
		t.Errorf("summary = %+v, want 1 quarantined", summary)
	}
	if f.tracker.position != 1 {
		t.Errorf("checkpoint = %d, want 1 (advanced past quarantined item)", f.tracker.position)
	}

	pending, err := f.tracker.HasPending(context.Background())
	if err != nil {
		t.Fatalf("HasPending error: %v", err)
	}
	if pending {
		t.Error("a quarantined newest record must not stay pending")
	}

	callsAfterFirst := f.classifier.calls
	summary, err = enrichment.NewWorker(f.rt).Run(context.Background())
	if err != nil {
		t.Fatalf("second Run error: %v", err)
	}
	if summary.Polled != 0 {
		t.Errorf("summary = %+v, want nothing polled past the checkpoint", summary)
	}
	if f.classifier.calls != callsAfterFirst {
		t.Error("quarantined item must not reach the classifier")
	}
}

func TestWorkerQuarantinedSkipAdvancesCheckpoint(t *testing.T) {
	f := newFixture(pendingItem("a.png", 3))
	f.ledger.attempts["a.png"] = 3

	summary, err := enrichment.NewWorker(f.rt).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if summary.Skipped != 1 {
		t.Errorf("summary = %+v, want 1 skipped", summary)
	}
	if f.classifier.calls != 0 {
		t.Error("quarantined item must not reach the classifier")
	}
	if f.tracker.position != 3 {
		t.Errorf("checkpoint = %d, want 3 (advanced past quarantined item)", f.tracker.position)
	}
}

func TestWorkerQuarantineClearedOnSuccess(t *testing.T) {
	f := newFixture(pendingItem("a.png", 1))
	f.ledger.attempts["a.png"] = 1

	if _, err := enrichment.NewWorker(f.rt).Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if _, ok := f.ledger.attempts["a.png"]; ok {
		t.Error("successful commit should clear the ledger row")
	}
}

func TestWorkerResolveFailureRecorded(t *testing.T) {
	f := newFixture(pendingItem("a.png", 1))
	delete(f.storage.blobs, "a.png")

	summary, err := enrichment.NewWorker(f.rt).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if summary.Failed != 1 {
		t.Errorf("summary = %+v, want 1 failed", summary)
	}
	if f.classifier.calls != 0 {
		t.Error("classifier must not run for an unresolvable image")
	}
}

func TestWorkerPersistErrorAborts(t *testing.T) {
	f := newFixture(pendingItem("a.png", 1))
	f.enriched.commitErr = fmt.Errorf("database gone")

	if _, err := enrichment.NewWorker(f.rt).Run(context.Background()); err == nil {
		t.Error("record-store failure should abort the invocation")
	}
	if len(f.ledger.attempts) != 0 {
		t.Error("persist failures must not feed the failure ledger")
	}
	if f.tracker.position != 0 {
		t.Errorf("checkpoint = %d, want 0", f.tracker.position)
	}
}
