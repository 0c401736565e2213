package enrichment

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/reclaimhq/reclaim/internal/ai"
	"github.com/reclaimhq/reclaim/internal/categories"
	"github.com/reclaimhq/reclaim/internal/enriched"
	"github.com/reclaimhq/reclaim/internal/tracker"
	"github.com/reclaimhq/reclaim/pkg/formatting"
)

// State bag keys for the per-record enrichment graph.
const (
	KeyItem     = "item"
	KeyImage    = "image"
	KeyCategory = "category"
	KeyRawText  = "raw_text"
	KeyInserted = "inserted"
)

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("reclaim-enrich")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("resolve", ResolveNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("classify", ClassifyNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("describe", DescribeNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("persist", PersistNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("resolve", "classify", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("classify", "describe", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("describe", "persist", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("resolve"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("persist"); err != nil {
		return nil, err
	}

	return graph, nil
}

// ResolveNode returns a state node that downloads the item photograph from
// blob storage. A missing blob is a resolution failure; it is never retried
// within the run since re-downloading cannot conjure the image.
func ResolveNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		item, err := extractItem(s)
		if err != nil {
			return s, fmt.Errorf("resolve: %w", err)
		}

		download, err := rt.Storage.Download(ctx, item.Filename)
		if err != nil {
			return s, fmt.Errorf("%w: %s: %w", ErrResolution, item.Filename, err)
		}
		defer download.Body.Close()

		data, err := io.ReadAll(download.Body)
		if err != nil {
			return s, fmt.Errorf("%w: read %s: %w", ErrResolution, item.Filename, err)
		}

		s = s.Set(KeyImage, ai.Image{Data: data, ContentType: download.ContentType})
		return s, nil
	})
}

// ClassifyNode returns a state node that labels the image against the closed
// vocabulary, with bounded exponential backoff on transient failure.
func ClassifyNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		item, err := extractItem(s)
		if err != nil {
			return s, fmt.Errorf("classify: %w", err)
		}

		img, err := extractImage(s)
		if err != nil {
			return s, fmt.Errorf("classify: %w", err)
		}

		var category categories.Category
		err = withRetry(ctx, rt.Options.MaxAttempts, rt.Options.BackoffBase, func(ctx context.Context) error {
			callCtx, cancel := context.WithTimeout(ctx, rt.Options.CallTimeout)
			defer cancel()

			var callErr error
			category, callErr = rt.Classifier.Classify(callCtx, img)
			return callErr
		})
		if err != nil {
			return s, fmt.Errorf("%w: %s: %w", ErrClassification, item.Filename, err)
		}

		rt.Logger.Debug("item classified", "filename", item.Filename, "category", category)

		s = s.Set(KeyCategory, category)
		return s, nil
	})
}

// DescribeNode returns a state node that requests attribute text for the
// image. Transport failures retry with backoff; the raw response is carried
// forward unparsed, so malformed output can still be persisted.
func DescribeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		item, err := extractItem(s)
		if err != nil {
			return s, fmt.Errorf("describe: %w", err)
		}

		img, err := extractImage(s)
		if err != nil {
			return s, fmt.Errorf("describe: %w", err)
		}

		category, err := extractCategory(s)
		if err != nil {
			return s, fmt.Errorf("describe: %w", err)
		}

		var raw string
		err = withRetry(ctx, rt.Options.MaxAttempts, rt.Options.BackoffBase, func(ctx context.Context) error {
			callCtx, cancel := context.WithTimeout(ctx, rt.Options.CallTimeout)
			defer cancel()

			var callErr error
			raw, callErr = rt.Describer.Describe(callCtx, img, category)
			return callErr
		})
		if err != nil {
			return s, fmt.Errorf("%w: %s: %w", ErrDescription, item.Filename, err)
		}

		s = s.Set(KeyRawText, raw)
		return s, nil
	})
}

// PersistNode returns a state node that parses the describer output and
// commits the enrichment record. Unparseable output is stored raw with
// details_parsed false rather than dropped. The commit transaction also
// advances the tracker checkpoint and clears the failure ledger.
func PersistNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		item, err := extractItem(s)
		if err != nil {
			return s, fmt.Errorf("persist: %w", err)
		}

		category, err := extractCategory(s)
		if err != nil {
			return s, fmt.Errorf("persist: %w", err)
		}

		raw, err := extractRawText(s)
		if err != nil {
			return s, fmt.Errorf("persist: %w", err)
		}

		record := enriched.EnrichedItem{
			Filename:       item.Filename,
			Classification: category,
			Location:       item.Location,
			FoundTime:      item.FoundTime,
			ModelName:      rt.Model.Name,
			ProviderName:   rt.Model.Provider,
		}

		details, parseErr := formatting.Parse[enriched.ItemDetails](raw)
		if parseErr != nil {
			rt.Logger.Warn(
				"describer output stored raw",
				"filename", item.Filename,
				"error", fmt.Errorf("%w: %w", ErrMalformedDetails, parseErr),
			)
			record.DetailsRaw = raw
			record.DetailsParsed = false
		} else {
			record.Details = &details
			record.DetailsParsed = true
		}

		inserted, err := rt.Enriched.Commit(
			ctx, record,
			advanceHook(rt, item.Seq),
			rt.Ledger.Clear(item.Filename),
		)
		if err != nil {
			return s, fmt.Errorf("persist: %s: %w", item.Filename, err)
		}

		s = s.Set(KeyInserted, inserted)
		return s, nil
	})
}

func advanceHook(rt *Runtime, seq int64) enriched.TxHook {
	return func(ctx context.Context, tx *sql.Tx) error {
		return rt.Tracker.AdvanceTx(ctx, tx, seq)
	}
}

func extractItem(s state.State) (tracker.PendingItem, error) {
	val, ok := s.Get(KeyItem)
	if !ok {
		return tracker.PendingItem{}, fmt.Errorf("missing %s in state", KeyItem)
	}

	item, ok := val.(tracker.PendingItem)
	if !ok {
		return tracker.PendingItem{}, fmt.Errorf("%s is not PendingItem", KeyItem)
	}

	return item, nil
}

func extractImage(s state.State) (ai.Image, error) {
	val, ok := s.Get(KeyImage)
	if !ok {
		return ai.Image{}, fmt.Errorf("missing %s in state", KeyImage)
	}

	img, ok := val.(ai.Image)
	if !ok {
		return ai.Image{}, fmt.Errorf("%s is not Image", KeyImage)
	}

	return img, nil
}

func extractCategory(s state.State) (categories.Category, error) {
	val, ok := s.Get(KeyCategory)
	if !ok {
		return "", fmt.Errorf("missing %s in state", KeyCategory)
	}

	category, ok := val.(categories.Category)
	if !ok {
		return "", fmt.Errorf("%s is not Category", KeyCategory)
	}

	return category, nil
}

func extractRawText(s state.State) (string, error) {
	val, ok := s.Get(KeyRawText)
	if !ok {
		return "", fmt.Errorf("missing %s in state", KeyRawText)
	}

	raw, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s is not string", KeyRawText)
	}

	return raw, nil
}
