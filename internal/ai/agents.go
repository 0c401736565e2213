package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/JaimeStill/go-agents/pkg/format"

	"github.com/reclaimhq/reclaim/internal/categories"
	"github.com/reclaimhq/reclaim/internal/usage"
	"github.com/reclaimhq/reclaim/pkg/formatting"
)

type classifyResponse struct {
	Category string `json:"category"`
}

type scoreResponse struct {
	Score float64 `json:"score"`
}

// Agents implements Classifier, Describer, and SimilarityScorer on top of
// go-agents. Agents are constructed per call, matching the provider clients'
// lifecycle expectations under concurrent use.
type Agents struct {
	classifier gaconfig.AgentConfig
	describer  gaconfig.AgentConfig
	scorer     gaconfig.AgentConfig
	recorder   usage.Recorder
	pricing    usage.Pricing
	logger     *slog.Logger
}

// NewAgents creates the agent-backed model clients. Every call is accounted
// through the recorder using the given pricing.
func NewAgents(
	classifier gaconfig.AgentConfig,
	describer gaconfig.AgentConfig,
	scorer gaconfig.AgentConfig,
	recorder usage.Recorder,
	pricing usage.Pricing,
	logger *slog.Logger,
) *Agents {
	return &Agents{
		classifier: classifier,
		describer:  describer,
		scorer:     scorer,
		recorder:   recorder,
		pricing:    pricing,
		logger:     logger.With("system", "ai"),
	}
}

// DescriberModel returns the describer's model and provider names, stamped
// onto enrichment records for provenance.
func (a *Agents) DescriberModel() (model, provider string) {
	return modelInfo(&a.describer)
}

func (a *Agents) Classify(ctx context.Context, img Image) (categories.Category, error) {
	content, err := a.vision(ctx, "classify", &a.classifier, classifyPrompt(), img)
	if err != nil {
		return "", fmt.Errorf("classify: %w", err)
	}

	parsed, err := formatting.Parse[classifyResponse](content)
	if err != nil {
		return "", fmt.Errorf("classify: parse response: %w", err)
	}

	return categories.Normalize(parsed.Category), nil
}

func (a *Agents) Describe(ctx context.Context, img Image, category categories.Category) (string, error) {
	content, err := a.vision(ctx, "describe", &a.describer, describePrompt(category), img)
	if err != nil {
		return "", fmt.Errorf("describe: %w", err)
	}

	return content, nil
}

func (a *Agents) Score(ctx context.Context, textA, textB string) (float64, error) {
	prompt := scorePrompt(textA, textB)

	ag, err := agent.New(&a.scorer)
	if err != nil {
		return 0, fmt.Errorf("score: create agent: %w", err)
	}

	started := time.Now()
	resp, err := ag.Chat(ctx, prompt)
	if err != nil {
		return 0, fmt.Errorf("score: chat call: %w", err)
	}

	content := resp.Text()
	a.record(ctx, "score", &a.scorer, prompt, content, time.Since(started))

	parsed, err := formatting.Parse[scoreResponse](content)
	if err != nil {
		return 0, fmt.Errorf("score: parse response: %w", err)
	}

	return clamp(parsed.Score), nil
}

func (a *Agents) vision(
	ctx context.Context,
	operation string,
	cfg *gaconfig.AgentConfig,
	prompt string,
	img Image,
) (string, error) {
	dataURI, err := encodeImage(img)
	if err != nil {
		return "", err
	}

	ag, err := agent.New(cfg)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	started := time.Now()
	resp, err := ag.Vision(ctx, prompt, []format.Image{{URL: dataURI}})
	if err != nil {
		return "", fmt.Errorf("vision call: %w", err)
	}

	content := resp.Text()
	a.record(ctx, operation, cfg, prompt, content, time.Since(started))

	return content, nil
}

// record accounts a completed call. Accounting failures are logged, never
// surfaced; a dropped usage row must not fail an enrichment.
func (a *Agents) record(
	ctx context.Context,
	operation string,
	cfg *gaconfig.AgentConfig,
	prompt, completion string,
	duration time.Duration,
) {
	promptTokens := usage.EstimateTokens(prompt)
	completionTokens := usage.EstimateTokens(completion)
	model, provider := modelInfo(cfg)

	rec := usage.Record{
		Operation:        operation,
		ModelName:        model,
		ProviderName:     provider,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		CostUSD:          a.pricing.Cost(promptTokens, completionTokens),
		DurationMS:       duration.Milliseconds(),
	}

	if err := a.recorder.Record(ctx, rec); err != nil {
		a.logger.Warn("usage recording failed", "operation", operation, "error", err)
	}
}

func modelInfo(cfg *gaconfig.AgentConfig) (model, provider string) {
	if cfg.Model != nil {
		model = cfg.Model.Name
	}
	if cfg.Provider != nil {
		provider = cfg.Provider.Name
	}
	return model, provider
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
