package config

import (
	"fmt"
	"os"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// AgentsConfig holds the go-agents configurations for the three model roles:
// the vision classifier, the vision describer, and the chat similarity scorer.
type AgentsConfig struct {
	Classifier gaconfig.AgentConfig `toml:"classifier"`
	Describer  gaconfig.AgentConfig `toml:"describer"`
	Scorer     gaconfig.AgentConfig `toml:"scorer"`
}

// Finalize applies defaults, environment variable overrides, and validation
// to each agent config. Environment overrides use role-scoped prefixes, e.g.
// RECLAIM_CLASSIFIER_MODEL_NAME.
func (c *AgentsConfig) Finalize() error {
	if c.Classifier.Name == "" {
		c.Classifier.Name = "classifier"
	}
	if c.Describer.Name == "" {
		c.Describer.Name = "describer"
	}
	if c.Scorer.Name == "" {
		c.Scorer.Name = "scorer"
	}

	if err := finalizeAgent(&c.Classifier, "RECLAIM_CLASSIFIER"); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	if err := finalizeAgent(&c.Describer, "RECLAIM_DESCRIBER"); err != nil {
		return fmt.Errorf("describer: %w", err)
	}
	if err := finalizeAgent(&c.Scorer, "RECLAIM_SCORER"); err != nil {
		return fmt.Errorf("scorer: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay for each agent.
func (c *AgentsConfig) Merge(overlay *AgentsConfig) {
	c.Classifier.Merge(&overlay.Classifier)
	c.Describer.Merge(&overlay.Describer)
	c.Scorer.Merge(&overlay.Scorer)
}

// finalizeAgent applies the three-phase finalize pattern to a go-agents
// AgentConfig: defaults from DefaultAgentConfig, environment variable
// overrides under the given prefix, and validation.
func finalizeAgent(c *gaconfig.AgentConfig, prefix string) error {
	loadAgentDefaults(c)
	loadAgentEnv(c, prefix)
	return validateAgent(c)
}

func loadAgentDefaults(c *gaconfig.AgentConfig) {
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	*c = defaults
}

func loadAgentEnv(c *gaconfig.AgentConfig, prefix string) {
	if c.Provider == nil {
		c.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Provider.Options == nil {
		c.Provider.Options = make(map[string]any)
	}
	if c.Model == nil {
		c.Model = &gaconfig.ModelConfig{}
	}
	if v := os.Getenv(prefix + "_PROVIDER_NAME"); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv(prefix + "_BASE_URL"); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv(prefix + "_MODEL_NAME"); v != "" {
		c.Model.Name = v
	}

	setOption := func(suffix, key string) {
		if v := os.Getenv(prefix + suffix); v != "" {
			c.Provider.Options[key] = v
		}
	}

	setOption("_TOKEN", "token")
	setOption("_DEPLOYMENT", "deployment")
	setOption("_API_VERSION", "api_version")
	setOption("_AUTH_TYPE", "auth_type")
}

func validateAgent(c *gaconfig.AgentConfig) error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.Provider == nil {
		return fmt.Errorf("provider required")
	}
	if c.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	if c.Model == nil {
		return fmt.Errorf("model required")
	}
	return nil
}
