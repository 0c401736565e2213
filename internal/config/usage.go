package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvUsageInputTokenRate  = "RECLAIM_USAGE_INPUT_TOKEN_RATE"
	EnvUsageOutputTokenRate = "RECLAIM_USAGE_OUTPUT_TOKEN_RATE"
)

// UsageConfig holds token pricing rates in dollars per million tokens,
// used to estimate the cost of model calls.
type UsageConfig struct {
	InputTokenRate  float64 `toml:"input_token_rate"`
	OutputTokenRate float64 `toml:"output_token_rate"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *UsageConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *UsageConfig) Merge(overlay *UsageConfig) {
	if overlay.InputTokenRate != 0 {
		c.InputTokenRate = overlay.InputTokenRate
	}
	if overlay.OutputTokenRate != 0 {
		c.OutputTokenRate = overlay.OutputTokenRate
	}
}

func (c *UsageConfig) loadDefaults() {
	if c.InputTokenRate == 0 {
		c.InputTokenRate = 0.15
	}
	if c.OutputTokenRate == 0 {
		c.OutputTokenRate = 0.60
	}
}

func (c *UsageConfig) loadEnv() {
	setRate := func(envVar string, target *float64) {
		if v := os.Getenv(envVar); v != "" {
			if rate, err := strconv.ParseFloat(v, 64); err == nil {
				*target = rate
			}
		}
	}

	setRate(EnvUsageInputTokenRate, &c.InputTokenRate)
	setRate(EnvUsageOutputTokenRate, &c.OutputTokenRate)
}

func (c *UsageConfig) validate() error {
	if c.InputTokenRate < 0 {
		return fmt.Errorf("input_token_rate must not be negative: %f", c.InputTokenRate)
	}
	if c.OutputTokenRate < 0 {
		return fmt.Errorf("output_token_rate must not be negative: %f", c.OutputTokenRate)
	}
	return nil
}
