package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvMatchingTopK           = "RECLAIM_MATCHING_TOP_K"
	EnvMatchingTemporalWindow = "RECLAIM_MATCHING_TEMPORAL_WINDOW"
)

// MatchingConfig holds claim matching parameters. TemporalWindow restricts
// candidates to items found within the window around the claim lodged time;
// empty or "off" disables the filter.
type MatchingConfig struct {
	TopK           int    `toml:"top_k"`
	TemporalWindow string `toml:"temporal_window"`
}

// TemporalWindowDuration returns the temporal window as a duration,
// zero when the filter is disabled.
func (c *MatchingConfig) TemporalWindowDuration() time.Duration {
	if c.temporalWindowOff() {
		return 0
	}
	d, _ := time.ParseDuration(c.TemporalWindow)
	return d
}

func (c *MatchingConfig) temporalWindowOff() bool {
	return c.TemporalWindow == "" || strings.EqualFold(c.TemporalWindow, "off")
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *MatchingConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *MatchingConfig) Merge(overlay *MatchingConfig) {
	if overlay.TopK != 0 {
		c.TopK = overlay.TopK
	}
	if overlay.TemporalWindow != "" {
		c.TemporalWindow = overlay.TemporalWindow
	}
}

func (c *MatchingConfig) loadDefaults() {
	if c.TopK == 0 {
		c.TopK = 3
	}
	if c.TemporalWindow == "" {
		c.TemporalWindow = "off"
	}
}

func (c *MatchingConfig) loadEnv() {
	if v := os.Getenv(EnvMatchingTopK); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TopK = n
		}
	}
	if v := os.Getenv(EnvMatchingTemporalWindow); v != "" {
		c.TemporalWindow = v
	}
}

func (c *MatchingConfig) validate() error {
	if c.TopK < 1 {
		return fmt.Errorf("top_k must be positive: %d", c.TopK)
	}
	if !c.temporalWindowOff() {
		if _, err := time.ParseDuration(c.TemporalWindow); err != nil {
			return fmt.Errorf("invalid temporal_window: %w", err)
		}
	}
	return nil
}
