package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvWorkerPollInterval        = "RECLAIM_WORKER_POLL_INTERVAL"
	EnvWorkerParallelism         = "RECLAIM_WORKER_PARALLELISM"
	EnvWorkerMaxAttempts         = "RECLAIM_WORKER_MAX_ATTEMPTS"
	EnvWorkerBackoffBase         = "RECLAIM_WORKER_BACKOFF_BASE"
	EnvWorkerCallTimeout         = "RECLAIM_WORKER_CALL_TIMEOUT"
	EnvWorkerQuarantineThreshold = "RECLAIM_WORKER_QUARANTINE_THRESHOLD"
)

// WorkerConfig holds enrichment worker parameters: polling cadence,
// parallelism, model call timeouts, and the retry and quarantine policy.
type WorkerConfig struct {
	PollInterval        string `toml:"poll_interval"`
	Parallelism         int    `toml:"parallelism"`
	MaxAttempts         int    `toml:"max_attempts"`
	BackoffBase         string `toml:"backoff_base"`
	CallTimeout         string `toml:"call_timeout"`
	QuarantineThreshold int    `toml:"quarantine_threshold"`
}

// PollIntervalDuration returns PollInterval as a time.Duration.
func (c *WorkerConfig) PollIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.PollInterval)
	return d
}

// BackoffBaseDuration returns BackoffBase as a time.Duration.
func (c *WorkerConfig) BackoffBaseDuration() time.Duration {
	d, _ := time.ParseDuration(c.BackoffBase)
	return d
}

// CallTimeoutDuration returns CallTimeout as a time.Duration.
func (c *WorkerConfig) CallTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.CallTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *WorkerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *WorkerConfig) Merge(overlay *WorkerConfig) {
	if overlay.PollInterval != "" {
		c.PollInterval = overlay.PollInterval
	}
	if overlay.Parallelism != 0 {
		c.Parallelism = overlay.Parallelism
	}
	if overlay.MaxAttempts != 0 {
		c.MaxAttempts = overlay.MaxAttempts
	}
	if overlay.BackoffBase != "" {
		c.BackoffBase = overlay.BackoffBase
	}
	if overlay.CallTimeout != "" {
		c.CallTimeout = overlay.CallTimeout
	}
	if overlay.QuarantineThreshold != 0 {
		c.QuarantineThreshold = overlay.QuarantineThreshold
	}
}

func (c *WorkerConfig) loadDefaults() {
	if c.PollInterval == "" {
		c.PollInterval = "15s"
	}
	if c.Parallelism == 0 {
		c.Parallelism = 4
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	if c.BackoffBase == "" {
		c.BackoffBase = "500ms"
	}
	if c.CallTimeout == "" {
		c.CallTimeout = "2m"
	}
	if c.QuarantineThreshold == 0 {
		c.QuarantineThreshold = 5
	}
}

func (c *WorkerConfig) loadEnv() {
	setInt := func(envVar string, target *int) {
		if v := os.Getenv(envVar); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*target = n
			}
		}
	}

	if v := os.Getenv(EnvWorkerPollInterval); v != "" {
		c.PollInterval = v
	}
	if v := os.Getenv(EnvWorkerBackoffBase); v != "" {
		c.BackoffBase = v
	}
	if v := os.Getenv(EnvWorkerCallTimeout); v != "" {
		c.CallTimeout = v
	}

	setInt(EnvWorkerParallelism, &c.Parallelism)
	setInt(EnvWorkerMaxAttempts, &c.MaxAttempts)
	setInt(EnvWorkerQuarantineThreshold, &c.QuarantineThreshold)
}

func (c *WorkerConfig) validate() error {
	if _, err := time.ParseDuration(c.PollInterval); err != nil {
		return fmt.Errorf("invalid poll_interval: %w", err)
	}
	if _, err := time.ParseDuration(c.BackoffBase); err != nil {
		return fmt.Errorf("invalid backoff_base: %w", err)
	}
	if _, err := time.ParseDuration(c.CallTimeout); err != nil {
		return fmt.Errorf("invalid call_timeout: %w", err)
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("parallelism must be positive: %d", c.Parallelism)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be positive: %d", c.MaxAttempts)
	}
	if c.QuarantineThreshold < c.MaxAttempts {
		return fmt.Errorf("quarantine_threshold %d must be at least max_attempts %d",
			c.QuarantineThreshold, c.MaxAttempts)
	}
	return nil
}
