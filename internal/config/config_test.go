package config_test

import (
	"testing"
	"time"

	"github.com/reclaimhq/reclaim/internal/config"
)

func TestWorkerConfigDefaults(t *testing.T) {
	cfg := config.WorkerConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	if cfg.PollInterval != "15s" {
		t.Errorf("PollInterval = %q, want 15s", cfg.PollInterval)
	}
	if cfg.Parallelism != 4 {
		t.Errorf("Parallelism = %d, want 4", cfg.Parallelism)
	}
	if cfg.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.MaxAttempts)
	}
	if cfg.QuarantineThreshold != 5 {
		t.Errorf("QuarantineThreshold = %d, want 5", cfg.QuarantineThreshold)
	}
	if cfg.PollIntervalDuration() != 15*time.Second {
		t.Errorf("PollIntervalDuration() = %v", cfg.PollIntervalDuration())
	}
	if cfg.BackoffBaseDuration() != 500*time.Millisecond {
		t.Errorf("BackoffBaseDuration() = %v", cfg.BackoffBaseDuration())
	}
}

func TestWorkerConfigQuarantineBelowAttempts(t *testing.T) {
	cfg := config.WorkerConfig{MaxAttempts: 4, QuarantineThreshold: 2}
	if err := cfg.Finalize(); err == nil {
		t.Error("expected error when quarantine_threshold < max_attempts")
	}
}

func TestWorkerConfigEnvOverride(t *testing.T) {
	t.Setenv(config.EnvWorkerParallelism, "8")
	t.Setenv(config.EnvWorkerPollInterval, "30s")

	cfg := config.WorkerConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	if cfg.Parallelism != 8 {
		t.Errorf("Parallelism = %d, want 8", cfg.Parallelism)
	}
	if cfg.PollInterval != "30s" {
		t.Errorf("PollInterval = %q, want 30s", cfg.PollInterval)
	}
}

func TestMatchingConfigDefaults(t *testing.T) {
	cfg := config.MatchingConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	if cfg.TopK != 3 {
		t.Errorf("TopK = %d, want 3", cfg.TopK)
	}
	if cfg.TemporalWindow != "off" {
		t.Errorf("TemporalWindow = %q, want off", cfg.TemporalWindow)
	}
	if cfg.TemporalWindowDuration() != 0 {
		t.Errorf("TemporalWindowDuration() = %v, want 0", cfg.TemporalWindowDuration())
	}
}

func TestMatchingConfigWindow(t *testing.T) {
	tests := []struct {
		name   string
		window string
		want   time.Duration
	}{
		{"off", "off", 0},
		{"off uppercase", "OFF", 0},
		{"48 hours", "48h", 48 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.MatchingConfig{TopK: 3, TemporalWindow: tt.window}
			if err := cfg.Finalize(); err != nil {
				t.Fatalf("Finalize() error: %v", err)
			}
			if got := cfg.TemporalWindowDuration(); got != tt.want {
				t.Errorf("TemporalWindowDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchingConfigInvalidWindow(t *testing.T) {
	cfg := config.MatchingConfig{TopK: 3, TemporalWindow: "two days"}
	if err := cfg.Finalize(); err == nil {
		t.Error("expected error for unparseable temporal_window")
	}
}

func TestUsageConfigDefaults(t *testing.T) {
	cfg := config.UsageConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	if cfg.InputTokenRate != 0.15 {
		t.Errorf("InputTokenRate = %v, want 0.15", cfg.InputTokenRate)
	}
	if cfg.OutputTokenRate != 0.60 {
		t.Errorf("OutputTokenRate = %v, want 0.60", cfg.OutputTokenRate)
	}
}

func TestServerConfigDefaults(t *testing.T) {
	cfg := config.ServerConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q, want 0.0.0.0:8080", cfg.Addr())
	}
}

func TestLoadWithoutConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RECLAIM_STORAGE_CONNECTION_STRING", "UseDevelopmentStorage=true")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ShutdownTimeout != "30s" {
		t.Errorf("ShutdownTimeout = %q, want 30s", cfg.ShutdownTimeout)
	}
	if cfg.Version != "0.1.0" {
		t.Errorf("Version = %q, want 0.1.0", cfg.Version)
	}
	if cfg.Storage.ContainerName != "found-items" {
		t.Errorf("ContainerName = %q, want found-items", cfg.Storage.ContainerName)
	}
	if cfg.Agents.Classifier.Name != "classifier" {
		t.Errorf("classifier name = %q", cfg.Agents.Classifier.Name)
	}
	if cfg.Agents.Classifier.Provider.Name != "ollama" {
		t.Errorf("classifier provider = %q, want ollama", cfg.Agents.Classifier.Provider.Name)
	}
	if cfg.Matching.TopK != 3 {
		t.Errorf("TopK = %d, want 3", cfg.Matching.TopK)
	}
	if cfg.OpenAPI.Title != "Reclaim API" {
		t.Errorf("OpenAPI title = %q", cfg.OpenAPI.Title)
	}
}

func TestConfigMergeOverlay(t *testing.T) {
	base := &config.Config{}
	base.Worker.PollInterval = "15s"
	base.Matching.TopK = 3

	overlay := &config.Config{}
	overlay.Worker.PollInterval = "5s"
	overlay.Version = "1.2.0"

	base.Merge(overlay)

	if base.Worker.PollInterval != "5s" {
		t.Errorf("PollInterval = %q, want 5s", base.Worker.PollInterval)
	}
	if base.Matching.TopK != 3 {
		t.Errorf("TopK = %d, want 3 (overlay zero skipped)", base.Matching.TopK)
	}
	if base.Version != "1.2.0" {
		t.Errorf("Version = %q, want 1.2.0", base.Version)
	}
}
