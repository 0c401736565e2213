// Package config defines the root Reclaim configuration loaded from
// config.toml, environment-specific overlays, and RECLAIM_ environment
// variables. Every section follows a three-phase finalize: defaults,
// environment overrides, then validation.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/reclaimhq/reclaim/pkg/database"
	"github.com/reclaimhq/reclaim/pkg/openapi"
	"github.com/reclaimhq/reclaim/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvReclaimEnv             = "RECLAIM_ENV"
	EnvReclaimShutdownTimeout = "RECLAIM_SHUTDOWN_TIMEOUT"
	EnvReclaimVersion         = "RECLAIM_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "RECLAIM_DB_HOST",
	Port:            "RECLAIM_DB_PORT",
	Name:            "RECLAIM_DB_NAME",
	User:            "RECLAIM_DB_USER",
	Password:        "RECLAIM_DB_PASSWORD",
	SSLMode:         "RECLAIM_DB_SSL_MODE",
	MaxOpenConns:    "RECLAIM_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "RECLAIM_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "RECLAIM_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "RECLAIM_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "RECLAIM_STORAGE_CONTAINER_NAME",
	ConnectionString: "RECLAIM_STORAGE_CONNECTION_STRING",
	PresignTTL:       "RECLAIM_STORAGE_PRESIGN_TTL",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "RECLAIM_OPENAPI_TITLE",
	Description: "RECLAIM_OPENAPI_DESCRIPTION",
}

// Config is the root configuration for the Reclaim service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Agents          AgentsConfig    `toml:"agents"`
	Worker          WorkerConfig    `toml:"worker"`
	Matching        MatchingConfig  `toml:"matching"`
	Usage           UsageConfig     `toml:"usage"`
	OpenAPI         openapi.Config  `toml:"openapi"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the RECLAIM_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvReclaimEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Agents.Merge(&overlay.Agents)
	c.Worker.Merge(&overlay.Worker)
	c.Matching.Merge(&overlay.Matching)
	c.Usage.Merge(&overlay.Usage)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Agents.Finalize(); err != nil {
		return fmt.Errorf("agents: %w", err)
	}
	if err := c.Worker.Finalize(); err != nil {
		return fmt.Errorf("worker: %w", err)
	}
	if err := c.Matching.Finalize(); err != nil {
		return fmt.Errorf("matching: %w", err)
	}
	if err := c.Usage.Finalize(); err != nil {
		return fmt.Errorf("usage: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvReclaimShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvReclaimVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvReclaimEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
