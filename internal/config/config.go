package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/example/rewards/internal/core/identity"
)

// ConfigVersion is written into new config files.
const ConfigVersion = "1"

// Defaults applied after file and environment are merged.
const (
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultServiceName = "rewards"
)

// Config represents the rewards CLI configuration.
type Config struct {
	Version    string     `json:"version"`
	Identity   string     `json:"identity,omitempty" env:"REWARDS_IDENTITY"`     // caller identity (base58)
	Deployment string     `json:"deployment,omitempty" env:"REWARDS_DEPLOYMENT"` // deployment identity (base58)
	DBPath     string     `json:"db_path,omitempty" env:"REWARDS_DB_PATH"`
	LogLevel   string     `json:"log_level,omitempty" env:"REWARDS_LOG_LEVEL"`   // debug|info|warn|error
	LogFormat  string     `json:"log_format,omitempty" env:"REWARDS_LOG_FORMAT"` // text|json
	OTel       OTelConfig `json:"otel"`
}

// OTelConfig controls trace export. Tracing runs only when Enabled and
// Endpoint are both set.
type OTelConfig struct {
	Enabled     bool   `json:"enabled,omitempty" env:"REWARDS_OTEL_ENABLED"`
	Endpoint    string `json:"endpoint,omitempty" env:"REWARDS_OTEL_ENDPOINT"`
	ServiceName string `json:"service_name,omitempty" env:"REWARDS_OTEL_SERVICE_NAME"`
}

// LoadConfig reads .rewards/config.json from the specified directory.
// Resolution order: cwd only (no home fallback).
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".rewards", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	rewardsDir := filepath.Join(dir, ".rewards")
	if err := os.MkdirAll(rewardsDir, 0755); err != nil {
		return fmt.Errorf("failed to create .rewards dir: %w", err)
	}

	if cfg.Version == "" {
		cfg.Version = ConfigVersion
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(rewardsDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Load merges the config file in dir (if any) with REWARDS_* environment
// overrides and fills defaults. A missing file is not an error.
func Load(dir string) (*Config, error) {
	cfg, err := LoadConfig(dir)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = &Config{Version: ConfigVersion}
	} else if err != nil {
		return nil, err
	}

	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// ParseEnv overlays environment variables onto target. Unset variables
// leave existing values untouched.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	if c.OTel.ServiceName == "" {
		c.OTel.ServiceName = DefaultServiceName
	}
}

// CallerIdentity parses the configured caller identity.
func (c *Config) CallerIdentity() (identity.Identity, error) {
	if c.Identity == "" {
		return identity.Zero, fmt.Errorf("no identity configured (set REWARDS_IDENTITY or run 'rewards config set-identity')")
	}
	id, err := identity.Parse(c.Identity)
	if err != nil {
		return identity.Zero, fmt.Errorf("invalid identity: %w", err)
	}
	return id, nil
}

// DeploymentIdentity parses the configured deployment.
func (c *Config) DeploymentIdentity() (identity.Identity, error) {
	if c.Deployment == "" {
		return identity.Zero, fmt.Errorf("no deployment configured (set REWARDS_DEPLOYMENT or run 'rewards init')")
	}
	id, err := identity.Parse(c.Deployment)
	if err != nil {
		return identity.Zero, fmt.Errorf("invalid deployment: %w", err)
	}
	return id, nil
}
