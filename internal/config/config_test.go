package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/example/rewards/internal/core/identity"
)

func TestSaveAndLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg := &Config{
		Identity:   identity.Identity{0xA1}.String(),
		Deployment: identity.Identity{0xD0}.String(),
		DBPath:     "/tmp/rewards.db",
	}
	if err := SaveConfig(dir, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, ".rewards", "config.json")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Version != ConfigVersion {
		t.Errorf("expected version %q, got %q", ConfigVersion, loaded.Version)
	}
	if loaded.Identity != cfg.Identity || loaded.Deployment != cfg.Deployment || loaded.DBPath != cfg.DBPath {
		t.Errorf("config not round-tripped: %+v", loaded)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	if _, err := LoadConfig(t.TempDir()); err == nil {
		t.Error("expected error for missing config")
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != DefaultLogLevel || cfg.LogFormat != DefaultLogFormat {
		t.Errorf("expected default logging, got %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.OTel.Enabled || cfg.OTel.ServiceName != DefaultServiceName {
		t.Errorf("unexpected otel defaults: %+v", cfg.OTel)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	if err := SaveConfig(dir, &Config{DBPath: "/from/file.db", LogLevel: "warn"}); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	t.Setenv("REWARDS_DB_PATH", "/from/env.db")
	t.Setenv("REWARDS_OTEL_ENABLED", "true")
	t.Setenv("REWARDS_OTEL_ENDPOINT", "http://localhost:4318")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath != "/from/env.db" {
		t.Errorf("expected env db path, got %q", cfg.DBPath)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("expected file log level to survive, got %q", cfg.LogLevel)
	}
	if !cfg.OTel.Enabled || cfg.OTel.Endpoint != "http://localhost:4318" {
		t.Errorf("expected otel from env, got %+v", cfg.OTel)
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("REWARDS_OTEL_ENABLED", "not-a-bool")
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("expected error for malformed boolean")
	}
}

func TestIdentityAccessors(t *testing.T) {
	caller := identity.Identity{0xA1}

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "valid", cfg: Config{Identity: caller.String(), Deployment: caller.String()}},
		{name: "missing", cfg: Config{}, wantErr: true},
		{name: "malformed", cfg: Config{Identity: "0OIl", Deployment: "0OIl"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := tt.cfg.CallerIdentity()
			if (err != nil) != tt.wantErr {
				t.Fatalf("CallerIdentity error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && id != caller {
				t.Errorf("expected %s, got %s", caller, id)
			}
			if _, err := tt.cfg.DeploymentIdentity(); (err != nil) != tt.wantErr {
				t.Errorf("DeploymentIdentity error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
