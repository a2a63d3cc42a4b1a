package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/calc-go/internal/domain"
)

func TestLoadWritesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewFileLoader(path)

	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != "INFO" {
		t.Fatalf("default log level = %q, want INFO", cfg.LogLevel)
	}
	if cfg.History.Backend != domain.BackendSQLite {
		t.Fatalf("default backend = %q, want sqlite", cfg.History.Backend)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config was not written: %v", err)
	}
}

func TestLoadExistingConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
log_level: DEBUG
history:
  file_path: /tmp/calc/history.jsonl
  backend: jsonl
plugins:
  directory: /tmp/calc/plugins
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LogLevel != "DEBUG" {
		t.Fatalf("log level = %q, want DEBUG", cfg.LogLevel)
	}
	if cfg.History.Backend != domain.BackendJSONL {
		t.Fatalf("backend = %q, want jsonl", cfg.History.Backend)
	}
	if cfg.Plugins.Directory != "/tmp/calc/plugins" {
		t.Fatalf("plugin directory = %q", cfg.Plugins.Directory)
	}
	// Unset fields hydrate from defaults.
	if cfg.REPL.Prompt != domain.DefaultPrompt {
		t.Fatalf("prompt = %q, want hydrated default", cfg.REPL.Prompt)
	}
	if cfg.History.DisplayLimit != domain.DefaultHistoryLimit {
		t.Fatalf("display limit = %d, want hydrated default", cfg.History.DisplayLimit)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("history:\n  backend: postgres\n"), 0o600); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}

	if _, err := NewFileLoader(path).Load(context.Background()); err == nil {
		t.Fatal("Load() accepted an invalid backend")
	}
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("CALC_LOG_LEVEL", "ERROR")
	t.Setenv("CALC_PLUGIN_DIR", "/opt/calc/plugins")

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != "ERROR" {
		t.Fatalf("log level = %q, want env override ERROR", cfg.LogLevel)
	}
	if cfg.Plugins.Directory != "/opt/calc/plugins" {
		t.Fatalf("plugin directory = %q, want env override", cfg.Plugins.Directory)
	}
}

func TestLoadRoundTripsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewFileLoader(path)

	first, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("first Load() error = %v", err)
	}
	second, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("reloaded config differs (-first +second):\n%s", diff)
	}
}
