package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/calc-go/internal/domain"
	"github.com/doeshing/calc-go/internal/ports"
)

// Environment variables recognized by the loader. CALC_CONFIG relocates the
// config file; the per-option variables override individual fields.
const (
	envConfigPath  = "CALC_CONFIG"
	envLogLevel    = "CALC_LOG_LEVEL"
	envHistoryFile = "CALC_HISTORY_FILE"
	envPluginDir   = "CALC_PLUGIN_DIR"
)

// FileLoader loads YAML configuration from ~/.calc/config.yaml (overridable via CALC_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := writeDefault(path, cfg); err != nil {
				return domain.Config{}, err
			}
			return applyEnvOverrides(cfg), nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}

	cfg = applyEnvOverrides(hydrateDefaults(cfg))
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// Path returns the resolved configuration file path.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv(envConfigPath); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(userHomeDir(), ".calc", "config.yaml")
}

func ensureConfigDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, domain.DirectoryPermissions)
}

func writeDefault(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		LogLevel:            "INFO",
		History: domain.HistorySettings{
			FilePath:     filepath.Join(userHomeDir(), ".calc", "history", "history.db"),
			Backend:      domain.BackendSQLite,
			DisplayLimit: domain.DefaultHistoryLimit,
		},
		Plugins: domain.PluginSettings{
			Directory: filepath.Join(userHomeDir(), ".calc", "plugins"),
		},
		REPL: domain.REPLSettings{
			Prompt: domain.DefaultPrompt,
		},
	}
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	def := DefaultConfig()
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if cfg.History.FilePath == "" {
		cfg.History.FilePath = def.History.FilePath
	}
	if cfg.History.Backend == "" {
		cfg.History.Backend = def.History.Backend
	}
	if cfg.History.DisplayLimit == 0 {
		cfg.History.DisplayLimit = def.History.DisplayLimit
	}
	if cfg.Plugins.Directory == "" {
		cfg.Plugins.Directory = def.Plugins.Directory
	}
	if cfg.REPL.Prompt == "" {
		cfg.REPL.Prompt = def.REPL.Prompt
	}
	return cfg
}

func applyEnvOverrides(cfg domain.Config) domain.Config {
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(envHistoryFile); v != "" {
		cfg.History.FilePath = expandPath(v)
	}
	if v := os.Getenv(envPluginDir); v != "" {
		cfg.Plugins.Directory = expandPath(v)
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(userHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

func userHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
