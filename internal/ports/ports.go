// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The calculator core depends only on these
// abstractions; concrete implementations (YAML config files, SQLite stores,
// Lua plugin loaders, terminal REPLs) live in the infrastructure layer.
package ports

import (
	"context"

	"github.com/doeshing/calc-go/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.calc/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// OperationRegistry maps operation names to implementations.
//
// Registration policy: a plugin registration may override a built-in of the
// same name; a registration colliding with an existing binding of the same or
// higher precedence fails with domain.ErrDuplicateOperation.
type OperationRegistry interface {
	Register(op domain.Operation) error
	Resolve(name string) (domain.Operation, error)
	// List returns registered names in insertion order. The returned slice is
	// a defensive copy so caller mutation cannot affect registry state.
	List() []string
}

// HistoryRepository persists executed calculations. Appends are best-effort
// from the engine's point of view: a persistence failure is logged, never
// surfaced as an arithmetic error.
type HistoryRepository interface {
	Append(record domain.HistoryRecord) error
	Records(filter domain.HistoryFilter) ([]domain.HistoryRecord, error)
	Clear() error
	ExportCSV(path string) error
	// ImportCSV replaces the current history with the contents of a file
	// previously written by ExportCSV. Nothing is changed when the file
	// cannot be read or parsed.
	ImportCSV(path string) error
	Path() string
}

// PluginLoadResult pairs a discovered plugin identifier with its load outcome.
// A failed plugin never aborts the remaining batch.
type PluginLoadResult struct {
	Identifier string
	Plugin     domain.Plugin
	Err        error
}

// PluginLoader discovers, loads, and registers plugin units.
type PluginLoader interface {
	// Discover scans the directory for candidate plugin identifiers. Each
	// call re-scans; nothing is cached across calls.
	Discover(dir string) ([]string, error)
	// Load loads a single plugin by identifier. A missing unit fails with
	// *domain.PluginNotFoundError; any other load failure is reported as a
	// *domain.PluginLoadError wrapping the cause.
	Load(identifier string) (domain.Plugin, error)
	// LoadAll discovers then loads every candidate, isolating failures.
	LoadAll(dir string) []PluginLoadResult
	// RegisterInto validates the plugin exposes at least one operation and
	// merges them into the registry. Contract violations fail with an
	// domain.ErrInvalidPlugin-wrapped error.
	RegisterInto(registry OperationRegistry, plugin domain.Plugin) error
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
