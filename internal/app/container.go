package app

import (
	"context"
	"fmt"

	"github.com/doeshing/calc-go/internal/application/engine"
	"github.com/doeshing/calc-go/internal/application/registry"
	"github.com/doeshing/calc-go/internal/domain"
	"github.com/doeshing/calc-go/internal/infrastructure/config"
	"github.com/doeshing/calc-go/internal/infrastructure/history"
	"github.com/doeshing/calc-go/internal/infrastructure/plugin"
	"github.com/doeshing/calc-go/internal/pkg/logger"
	"github.com/doeshing/calc-go/internal/ports"
)

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config       domain.Config
	ConfigLoader *config.FileLoader
	Registry     ports.OperationRegistry
	Engine       *engine.Service
	HistoryStore ports.HistoryRepository
	PluginLoader ports.PluginLoader
	Logger       ports.Logger
}

// BuildContainer constructs the dependency graph. Plugin loading completes
// here, before anything can resolve an operation; a registry that ends up
// with zero operations is the one fatal startup condition.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	level := logger.ParseLevel(cfg.LogLevel)
	if verbose {
		level = logger.LevelDebug
	}
	log := logger.NewStd(level)

	var store ports.HistoryRepository
	switch cfg.History.Backend {
	case domain.BackendJSONL:
		store = history.NewFileStore(cfg.History.FilePath)
	default:
		store = history.NewSQLiteStore(cfg.History.FilePath)
	}

	reg := registry.NewWithBuiltins()
	loader := plugin.NewLuaLoader(cfg.Plugins.Directory, log)
	LoadPlugins(reg, loader, cfg.Plugins.Directory, log)

	if len(reg.List()) == 0 {
		return nil, fmt.Errorf("no operations available: registry is empty")
	}

	return &Container{
		Config:       cfg,
		ConfigLoader: cfgLoader,
		Registry:     reg,
		Engine:       engine.New(reg, store, log),
		HistoryStore: store,
		PluginLoader: loader,
		Logger:       log,
	}, nil
}

// LoadPlugins loads every plugin in dir and merges the valid ones into the
// registry. Failures are logged and skipped; the valid plugins still load.
func LoadPlugins(reg ports.OperationRegistry, loader ports.PluginLoader, dir string, log ports.Logger) {
	for _, res := range loader.LoadAll(dir) {
		if res.Err != nil {
			continue // already logged by the loader
		}
		if err := loader.RegisterInto(reg, res.Plugin); err != nil {
			log.Error("failed to register plugin", err, map[string]interface{}{
				"plugin": res.Identifier,
			})
			continue
		}
		log.Info("plugin registered", map[string]interface{}{
			"plugin": res.Plugin.Name,
			"path":   res.Plugin.Path,
		})
	}
}
