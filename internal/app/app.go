// Package app implements Component M: construction of the logger, the
// block-type and block registries, and the lifecycle (load -> run ->
// teardown) the cmd/linkblocksd entrypoint drives.
//
// Grounded on burstgridgo's internal/app/app.go: an App struct holding its
// own isolated logger and registry, built once in NewApp and driven to
// completion by Run.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mdsebald/LinkBlocks/internal/config"
	"github.com/mdsebald/LinkBlocks/internal/hcl"
	"github.com/mdsebald/LinkBlocks/internal/metrics"
	"github.com/mdsebald/LinkBlocks/internal/persist"
	"github.com/mdsebald/LinkBlocks/internal/registry"
	"github.com/mdsebald/LinkBlocks/internal/timer"
)

// App encapsulates every dependency a running daemon needs.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	registry   *registry.Registry
	metrics    *metrics.Collectors
	store      *persist.Store
	httpServer *httpServer
}

// NewApp constructs a fully wired App: logger, block-type registry, metrics
// collectors, optional durable store, and the block registry itself. It
// does not yet load any definitions or start the HTTP server — call Run for
// that.
func NewApp(outW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("logger configured")

	types, err := newTypeRegistry()
	if err != nil {
		return nil, err
	}

	collectors := metrics.New()
	sched := timer.NewScheduler()

	var store *persist.Store
	if cfg.StateDBPath != "" {
		store, err = persist.Open(cfg.StateDBPath)
		if err != nil {
			return nil, fmt.Errorf("app: open state db: %w", err)
		}
		logger.Debug("exec counter persistence enabled", "path", cfg.StateDBPath)
	}

	var storeIface registry.Store
	if store != nil {
		storeIface = store
	}

	reg := registry.New(types, sched, logger, storeIface, collectors)

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		metrics:  collectors,
		store:    store,
	}, nil
}

// Registry returns the app's block registry, primarily for testing.
func (a *App) Registry() *registry.Registry { return a.registry }

// LoadDefinitions reads every persisted block definition from the app's
// configured path and creates the corresponding live block in the registry.
func (a *App) LoadDefinitions(ctx context.Context) error {
	loader := hcl.NewLoader()
	model, err := loadModel(loader, a.config.DefinitionsPath)
	if err != nil {
		return fmt.Errorf("app: load definitions: %w", err)
	}

	for _, def := range model.Definitions {
		cfg, in, out, err := def.ToContainers()
		if err != nil {
			return fmt.Errorf("app: definition %q: %w", def.Name, err)
		}
		if err := a.registry.CreateBlock(def.Type, def.Name, def.Description, cfg, in, out); err != nil {
			return fmt.Errorf("app: create block %q: %w", def.Name, err)
		}
		a.logger.Debug("block created", "name", def.Name, "type", def.Type)
	}
	a.logger.Info("definitions loaded", "count", len(model.Definitions))
	return nil
}

func loadModel(loader config.Loader, path string) (*config.Model, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return loader.Load(path)
	}
	paths, err := filepath.Glob(filepath.Join(path, "*.hcl"))
	if err != nil {
		return nil, err
	}
	return loader.Load(paths...)
}

// Close releases resources NewApp acquired (currently just the durable
// counter store, if one was opened).
func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}
