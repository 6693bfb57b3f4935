package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/beamgrid/internal/config"
	"github.com/vk/beamgrid/internal/ctxlog"
	"github.com/vk/beamgrid/internal/metrics"
	"github.com/vk/beamgrid/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	loader     config.Loader
	registry   *registry.Registry
	metrics    *metrics.Registry
	httpServer *http.Server
}

// NewApp is the constructor for the main application. Command results go to
// outW, logs to logW. Without modules the core node kinds are registered.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := registry.New(modules...)
	logger.Debug("All node modules registered.", "count", len(modules), "types", reg.Types())

	if err := reg.ValidateRegistry(ctx); err != nil {
		// A factory disagreeing with its registration is a programmer error.
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		loader:   loader,
		registry: reg,
		metrics:  metrics.NewRegistry(),
	}
}

// Registry returns the application's node registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Metrics returns the application's collectors.
func (a *App) Metrics() *metrics.Registry {
	return a.metrics
}
