package app

import (
	"io"
	"log/slog"

	"github.com/ChenchengLiang/tf2-gnn/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle for one training invocation.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and registry. When
// no modules are passed, the built-in task modules are registered.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) *App {
	return newApp(outW, cfg.LogLevel, cfg.LogFormat, modules)
}

// NewEvalApp is the constructor used by the evaluation entry point.
func NewEvalApp(outW io.Writer, cfg *EvalConfig, modules ...registry.Module) *App {
	return newApp(outW, cfg.LogLevel, cfg.LogFormat, modules)
}

func newApp(outW io.Writer, logLevel, logFormat string, modules []registry.Module) *App {
	logger := newLogger(logLevel, logFormat, outW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All task modules registered.",
		"tasks", reg.KnownTasks(),
		"message_passing", reg.KnownMessagePassing())

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
