package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"docsync/internal/config"
	"docsync/pkg/logging"
)

// Application bootstraps and runs docsync.
//
// Initialization happens in two phases: NewApplication loads configuration,
// sets up logging and wires the services; Run starts the loop and blocks
// until the context is cancelled or a signal arrives.
//
//	cfg := app.NewConfig(false, "")
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	return application.Run(ctx)
type Application struct {
	config   *Config
	services *Services
}

// NewApplication loads the configuration from cfg.ConfigPath and initializes
// all services.
func NewApplication(cfg *Config, opts ...Option) (*Application, error) {
	dc, err := loadConfiguration(cfg, os.Stdout)
	if err != nil {
		return nil, err
	}

	services, err := InitializeServices(context.Background(), dc, opts...)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// loadConfiguration initializes logging and loads config.yaml. The --debug
// flag wins over the configured log level.
func loadConfiguration(cfg *Config, logOutput io.Writer) (config.DocsyncConfig, error) {
	level := logging.LevelInfo
	if cfg.Debug {
		level = logging.LevelDebug
	}
	logging.InitForCLI(level, logOutput)

	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = config.GetDefaultConfigPathOrPanic()
	}

	dc, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to load docsync configuration from path: %s", configPath)
		return config.DocsyncConfig{}, fmt.Errorf("failed to load docsync configuration from path %s: %w", configPath, err)
	}

	if !cfg.Debug && dc.LogLevel != "" {
		configured, err := logging.ParseLevel(dc.LogLevel)
		if err != nil {
			logging.Warn("Bootstrap", "Ignoring logLevel %q: %v", dc.LogLevel, err)
		} else if configured != level {
			logging.InitForCLI(configured, logOutput)
		}
	}

	cfg.DocsyncConfig = &dc
	return dc, nil
}

// Services returns the wired services.
func (a *Application) Services() *Services {
	return a.services
}

// Run starts the reconcile loop and its companions and blocks until ctx is
// cancelled or SIGINT/SIGTERM is received.
func (a *Application) Run(ctx context.Context) error {
	return runServe(ctx, a.services)
}
