package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/jsonms/internal/config"
	"github.com/aretw0/jsonms/internal/logging"
	loamAdapter "github.com/aretw0/jsonms/pkg/adapters/loam"
	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/aretw0/jsonms/pkg/hub"
	"github.com/aretw0/jsonms/pkg/observability"
	"github.com/aretw0/jsonms/pkg/ports"
	"github.com/aretw0/jsonms/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// app is the wiring shared by the long-running commands.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	stores  *config.Stores
	hub     *hub.Hub
	library ports.TemplateSource
	metrics *observability.Metrics
}

// loadConfig reads the config file and applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug, _ = cmd.Flags().GetBool("debug")
	}
	if cmd.Flags().Changed("templates") {
		cfg.TemplatesDir, _ = cmd.Flags().GetString("templates")
	}
	return cfg, nil
}

func openLibrary(dir string) (ports.TemplateSource, error) {
	if dir == "" {
		return nil, nil
	}
	lib, err := loamAdapter.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open template library %s: %w", dir, err)
	}
	return lib, nil
}

// newLogger builds the JSON logger of the long-running commands.
func newLogger(cfg config.Config) *slog.Logger {
	return logging.NewJSON(logging.Level(cfg.Debug))
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger, hubOpts ...hub.Option) (*app, error) {
	a := &app{
		cfg:     cfg,
		logger:  logger,
		metrics: observability.NewMetrics(prometheus.NewRegistry()),
	}

	stores, err := cfg.Persistence.Open(ctx)
	if err != nil {
		return nil, err
	}
	a.stores = stores

	a.library, err = openLibrary(cfg.TemplatesDir)
	if err != nil {
		stores.Close()
		return nil, err
	}

	sessionOpts := []session.Option{session.WithLogger(a.logger)}
	if stores.Locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(stores.Locker))
	}

	opts := []hub.Option{
		hub.WithTargetOrigin(cfg.TargetOrigin),
		hub.WithDebounce(cfg.Debounce.Std()),
		hub.WithWatches(cfg.WatchLocale, cfg.WatchRoute),
		hub.WithSeed(cfg.Seed),
		hub.WithLogger(a.logger),
		hub.WithHooks(a.hooks()),
	}
	a.hub = hub.New(session.NewManager(stores.Snapshots, sessionOpts...), append(opts, hubOpts...)...)

	a.logger.Info("jsonms initialized",
		"driver", cfg.Persistence.Driver,
		"target_origin", cfg.TargetOrigin,
		"debounce", cfg.Debounce.Std(),
		"templates", cfg.TemplatesDir,
	)
	return a, nil
}

func (a *app) hooks() domain.Hooks {
	return observability.Compose(a.metrics.Hooks(), observability.LoggingHooks(a.logger))
}

// Close unbinds every session and releases the store.
func (a *app) Close() {
	a.hub.Shutdown()
	if err := a.stores.Close(); err != nil {
		a.logger.Error("Failed to close store", "error", err)
	}
}
