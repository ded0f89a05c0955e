package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/jsonms/internal/config"
	"github.com/aretw0/jsonms/internal/presentation/tui"
	httpAdapter "github.com/aretw0/jsonms/pkg/adapters/http"
	"github.com/aretw0/jsonms/pkg/hub"
	"github.com/aretw0/lifecycle"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the jsonms bridge as an HTTP server. Editors push slot values through
POST /sessions/{id}/events and previews follow GET /sessions/{id}/messages (SSE).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("target-origin") {
			cfg.TargetOrigin, _ = cmd.Flags().GetString("target-origin")
		}
		if cmd.Flags().Changed("debounce") {
			d, _ := cmd.Flags().GetDuration("debounce")
			cfg.Debounce = config.Duration(d)
		}
		if cmd.Flags().Changed("driver") {
			cfg.Persistence.Driver, _ = cmd.Flags().GetString("driver")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx := lifecycle.NewSignalContext(context.Background())

		logger := newLogger(cfg)
		streams := httpAdapter.NewStreamManager(logger)
		a, err := newApp(ctx, cfg, logger,
			hub.WithParents(streams.Parent),
			hub.WithDiffListener(streams.PublishDiff),
		)
		if err != nil {
			return err
		}
		defer a.Close()

		handler := httpAdapter.NewHandler(a.hub, streams,
			httpAdapter.WithLibrary(a.library),
			httpAdapter.WithMetrics(a.metrics),
			httpAdapter.WithHooks(a.hooks()),
			httpAdapter.WithLogger(a.logger),
		)

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Port),
			Handler: handler,
		}

		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout)
		}

		serverErrors := make(chan error, 1)
		lifecycle.Go(ctx, func(ctx context.Context) error {
			a.logger.Info("Starting jsonms server", "address", srv.Addr)
			serverErrors <- srv.ListenAndServe()
			return nil
		})

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil

		case <-ctx.Done():
			a.logger.Info("Start shutdown")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			a.logger.Info("jsonms server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("target-origin", "*", "Origin outbound notifications are restricted to")
	serveCmd.Flags().Duration("debounce", 0, "Debounce delay of outbound notifications")
	serveCmd.Flags().String("driver", "memory", "Persistence driver (memory, file, redis, sqlite)")
}
