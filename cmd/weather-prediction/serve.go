package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/weather-prediction/internal/api/http"
	"github.com/i474232898/weather-prediction/internal/metrics"
	"github.com/i474232898/weather-prediction/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the periodic fetcher",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := metrics.NewRegistry()
		service := buildService(cfg, reg)

		// Scheduler that periodically fetches and stores data.
		sched := scheduler.New(cfg.Locations, cfg.FetchInterval, cfg.FetchConcurrency, service, reg)
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()

		app := httpapi.NewApp(service, reg, httpapi.Defaults{
			PredictionDays:     cfg.PredictionDays,
			PredictionLineDays: cfg.PredictionLineDays,
		})

		go func() {
			log.Info().Str("port", cfg.Port).Msg("http server listening")
			if err := app.Listen(":" + cfg.Port); err != nil {
				log.Error().Err(err).Msg("fiber server stopped")
			}
		}()

		// Wait for termination signal
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error during shutdown")
		}
		return nil
	},
}
