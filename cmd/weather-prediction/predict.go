package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/i474232898/weather-prediction/internal/report"
	"github.com/i474232898/weather-prediction/internal/weather"
)

var (
	predictCity    string
	predictCountry string
	predictDays    int
	predictLine    bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Fetch once and print reconciled predictions for a city",
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

		days := cfg.PredictionDays
		if cmd.Flags().Changed("days") {
			days = predictDays
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.HTTPTimeout+10*time.Second)
		defer cancel()

		service := buildService(cfg, nil)
		loc, err := service.Resolve(ctx, predictCity, predictCountry)
		if err != nil {
			return err
		}

		r, err := service.Predict(ctx, loc, days, cfg.PredictionLineDays)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if err := report.WritePredictions(out, r); err != nil {
			return err
		}
		if predictLine && r.Available {
			return report.WriteLine(out, r.PredictionLine)
		}
		return nil
	},
}

var citiesCmd = &cobra.Command{
	Use:   "cities",
	Short: "List the built-in city catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return report.WriteCities(cmd.OutOrStdout(), weather.Cities)
	},
}

func init() {
	predictCmd.Flags().StringVar(&predictCity, "city", weather.DefaultCity().Name, "city name")
	predictCmd.Flags().StringVar(&predictCountry, "country", "", "two-letter country code")
	predictCmd.Flags().IntVar(&predictDays, "days", 3, "days ahead to predict (overrides PREDICTION_DAYS)")
	predictCmd.Flags().BoolVar(&predictLine, "line", false, "also print the trend-only projection")
}
