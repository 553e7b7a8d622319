package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-prediction/internal/config"
	"github.com/i474232898/weather-prediction/internal/metrics"
	"github.com/i474232898/weather-prediction/internal/prediction"
	"github.com/i474232898/weather-prediction/internal/store"
	"github.com/i474232898/weather-prediction/internal/weather"
	"github.com/i474232898/weather-prediction/internal/weather/providers"
)

// buildService wires providers, store and engine into a weather.Service.
func buildService(cfg *config.AppConfig, reg *metrics.Registry) *weather.Service {
	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// In-memory store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Providers with resilience (backoff + circuit breaker).
	provs := []weather.Provider{
		providers.NewOpenMeteoProvider(httpClient, cfg.PastDays, cfg.ForecastDays),
		providers.NewNWSProvider(httpClient, cfg.NWSUserAgent),
	}

	// Cities outside the catalog need the Google geocoder.
	var geo weather.Geocoder
	if cfg.GeocoderAPIKey != "" {
		g, err := providers.NewGoogleGeocoder(cfg.GeocoderAPIKey)
		if err != nil {
			log.Warn().Err(err).Msg("geocoder disabled")
		} else {
			geo = g
		}
	}

	engine := prediction.NewEngine(prediction.WithTolerance(cfg.AgreementTolerance))

	return weather.NewService(memStore, provs,
		weather.WithEngine(engine),
		weather.WithResolver(weather.NewResolver(geo)),
		weather.WithMetrics(reg),
		weather.WithHistorySource(cfg.HistoryProvider),
	)
}
