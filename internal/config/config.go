package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-prediction/internal/weather"
)

type AppConfig struct {
	Port     string `validate:"required,numeric"`
	LogLevel string `validate:"oneof=trace debug info warn error"`

	HTTPTimeout time.Duration `validate:"gt=0"`

	// FetchInterval controls how often we fetch data for each location.
	FetchInterval    time.Duration `validate:"gte=1m"`
	FetchConcurrency int           `validate:"gte=1,lte=32"`

	// Locations to prefetch.
	Locations []weather.Location `validate:"dive"`

	// In-memory store retention.
	StoreMaxHistory int           // max number of datasets per location (0 = unlimited)
	StoreMaxAge     time.Duration // max age of datasets (0 = unlimited)

	HistoryProvider string `validate:"oneof=openmeteo nws"`
	PastDays        int    `validate:"gte=3,lte=92"`
	ForecastDays    int    `validate:"gte=1,lte=16"`

	PredictionDays     int     `validate:"gte=1,lte=7"`
	PredictionLineDays int     `validate:"gte=1,lte=14"`
	AgreementTolerance float64 `validate:"gte=0"`

	NWSUserAgent   string `validate:"required"`
	GeocoderAPIKey string
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", "info"))
	cfg.NWSUserAgent = getenvDefault("NWS_USER_AGENT", "weather-prediction/1.0")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	cfg.HistoryProvider = strings.ToLower(getenvDefault("HISTORY_PROVIDER", "openmeteo"))

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", "30m"); err != nil {
		return nil, err
	}
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}
	if cfg.AgreementTolerance, err = getenvFloat("AGREEMENT_TOLERANCE", 5); err != nil {
		return nil, err
	}

	cfg.FetchConcurrency = getenvInt("FETCH_CONCURRENCY", 4)
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 48) // a day at 30-minute intervals
	cfg.PastDays = getenvInt("PAST_DAYS", 14)
	cfg.ForecastDays = getenvInt("FORECAST_DAYS", 7)
	cfg.PredictionDays = getenvInt("PREDICTION_DAYS", 3)
	cfg.PredictionLineDays = getenvInt("PREDICTION_LINE_DAYS", 7)

	locs, err := loadLocations(os.Getenv("WEATHER_CITIES"))
	if err != nil {
		return nil, err
	}
	cfg.Locations = locs

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadLocations resolves a comma-separated list of catalog city names.
// An empty list selects the whole catalog.
func loadLocations(raw string) ([]weather.Location, error) {
	if strings.TrimSpace(raw) == "" {
		return append([]weather.Location(nil), weather.Cities...), nil
	}

	var locs []weather.Location
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		loc, ok := weather.LookupCity(name, "")
		if !ok {
			return nil, fmt.Errorf("WEATHER_CITIES: %w: %q", weather.ErrUnknownLocation, name)
		}
		locs = append(locs, loc)
	}
	return locs, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
		log.Warn().Str("key", key).Str("value", v).Int("default", def).Msg("ignoring non-integer setting")
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
