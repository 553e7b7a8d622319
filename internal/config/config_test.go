package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-prediction/internal/weather"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "FETCH_INTERVAL", "PREDICTION_DAYS", "WEATHER_CITIES", "AGREEMENT_TOLERANCE", "HISTORY_PROVIDER"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.FetchInterval)
	assert.Equal(t, 3, cfg.PredictionDays)
	assert.Equal(t, 7, cfg.PredictionLineDays)
	assert.Equal(t, 5.0, cfg.AgreementTolerance)
	assert.Equal(t, "openmeteo", cfg.HistoryProvider)
	assert.Len(t, cfg.Locations, len(weather.Cities))
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WEATHER_CITIES", "denver, Austin")
	t.Setenv("PREDICTION_DAYS", "5")
	t.Setenv("AGREEMENT_TOLERANCE", "3.5")
	t.Setenv("FETCH_INTERVAL", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	require.Len(t, cfg.Locations, 2)
	assert.Equal(t, "Denver", cfg.Locations[0].Name)
	assert.Equal(t, "Austin", cfg.Locations[1].Name)
	assert.Equal(t, 5, cfg.PredictionDays)
	assert.Equal(t, 3.5, cfg.AgreementTolerance)
	assert.Equal(t, time.Hour, cfg.FetchInterval)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"PREDICTION_DAYS", "8"},
		{"FETCH_INTERVAL", "soon"},
		{"FETCH_INTERVAL", "10s"},
		{"HISTORY_PROVIDER", "openweather"},
		{"WEATHER_CITIES", "Atlantis"},
		{"AGREEMENT_TOLERANCE", "-1"},
		{"LOG_LEVEL", "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
