package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-prediction/internal/prediction"
	"github.com/i474232898/weather-prediction/internal/weather"
)

const openMeteoBody = `{
	"timezone": "UTC",
	"daily": {
		"time": ["2024-01-05", "2024-01-06", "2024-01-07", "2024-01-08", "2024-01-09", "2024-01-10"],
		"temperature_2m_max": [40.4, 42.5, 44.1, 46.6, 47.0, null],
		"temperature_2m_min": [30.2, 31.0, 32.9, 33.4, 35.5, null]
	}
}`

func TestOpenMeteoFetchDaily(t *testing.T) {
	var query url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(openMeteoBody))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), 14, 7)
	p.baseURL = srv.URL
	p.now = func() time.Time { return time.Date(2024, 1, 7, 15, 0, 0, 0, time.UTC) }

	loc := weather.Location{Name: "New York", Country: "US", Lat: 40.7128, Lon: -74.006, Timezone: "UTC"}
	report, err := p.FetchDaily(context.Background(), loc)
	require.NoError(t, err)

	assert.Equal(t, "temperature_2m_max,temperature_2m_min", query.Get("daily"))
	assert.Equal(t, "fahrenheit", query.Get("temperature_unit"))
	assert.Equal(t, "14", query.Get("past_days"))
	assert.Equal(t, "7", query.Get("forecast_days"))
	assert.Equal(t, "UTC", query.Get("timezone"))

	assert.Equal(t, "openmeteo", report.ProviderName)
	assert.Equal(t, []prediction.DailyObservation{
		{Date: prediction.NewDate(2024, time.January, 5), High: 40, Low: 30},
		{Date: prediction.NewDate(2024, time.January, 6), High: 43, Low: 31},
		{Date: prediction.NewDate(2024, time.January, 7), High: 44, Low: 33},
	}, report.Historical)
	assert.Equal(t, []prediction.DailyObservation{
		{Date: prediction.NewDate(2024, time.January, 8), High: 47, Low: 33},
		{Date: prediction.NewDate(2024, time.January, 9), High: 47, Low: 36},
	}, report.Forecast)
}

func TestOpenMeteoDefaultsTimezoneToAuto(t *testing.T) {
	var tz string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tz = r.URL.Query().Get("timezone")
		_, _ = w.Write([]byte(`{"timezone":"UTC","daily":{"time":[],"temperature_2m_max":[],"temperature_2m_min":[]}}`))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), 14, 7)
	p.baseURL = srv.URL

	report, err := p.FetchDaily(context.Background(), weather.Location{Name: "Somewhere"})
	require.NoError(t, err)
	assert.Equal(t, "auto", tz)
	assert.Empty(t, report.Historical)
	assert.Empty(t, report.Forecast)
}

func TestOpenMeteoRejectsMismatchedArrays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"daily":{"time":["2024-01-05"],"temperature_2m_max":[],"temperature_2m_min":[1]}}`))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), 14, 7)
	p.baseURL = srv.URL

	_, err := p.FetchDaily(context.Background(), weather.DefaultCity())
	assert.ErrorIs(t, err, errBadPayload)
}
