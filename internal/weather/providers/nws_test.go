package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-prediction/internal/prediction"
	"github.com/i474232898/weather-prediction/internal/weather"
)

const nwsPeriods = `{"properties":{"periods":[
	{"number":1,"name":"Tonight","startTime":"2024-01-07T18:00:00-05:00","isDaytime":false,"temperature":31,"temperatureUnit":"F"},
	{"number":2,"name":"Monday","startTime":"2024-01-08T06:00:00-05:00","isDaytime":true,"temperature":45,"temperatureUnit":"F"},
	{"number":3,"name":"Monday Night","startTime":"2024-01-08T18:00:00-05:00","isDaytime":false,"temperature":33,"temperatureUnit":"F"},
	{"number":4,"name":"Tuesday","startTime":"2024-01-09T06:00:00-05:00","isDaytime":true,"temperature":10,"temperatureUnit":"C"},
	{"number":5,"name":"Tuesday Night","startTime":"2024-01-09T18:00:00-05:00","isDaytime":false,"temperature":36,"temperatureUnit":"F"},
	{"number":6,"name":"Wednesday","startTime":"2024-01-10T06:00:00-05:00","isDaytime":true,"temperature":48,"temperatureUnit":"F"}
]}}`

func newNWSServer(t *testing.T, pointsHits *int32, userAgent *string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/points/40.7128,-74.0060", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(pointsHits, 1)
		*userAgent = r.Header.Get("User-Agent")
		fmt.Fprintf(w, `{"properties":{"forecast":"%s/gridpoints/OKX/33,35/forecast"}}`, srv.URL)
	})
	mux.HandleFunc("/gridpoints/OKX/33,35/forecast", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(nwsPeriods))
	})
	srv = httptest.NewServer(mux)
	return srv
}

func TestNWSFetchDaily(t *testing.T) {
	var hits int32
	var ua string
	srv := newNWSServer(t, &hits, &ua)
	defer srv.Close()

	p := NewNWSProvider(srv.Client(), "weather-prediction-test/1.0")
	p.baseURL = srv.URL

	report, err := p.FetchDaily(context.Background(), weather.DefaultCity())
	require.NoError(t, err)

	assert.Equal(t, "weather-prediction-test/1.0", ua)
	assert.Empty(t, report.Historical)
	assert.Equal(t, []prediction.DailyObservation{
		{Date: prediction.NewDate(2024, time.January, 8), High: 45, Low: 33},
		{Date: prediction.NewDate(2024, time.January, 9), High: 50, Low: 36},
	}, report.Forecast)

	// second call reuses the cached forecast url
	_, err = p.FetchDaily(context.Background(), weather.DefaultCity())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestNWSPointsWithoutForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"properties":{}}`))
	}))
	defer srv.Close()

	p := NewNWSProvider(srv.Client(), "test")
	p.baseURL = srv.URL

	_, err := p.FetchDaily(context.Background(), weather.DefaultCity())
	assert.ErrorIs(t, err, errBadPayload)
}

func TestPairPeriodsRejectsBadStartTime(t *testing.T) {
	_, err := pairPeriods([]nwsPeriod{{Number: 1, StartTime: "soon", IsDaytime: true}})
	assert.ErrorIs(t, err, errBadPayload)
}
