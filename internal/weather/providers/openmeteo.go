package providers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-prediction/internal/prediction"
	"github.com/i474232898/weather-prediction/internal/weather"
)

// OpenMeteoProvider implements weather.Provider for Open-Meteo. A single call
// returns both the recent past (history) and the upcoming days (forecast), in °F.
type OpenMeteoProvider struct {
	name         string
	baseURL      string
	pastDays     int
	forecastDays int
	httpCfg      HTTPClientConfig
	circuit      *gobreaker.CircuitBreaker
	now          func() time.Time
}

func NewOpenMeteoProvider(client *http.Client, pastDays, forecastDays int) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:         "openmeteo",
		baseURL:      "https://api.open-meteo.com/v1/forecast",
		pastDays:     pastDays,
		forecastDays: forecastDays,
		httpCfg:      defaultHTTPConfig(client, ""),
		circuit:      newCircuitBreaker("openmeteo"),
		now:          time.Now,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

type openMeteoDaily struct {
	Timezone string `json:"timezone"`
	Daily    struct {
		Time []string   `json:"time"`
		Max  []*float64 `json:"temperature_2m_max"`
		Min  []*float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

// FetchDaily splits the returned days at "today" in the location's time zone:
// today and earlier are history, later days are forecast.
func (p *OpenMeteoProvider) FetchDaily(ctx context.Context, loc weather.Location) (weather.DailyReport, error) {
	tz := loc.Timezone
	if tz == "" {
		tz = "auto"
	}

	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", loc.Lat))
	values.Set("longitude", fmt.Sprintf("%f", loc.Lon))
	values.Set("daily", "temperature_2m_max,temperature_2m_min")
	values.Set("timezone", tz)
	values.Set("past_days", strconv.Itoa(p.pastDays))
	values.Set("forecast_days", strconv.Itoa(p.forecastDays))
	values.Set("temperature_unit", "fahrenheit")

	var payload openMeteoDaily
	if err := getJSON(ctx, p.httpCfg, p.circuit, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), &payload); err != nil {
		return weather.DailyReport{}, err
	}

	days := payload.Daily
	if len(days.Max) != len(days.Time) || len(days.Min) != len(days.Time) {
		return weather.DailyReport{}, fmt.Errorf("%w: %d dates, %d highs, %d lows",
			errBadPayload, len(days.Time), len(days.Max), len(days.Min))
	}

	fetchedAt := p.now()
	today := prediction.DateOf(fetchedAt.In(resolveZone(payload.Timezone, loc.Timezone)))

	report := weather.DailyReport{
		ProviderName: p.name,
		FetchedAt:    fetchedAt.UTC(),
	}
	for i, raw := range days.Time {
		if days.Max[i] == nil || days.Min[i] == nil {
			continue
		}
		date, err := prediction.ParseDate(raw)
		if err != nil {
			return weather.DailyReport{}, fmt.Errorf("%w: %v", errBadPayload, err)
		}

		obs := prediction.DailyObservation{
			Date: date,
			High: math.Round(*days.Max[i]),
			Low:  math.Round(*days.Min[i]),
		}
		if date.After(today) {
			report.Forecast = append(report.Forecast, obs)
		} else {
			report.Historical = append(report.Historical, obs)
		}
	}

	return report, nil
}

// resolveZone picks the first loadable IANA zone name, falling back to UTC.
func resolveZone(names ...string) *time.Location {
	for _, name := range names {
		if name == "" || name == "auto" {
			continue
		}
		if z, err := time.LoadLocation(name); err == nil {
			return z
		}
	}
	return time.UTC
}
