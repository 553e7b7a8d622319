package providers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-prediction/internal/prediction"
	"github.com/i474232898/weather-prediction/internal/weather"
)

const pointsCacheSize = 256

// NWSProvider implements weather.Provider for the US National Weather Service
// (api.weather.gov). It is forecast-only and covers US locations.
type NWSProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker

	// grid forecast URL per "lat,lon"; the points lookup rarely changes
	points *lru.Cache[string, string]
	now    func() time.Time
}

func NewNWSProvider(client *http.Client, userAgent string) *NWSProvider {
	points, _ := lru.New[string, string](pointsCacheSize)

	return &NWSProvider{
		name:    "nws",
		baseURL: "https://api.weather.gov",
		httpCfg: defaultHTTPConfig(client, userAgent),
		circuit: newCircuitBreaker("nws"),
		points:  points,
		now:     time.Now,
	}
}

func (p *NWSProvider) Name() string {
	return p.name
}

type nwsPoints struct {
	Properties struct {
		Forecast string `json:"forecast"`
	} `json:"properties"`
}

type nwsPeriod struct {
	Number          int     `json:"number"`
	Name            string  `json:"name"`
	StartTime       string  `json:"startTime"`
	IsDaytime       bool    `json:"isDaytime"`
	Temperature     float64 `json:"temperature"`
	TemperatureUnit string  `json:"temperatureUnit"`
}

type nwsForecast struct {
	Properties struct {
		Periods []nwsPeriod `json:"periods"`
	} `json:"properties"`
}

// FetchDaily pairs daytime and overnight periods into daily highs and lows.
// Days missing either half (typically the first "Tonight" period) are dropped.
func (p *NWSProvider) FetchDaily(ctx context.Context, loc weather.Location) (weather.DailyReport, error) {
	key := fmt.Sprintf("%.4f,%.4f", loc.Lat, loc.Lon)

	forecastURL, err := p.forecastURL(ctx, key)
	if err != nil {
		return weather.DailyReport{}, err
	}

	var payload nwsForecast
	if err := getJSON(ctx, p.httpCfg, p.circuit, forecastURL, &payload); err != nil {
		// The grid behind a point can move; look it up again next time.
		p.points.Remove(key)
		return weather.DailyReport{}, err
	}

	forecast, err := pairPeriods(payload.Properties.Periods)
	if err != nil {
		return weather.DailyReport{}, err
	}

	return weather.DailyReport{
		ProviderName: p.name,
		FetchedAt:    p.now().UTC(),
		Forecast:     forecast,
	}, nil
}

func (p *NWSProvider) forecastURL(ctx context.Context, key string) (string, error) {
	if u, ok := p.points.Get(key); ok {
		return u, nil
	}

	var points nwsPoints
	if err := getJSON(ctx, p.httpCfg, p.circuit, fmt.Sprintf("%s/points/%s", p.baseURL, key), &points); err != nil {
		return "", err
	}
	if points.Properties.Forecast == "" {
		return "", fmt.Errorf("%w: points response has no forecast url", errBadPayload)
	}

	p.points.Add(key, points.Properties.Forecast)
	return points.Properties.Forecast, nil
}

func pairPeriods(periods []nwsPeriod) ([]prediction.DailyObservation, error) {
	type temps struct {
		high, low       float64
		hasHigh, hasLow bool
	}
	days := make(map[prediction.Date]*temps)

	for _, period := range periods {
		datePart, _, _ := strings.Cut(period.StartTime, "T")
		date, err := prediction.ParseDate(datePart)
		if err != nil {
			return nil, fmt.Errorf("%w: period %d: %v", errBadPayload, period.Number, err)
		}

		t := days[date]
		if t == nil {
			t = &temps{}
			days[date] = t
		}

		value := period.Temperature
		if strings.EqualFold(period.TemperatureUnit, "C") {
			value = math.Round(value*9/5 + 32)
		}
		if period.IsDaytime {
			t.high, t.hasHigh = value, true
		} else {
			t.low, t.hasLow = value, true
		}
	}

	out := make([]prediction.DailyObservation, 0, len(days))
	for date, t := range days {
		if t.hasHigh && t.hasLow {
			out = append(out, prediction.DailyObservation{Date: date, High: t.high, Low: t.low})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}
