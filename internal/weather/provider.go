package weather

import (
	"context"
	"time"

	"github.com/i474232898/weather-prediction/internal/prediction"
)

// DailyReport is a single provider's normalized daily data for a location.
// Historical may be empty for forecast-only providers.
type DailyReport struct {
	ProviderName string
	FetchedAt    time.Time

	Historical []prediction.DailyObservation
	Forecast   []prediction.DailyObservation
}

// Provider abstracts a daily weather data source (e.g. Open-Meteo, NWS).
type Provider interface {
	Name() string
	FetchDaily(ctx context.Context, loc Location) (DailyReport, error)
}

// Geocoder resolves a city outside the built-in catalog to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, city, country string) (lat, lon float64, err error)
}

// Store is the contract the in-memory store (and any future persistent store) must satisfy.
type Store interface {
	SaveDataset(loc Location, ds Dataset)
	GetLatest(loc Location) (Dataset, error)
	GetRange(loc Location, from, to time.Time) ([]Dataset, error)
}
