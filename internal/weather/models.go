package weather

import (
	"strings"
	"time"

	"github.com/i474232898/weather-prediction/internal/prediction"
)

// Location represents a place for which we fetch history and forecasts.
// Timezone is an IANA name, or "auto" to let providers resolve it from coordinates.
type Location struct {
	Name     string  `json:"name"`
	Country  string  `json:"country"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Timezone string  `json:"timezone"`
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	return strings.ToLower(l.Name) + ":" + strings.ToUpper(l.Country)
}

// SourceStatus records how one provider fared while building a Dataset.
type SourceStatus struct {
	Provider       string    `json:"provider"`
	OK             bool      `json:"ok"`
	Error          string    `json:"error,omitempty"`
	HistoryPoints  int       `json:"historyPoints"`
	ForecastPoints int       `json:"forecastPoints"`
	FetchedAt      time.Time `json:"fetchedAt"`
}

// Dataset is everything fetched for a location in one run: the history that
// feeds the trend and one forecast series per configured provider. A provider
// that failed is still present in Forecasts, with an empty series.
type Dataset struct {
	Location   Location                                 `json:"location"`
	FetchedAt  time.Time                                `json:"fetchedAt"` // always UTC
	Historical []prediction.DailyObservation            `json:"historical"`
	Forecasts  map[string][]prediction.DailyObservation `json:"forecasts"`
	Sources    []SourceStatus                           `json:"sources"`
}

// Report is the reconciled view served to the presentation layer.
type Report struct {
	Location       Location                                 `json:"location"`
	FetchedAt      time.Time                                `json:"fetchedAt"`
	Available      bool                                     `json:"available"`
	Tolerance      float64                                  `json:"tolerance"`
	Predictions    []prediction.PredictionRecord            `json:"predictions"`
	PredictionLine []prediction.DailyObservation            `json:"predictionLine"`
	Historical     []prediction.DailyObservation            `json:"historical"`
	Forecasts      map[string][]prediction.DailyObservation `json:"forecasts"`
	Sources        []SourceStatus                           `json:"sources"`
}
