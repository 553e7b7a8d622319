package weather

import (
	"sort"
	"time"

	"github.com/i474232898/weather-prediction/internal/prediction"
)

// AssembleDataset combines provider reports into a Dataset.
//
// History is taken from historySource when it reported any, otherwise from the
// first provider (in providerNames order) that did. Every name in providerNames
// gets a Forecasts entry, empty when that provider failed. Series are sorted by
// date and de-duplicated, keeping the first point seen for a date.
func AssembleDataset(loc Location, providerNames []string, historySource string, reports []DailyReport, failures map[string]error) Dataset {
	byName := make(map[string]DailyReport, len(reports))
	for _, r := range reports {
		byName[r.ProviderName] = r
	}

	ds := Dataset{
		Location:   loc,
		Historical: []prediction.DailyObservation{},
		Forecasts:  make(map[string][]prediction.DailyObservation, len(providerNames)),
		Sources:    make([]SourceStatus, 0, len(providerNames)),
	}

	var newest time.Time
	for _, name := range providerNames {
		status := SourceStatus{Provider: name}
		r, ok := byName[name]
		if !ok {
			if err := failures[name]; err != nil {
				status.Error = err.Error()
			}
			ds.Forecasts[name] = []prediction.DailyObservation{}
			ds.Sources = append(ds.Sources, status)
			continue
		}

		status.OK = true
		status.FetchedAt = r.FetchedAt
		status.HistoryPoints = len(r.Historical)
		status.ForecastPoints = len(r.Forecast)
		ds.Sources = append(ds.Sources, status)

		ds.Forecasts[name] = normalizeSeries(r.Forecast)
		if r.FetchedAt.After(newest) {
			newest = r.FetchedAt
		}
	}

	if r, ok := byName[historySource]; ok && len(r.Historical) > 0 {
		ds.Historical = normalizeSeries(r.Historical)
	} else {
		for _, name := range providerNames {
			if r, ok := byName[name]; ok && len(r.Historical) > 0 {
				ds.Historical = normalizeSeries(r.Historical)
				break
			}
		}
	}

	if newest.IsZero() {
		newest = time.Now()
	}
	ds.FetchedAt = newest.UTC()
	return ds
}

func normalizeSeries(in []prediction.DailyObservation) []prediction.DailyObservation {
	out := make([]prediction.DailyObservation, 0, len(in))
	seen := make(map[prediction.Date]struct{}, len(in))
	for _, obs := range in {
		if _, dup := seen[obs.Date]; dup {
			continue
		}
		seen[obs.Date] = struct{}{}
		out = append(out, obs)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
