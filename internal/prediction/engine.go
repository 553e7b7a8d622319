package prediction

import (
	"errors"
	"fmt"
)

const (
	// DefaultTolerance is the maximum distance, in degrees, between a source's
	// high and the predicted high for the source to count as agreeing.
	DefaultTolerance = 5.0

	// MinHistory is the shortest history that produces predictions.
	MinHistory = 3
)

// ErrUnorderedSeries is returned when historical dates are not strictly ascending.
var ErrUnorderedSeries = errors.New("historical series must be strictly ascending by date")

// Engine reconciles trend projections with external forecasts.
// An Engine holds no mutable state and is safe for concurrent use.
type Engine struct {
	tolerance float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithTolerance sets the agreement tolerance in degrees. Negative values are ignored.
func WithTolerance(t float64) Option {
	return func(e *Engine) {
		if t >= 0 {
			e.tolerance = t
		}
	}
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{tolerance: DefaultTolerance}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tolerance returns the configured agreement tolerance.
func (e *Engine) Tolerance() float64 {
	return e.tolerance
}

var defaultEngine = NewEngine()

// Reconcile runs Engine.Reconcile with default settings.
func Reconcile(historical []DailyObservation, forecasts map[string][]DailyObservation, daysAhead int) ([]PredictionRecord, error) {
	return defaultEngine.Reconcile(historical, forecasts, daysAhead)
}

// Project runs Engine.Project with default settings.
func Project(historical []DailyObservation, daysAhead int) ([]DailyObservation, error) {
	return defaultEngine.Project(historical, daysAhead)
}

// Reconcile predicts the next daysAhead days from historical and scores each day
// against the external forecasts.
//
// The keys of forecasts are the configured sources. A source with no point for a
// date (including a source whose series is empty) is reported as absent and does
// not agree. Fewer than MinHistory observations yields an empty result and no error.
func (e *Engine) Reconcile(historical []DailyObservation, forecasts map[string][]DailyObservation, daysAhead int) ([]PredictionRecord, error) {
	if len(historical) < MinHistory {
		return []PredictionRecord{}, nil
	}

	trend, err := e.trend(historical, daysAhead)
	if err != nil {
		return nil, err
	}

	indexes := make(map[string]map[Date]DailyObservation, len(forecasts))
	for source, series := range forecasts {
		indexes[source] = indexByDate(series)
	}

	records := make([]PredictionRecord, 0, len(trend))
	for _, day := range trend {
		rec := PredictionRecord{
			Date:          day.Date,
			PredictedHigh: day.High,
			PredictedLow:  day.Low,
			SourceHigh:    make(map[string]*float64, len(indexes)),
			SourceLow:     make(map[string]*float64, len(indexes)),
		}

		for source, byDate := range indexes {
			point, ok := byDate[day.Date]
			if !ok {
				rec.SourceHigh[source] = nil
				rec.SourceLow[source] = nil
				continue
			}
			high, low := point.High, point.Low
			rec.SourceHigh[source] = &high
			rec.SourceLow[source] = &low
			if e.agrees(high, day.High) {
				rec.Agreeing++
			}
		}

		rec.Confidence = Classify(rec.Agreeing, len(indexes))
		records = append(records, rec)
	}

	return records, nil
}

// Project returns the trend-only continuation of historical for daysAhead days.
// It applies the same gate as Reconcile and yields the same predicted values.
func (e *Engine) Project(historical []DailyObservation, daysAhead int) ([]DailyObservation, error) {
	if len(historical) < MinHistory {
		return []DailyObservation{}, nil
	}
	return e.trend(historical, daysAhead)
}

func (e *Engine) trend(historical []DailyObservation, daysAhead int) ([]DailyObservation, error) {
	if daysAhead < 1 {
		return nil, fmt.Errorf("%w: days ahead must be positive, got %d", ErrInvalidHorizon, daysAhead)
	}

	highs := make([]float64, len(historical))
	lows := make([]float64, len(historical))
	for i, obs := range historical {
		if i > 0 && !historical[i-1].Date.Before(obs.Date) {
			return nil, fmt.Errorf("%w: %s follows %s", ErrUnorderedSeries, obs.Date, historical[i-1].Date)
		}
		highs[i] = obs.High
		lows[i] = obs.Low
	}

	predictedHighs, err := ProjectTrend(highs, daysAhead)
	if err != nil {
		return nil, fmt.Errorf("project highs: %w", err)
	}
	predictedLows, err := ProjectTrend(lows, daysAhead)
	if err != nil {
		return nil, fmt.Errorf("project lows: %w", err)
	}

	last := historical[len(historical)-1].Date
	out := make([]DailyObservation, daysAhead)
	for i := range out {
		out[i] = DailyObservation{
			Date: last.AddDays(i + 1),
			High: predictedHighs[i],
			Low:  predictedLows[i],
		}
	}
	return out, nil
}

func (e *Engine) agrees(sourceHigh, predictedHigh float64) bool {
	diff := sourceHigh - predictedHigh
	if diff < 0 {
		diff = -diff
	}
	return diff <= e.tolerance
}

// indexByDate keeps the first point seen for each date.
func indexByDate(series []DailyObservation) map[Date]DailyObservation {
	idx := make(map[Date]DailyObservation, len(series))
	for _, p := range series {
		if _, exists := idx[p.Date]; !exists {
			idx[p.Date] = p
		}
	}
	return idx
}

// Classify maps an agreement count to a confidence label: every configured
// source agreeing is high, at least one is medium, none is low.
func Classify(agreeing, sources int) Confidence {
	switch {
	case sources > 0 && agreeing >= sources:
		return ConfidenceHigh
	case agreeing > 0:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
