package prediction

import (
	"errors"
	"math"
)

var (
	// ErrDegenerateSeries is returned when a series cannot define a regression line.
	ErrDegenerateSeries = errors.New("trend requires at least two distinct points")
	// ErrInvalidHorizon is returned for a negative (or, for predictions, zero) horizon.
	ErrInvalidHorizon = errors.New("invalid forecast horizon")
)

// TrendModel is an ordinary least-squares line over the index of a series.
type TrendModel struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// At evaluates the line at index x.
func (m TrendModel) At(x float64) float64 {
	return m.Intercept + m.Slope*x
}

// FitTrend fits a line through (i, values[i]) for i in 0..n-1.
func FitTrend(values []float64) (TrendModel, error) {
	n := float64(len(values))
	if len(values) < 2 {
		return TrendModel{}, ErrDegenerateSeries
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	den := n*sumXX - sumX*sumX
	if den == 0 {
		return TrendModel{}, ErrDegenerateSeries
	}

	slope := (n*sumXY - sumX*sumY) / den
	return TrendModel{
		Slope:     slope,
		Intercept: (sumY - slope*sumX) / n,
	}, nil
}

// ProjectTrend fits values and evaluates the line at the next daysAhead indices.
// Each projected value is rounded half away from zero.
func ProjectTrend(values []float64, daysAhead int) ([]float64, error) {
	if daysAhead < 0 {
		return nil, ErrInvalidHorizon
	}

	model, err := FitTrend(values)
	if err != nil {
		return nil, err
	}

	n := len(values)
	out := make([]float64, daysAhead)
	for i := range out {
		out[i] = math.Round(model.At(float64(n + i)))
	}
	return out, nil
}
