package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitTrend(t *testing.T) {
	tests := []struct {
		name          string
		values        []float64
		wantSlope     float64
		wantIntercept float64
	}{
		{
			name:          "rising by two",
			values:        []float64{70, 72, 74, 76, 78, 80, 82},
			wantSlope:     2,
			wantIntercept: 70,
		},
		{
			name:          "flat",
			values:        []float64{50, 50, 50},
			wantSlope:     0,
			wantIntercept: 50,
		},
		{
			name:          "two points",
			values:        []float64{10, 4},
			wantSlope:     -6,
			wantIntercept: 10,
		},
		{
			name:          "noisy",
			values:        []float64{1, 3, 2, 4},
			wantSlope:     0.8,
			wantIntercept: 1.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := FitTrend(tt.values)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantSlope, m.Slope, 1e-9)
			assert.InDelta(t, tt.wantIntercept, m.Intercept, 1e-9)
		})
	}
}

func TestFitTrendRejectsShortSeries(t *testing.T) {
	for _, values := range [][]float64{nil, {}, {42}} {
		_, err := FitTrend(values)
		assert.ErrorIs(t, err, ErrDegenerateSeries)
	}
}

func TestProjectTrend(t *testing.T) {
	got, err := ProjectTrend([]float64{70, 72, 74, 76, 78, 80, 82}, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{84, 86, 88}, got)
}

func TestProjectTrendZeroHorizon(t *testing.T) {
	got, err := ProjectTrend([]float64{1, 2, 3}, 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ProjectTrend([]float64{1, 2, 3}, -1)
	assert.ErrorIs(t, err, ErrInvalidHorizon)
}

func TestProjectTrendRoundsHalfAwayFromZero(t *testing.T) {
	// slope 0.5, intercept 0: index 3 -> 1.5, index 5 -> 2.5
	got, err := ProjectTrend([]float64{0, 0.5, 1}, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2, 3}, got)

	// mirrored: -1.5 -> -2, -2.5 -> -3
	got, err = ProjectTrend([]float64{0, -0.5, -1}, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{-2, -2, -3}, got)
}
