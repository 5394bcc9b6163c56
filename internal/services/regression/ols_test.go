package regression

import (
	"math"
	"math/rand"
	"testing"

	"StockTrend/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows(pairs ...float64) []models.FeatureRow {
	out := make([]models.FeatureRow, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, models.FeatureRow{DayOffset: int(pairs[i]), Close: pairs[i+1]})
	}
	return out
}

func TestFitExactLine(t *testing.T) {
	res := Fit(rows(0, 100, 1, 102, 2, 104))

	assert.InDelta(t, 2.0, res.Slope, 1e-9)
	assert.InDelta(t, 100.0, res.Intercept, 1e-9)
	require.Len(t, res.Predicted, 3)
	assert.InDeltaSlice(t, []float64{100, 102, 104}, res.Predicted, 1e-9)
	assert.InDelta(t, 1.0, res.RSquared, 1e-9)
	assert.False(t, res.Degenerate)
}

func TestFitSatisfiesNormalEquations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	in := make([]models.FeatureRow, 0, 300)
	day := 0
	for i := 0; i < 300; i++ {
		day += 1 + rng.Intn(3)
		in = append(in, models.FeatureRow{DayOffset: day, Close: 50 + 0.3*float64(day) + rng.NormFloat64()*4})
	}

	res := Fit(in)
	require.Len(t, res.Predicted, len(in))

	var sumResid, sumXResid float64
	for i, r := range in {
		resid := r.Close - res.Predicted[i]
		sumResid += resid
		sumXResid += float64(r.DayOffset) * resid
	}
	assert.InDelta(t, 0, sumResid, 1e-6)
	assert.InDelta(t, 0, sumXResid, 1e-3)
	assert.InDelta(t, 0.3, res.Slope, 0.05)
	assert.True(t, res.RSquared > 0 && res.RSquared <= 1)
}

func TestFitIdempotent(t *testing.T) {
	in := rows(0, 10, 3, 11.5, 4, 9.75, 10, 14)
	a := Fit(in)
	b := Fit(in)

	assert.Equal(t, math.Float64bits(a.Slope), math.Float64bits(b.Slope))
	assert.Equal(t, math.Float64bits(a.Intercept), math.Float64bits(b.Intercept))
}

func TestFitSingleRowIsDegenerate(t *testing.T) {
	res := Fit(rows(0, 123.45))

	assert.True(t, res.Degenerate)
	assert.Equal(t, 0.0, res.Slope)
	assert.InDelta(t, 123.45, res.Intercept, 1e-12)
	assert.Equal(t, []float64{123.45}, res.Predicted)
}

func TestFitSameDayIsDegenerate(t *testing.T) {
	res := Fit(rows(0, 10, 0, 20, 0, 30))

	assert.True(t, res.Degenerate)
	assert.Equal(t, 0.0, res.Slope)
	assert.InDelta(t, 20.0, res.Intercept, 1e-12)
	assert.InDeltaSlice(t, []float64{20, 20, 20}, res.Predicted, 1e-12)
	assert.Equal(t, 0.0, res.RSquared)
}

func TestFitFlatCloses(t *testing.T) {
	res := Fit(rows(0, 5, 1, 5, 2, 5))

	assert.False(t, res.Degenerate)
	assert.InDelta(t, 0, res.Slope, 1e-12)
	assert.InDelta(t, 5, res.Intercept, 1e-12)
	assert.False(t, math.IsNaN(res.RSquared))
}

func TestFitEmpty(t *testing.T) {
	res := Fit(nil)
	assert.Empty(t, res.Predicted)
	assert.False(t, res.Degenerate)
}
