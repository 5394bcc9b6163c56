package regression

import (
	"math"

	"StockTrend/internal/domain/models"
	"StockTrend/internal/services/features"

	"gonum.org/v1/gonum/stat"
)

// Fit runs ordinary least squares of close on day offset.
//
// When every row has the same day offset the slope is undefined. Fit then
// returns a flat line through the mean close (slope 0) and marks the result
// Degenerate instead of failing. Fit on no rows returns a zero result.
func Fit(rows []models.FeatureRow) models.RegressionResult {
	if len(rows) == 0 {
		return models.RegressionResult{}
	}

	x := features.Offsets(rows)
	y := features.Closes(rows)

	if constant(x) {
		mean := stat.Mean(y, nil)
		return models.RegressionResult{
			Intercept:  mean,
			Slope:      0,
			Predicted:  predict(x, mean, 0),
			Degenerate: true,
		}
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)
	r2 := stat.RSquared(x, y, nil, intercept, slope)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		// flat closes: total variance is zero
		r2 = 0
	}

	return models.RegressionResult{
		Intercept: intercept,
		Slope:     slope,
		RSquared:  r2,
		Predicted: predict(x, intercept, slope),
	}
}

func constant(xs []float64) bool {
	for _, v := range xs[1:] {
		if v != xs[0] {
			return false
		}
	}
	return true
}

func predict(x []float64, intercept, slope float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = intercept + slope*v
	}
	return out
}
