package models

// RegressionResult holds a fitted close ≈ Intercept + Slope*DayOffset line.
// Predicted is aligned index-for-index with the input rows.
type RegressionResult struct {
	Intercept  float64   `json:"intercept"`
	Slope      float64   `json:"slope"`
	RSquared   float64   `json:"r_squared"`
	Predicted  []float64 `json:"predicted"`
	Degenerate bool      `json:"degenerate"` // all day offsets equal, slope forced to 0
}
