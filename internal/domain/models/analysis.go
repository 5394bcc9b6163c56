package models

import "time"

// Disclaimer is shown on every presentation surface.
const Disclaimer = "For learning purposes only. Not investment advice."

// FitSummary is the scalar part of the presentation.
type FitSummary struct {
	Intercept  float64 `json:"intercept"`
	Slope      float64 `json:"slope"`
	RSquared   float64 `json:"r_squared"`
	Rows       int     `json:"rows"`
	Degenerate bool    `json:"degenerate"`
	Note       string  `json:"note,omitempty"`
}

// Analysis is everything one trigger produces: the raw table, the fitted
// parameters and the chart description.
type Analysis struct {
	Query       UserQuery        `json:"query"`
	Provider    string           `json:"provider"`
	Table       []Bar            `json:"table"`
	Summary     FitSummary       `json:"summary"`
	Regression  RegressionResult `json:"-"`
	Chart       ChartSpec        `json:"chart"`
	Disclaimer  string           `json:"disclaimer"`
	GeneratedAt time.Time        `json:"generated_at"`
}
