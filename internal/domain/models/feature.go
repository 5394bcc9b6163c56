package models

import "time"

// FeatureRow is the regression input derived from one bar.
// DayOffset counts calendar days since the earliest date of the series.
type FeatureRow struct {
	Date      time.Time `json:"date"`
	DayOffset int       `json:"day_offset"`
	Close     float64   `json:"close"`
}
