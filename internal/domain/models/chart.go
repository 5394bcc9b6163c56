package models

import "time"

// ChartSpec is a backend-independent description of a line chart.
// Series are drawn in order, so later series overlay earlier ones.
type ChartSpec struct {
	Title         string        `json:"title"`
	XLabel        string        `json:"x_label"`
	YLabel        string        `json:"y_label"`
	XTickRotation float64       `json:"x_tick_rotation"` // degrees
	Legend        bool          `json:"legend"`
	WidthInches   float64       `json:"width_in"`
	HeightInches  float64       `json:"height_in"`
	Series        []ChartSeries `json:"series"`
}

type ChartSeries struct {
	Name       string       `json:"name"`
	Color      string       `json:"color"`
	Markers    bool         `json:"markers"`
	MarkerSize float64      `json:"marker_size,omitempty"`
	Dashed     bool         `json:"dashed"`
	LineWidth  float64      `json:"line_width"`
	Points     []ChartPoint `json:"points"`
}

type ChartPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}
