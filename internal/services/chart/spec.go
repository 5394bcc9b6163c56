package chart

import (
	"StockTrend/internal/domain/models"
)

const (
	Title         = "Stock close price Regression chart"
	ActualName    = "Close price"
	PredictedName = "Predict Close price"

	ActualColor    = "#0000ff"
	PredictedColor = "#ff0000"
)

// Build describes the actual-vs-predicted chart without drawing it.
// rows and result.Predicted must be aligned; extra entries on either side
// are ignored.
func Build(rows []models.FeatureRow, result models.RegressionResult) models.ChartSpec {
	n := len(rows)
	if len(result.Predicted) < n {
		n = len(result.Predicted)
	}

	actual := make([]models.ChartPoint, n)
	predicted := make([]models.ChartPoint, n)
	for i := 0; i < n; i++ {
		actual[i] = models.ChartPoint{Date: rows[i].Date, Value: rows[i].Close}
		predicted[i] = models.ChartPoint{Date: rows[i].Date, Value: result.Predicted[i]}
	}

	return models.ChartSpec{
		Title:         Title,
		XLabel:        "Date",
		YLabel:        "Close",
		XTickRotation: 45,
		Legend:        true,
		WidthInches:   12,
		HeightInches:  6,
		Series: []models.ChartSeries{
			{
				Name:       ActualName,
				Color:      ActualColor,
				Markers:    true,
				MarkerSize: 4,
				LineWidth:  1,
				Points:     actual,
			},
			{
				Name:      PredictedName,
				Color:     PredictedColor,
				Dashed:    true,
				LineWidth: 2,
				Points:    predicted,
			},
		},
	}
}
