package tui

import (
	"testing"
	"time"

	models "StockTrend/internal/domain/models"
	"StockTrend/internal/services/chart"
	"StockTrend/internal/services/features"
	"StockTrend/internal/services/regression"
	xhttp "StockTrend/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analysis(n int) *models.Analysis {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	s := models.PriceSeries{Ticker: "AAPL"}
	for i := 0; i < n; i++ {
		s.Bars = append(s.Bars, models.Bar{Date: base.AddDate(0, 0, i), Open: 1, High: 2, Low: 0.5, Close: 100 + float64(i), Volume: int64(i)})
	}
	rows := features.Preprocess(s)
	fit := regression.Fit(rows)
	return &models.Analysis{
		Provider: "yahoo",
		Table:    s.Bars,
		Summary:  models.FitSummary{Intercept: fit.Intercept, Slope: fit.Slope, Rows: len(rows), Degenerate: fit.Degenerate},
		Chart:    chart.Build(rows, fit),
	}
}

var q = models.UserQuery{Ticker: "AAPL", Start: "2020-01-01", End: "2020-02-01"}

func TestBuildViewResult(t *testing.T) {
	v := buildView(q, analysis(5), nil, 0)

	require.Len(t, v.Table, 6)
	assert.Equal(t, tableHeader, v.Table[0])
	assert.Equal(t, "2020-01-01", v.Table[1][0])
	assert.Equal(t, "100.00", v.Table[1][4])
	assert.Contains(t, v.Metrics, "Slope:     1.000000")
	require.Len(t, v.Plot, 2)
	assert.Len(t, v.Plot[0], 5)
	assert.Equal(t, []string{chart.ActualName, chart.PredictedName}, v.Labels)
	assert.Contains(t, v.Header, models.Disclaimer)
	assert.Contains(t, v.Status, "5 rows from yahoo")
}

func TestBuildViewErrorShowsNoData(t *testing.T) {
	v := buildView(q, nil, xhttp.EmptyResultError("no data retrieved; check ticker or date range"), 0)

	assert.Contains(t, v.Status, "no data retrieved; check ticker or date range")
	assert.Nil(t, v.Table)
	assert.Nil(t, v.Plot)
	assert.Empty(t, v.Metrics)
}

func TestBuildViewSingleRowHasNoPlot(t *testing.T) {
	res := analysis(1)
	res.Summary.Note = "degenerate"
	v := buildView(q, res, nil, 0)

	assert.Nil(t, v.Plot)
	assert.Len(t, v.Table, 2)
	assert.Contains(t, v.Metrics, "degenerate")
}

func TestTableRowsKeepsMostRecent(t *testing.T) {
	rows := tableRows(analysis(10).Table, 3)
	require.Len(t, rows, 4)
	assert.Equal(t, "2020-01-08", rows[1][0])
	assert.Equal(t, "2020-01-10", rows[3][0])
}
