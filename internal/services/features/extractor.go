package features

import (
	"sort"

	"StockTrend/internal/domain/models"
	"StockTrend/pkg/util"
)

// Preprocess turns a fetched series into regression rows. DayOffset is the
// number of calendar days since the earliest date in the series, so the
// earliest row always gets 0. Rows keep the input order.
//
// The caller must reject empty series first; an empty input yields nil.
func Preprocess(series models.PriceSeries) []models.FeatureRow {
	if series.Empty() {
		return nil
	}

	base := util.TruncateDay(series.Bars[0].Date)
	for _, b := range series.Bars[1:] {
		if d := util.TruncateDay(b.Date); d.Before(base) {
			base = d
		}
	}

	rows := make([]models.FeatureRow, len(series.Bars))
	for i, b := range series.Bars {
		date := util.TruncateDay(b.Date)
		rows[i] = models.FeatureRow{
			Date:      date,
			DayOffset: util.DaysBetween(base, date),
			Close:     b.Close,
		}
	}
	return rows
}

// SortByDate orders bars ascending by date, keeping the provider order for
// equal dates.
func SortByDate(bars []models.Bar) {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
}

// Offsets returns the day offsets as floats for numeric routines.
func Offsets(rows []models.FeatureRow) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = float64(r.DayOffset)
	}
	return out
}

// Closes returns the close prices of rows.
func Closes(rows []models.FeatureRow) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Close
	}
	return out
}
