package tui

import (
	"fmt"
	"strings"

	models "StockTrend/internal/domain/models"
	xhttp "StockTrend/pkg/http"
	"StockTrend/pkg/util"
)

// view is everything the screen shows, computed without touching the
// terminal.
type view struct {
	Header  string
	Status  string
	Table   [][]string
	Metrics string
	Plot    [][]float64
	Labels  []string
}

var tableHeader = []string{"Date", "Open", "High", "Low", "Close", "Volume"}

func buildView(q models.UserQuery, res *models.Analysis, err error, maxRows int) view {
	v := view{
		Header: fmt.Sprintf("Ticker [%s](fg:cyan,mod:bold)   Start [%s](fg:cyan)   End [%s](fg:cyan)\n%s\n[r] run again   [q] quit",
			q.Ticker, q.Start, q.End, models.Disclaimer),
	}
	if err != nil {
		v.Status = "[" + xhttp.UserMessage(err) + "](fg:red)"
		return v
	}
	if res == nil {
		v.Status = "press r to fetch data and analyze"
		return v
	}

	v.Table = tableRows(res.Table, maxRows)
	v.Metrics = metricsText(res.Summary)
	v.Plot, v.Labels = plotData(res.Chart)
	v.Status = fmt.Sprintf("%d rows from %s", len(res.Table), res.Provider)
	return v
}

// tableRows keeps the most recent maxRows bars in provider order.
func tableRows(bars []models.Bar, maxRows int) [][]string {
	if maxRows > 0 && len(bars) > maxRows {
		bars = bars[len(bars)-maxRows:]
	}
	rows := make([][]string, 0, len(bars)+1)
	rows = append(rows, tableHeader)
	for _, b := range bars {
		rows = append(rows, []string{
			util.FormatDate(b.Date),
			fmt.Sprintf("%.2f", b.Open),
			fmt.Sprintf("%.2f", b.High),
			fmt.Sprintf("%.2f", b.Low),
			fmt.Sprintf("%.2f", b.Close),
			fmt.Sprintf("%d", b.Volume),
		})
	}
	return rows
}

func metricsText(s models.FitSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Intercept: %.6f\n", s.Intercept)
	fmt.Fprintf(&b, "Slope:     %.6f\n", s.Slope)
	fmt.Fprintf(&b, "R²:        %.4f\n", s.RSquared)
	fmt.Fprintf(&b, "Rows:      %d", s.Rows)
	if s.Note != "" {
		fmt.Fprintf(&b, "\n[%s](fg:yellow)", s.Note)
	}
	return b.String()
}

// plotData returns one value slice per series. The terminal plot needs at
// least two points, so shorter series yield nil.
func plotData(spec models.ChartSpec) ([][]float64, []string) {
	var data [][]float64
	var labels []string
	for _, s := range spec.Series {
		if len(s.Points) < 2 {
			return nil, nil
		}
		vals := make([]float64, len(s.Points))
		for i, p := range s.Points {
			vals[i] = p.Value
		}
		data = append(data, vals)
		labels = append(labels, s.Name)
	}
	return data, labels
}
