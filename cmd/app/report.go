package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	models "StockTrend/internal/domain/models"
	xhttp "StockTrend/pkg/http"
)

func userMessage(err error) string {
	return xhttp.UserMessage(err)
}

// printReport writes the price table followed by the fitted line. maxRows
// <= 0 prints every row.
func printReport(w io.Writer, res *models.Analysis, maxRows int) error {
	fmt.Fprintf(w, "%s  %s .. %s  (%s)\n\n", res.Query.Ticker, res.Query.Start, res.Query.End, res.Provider)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Date\tOpen\tHigh\tLow\tClose\tVolume\t")
	bars := res.Table
	if maxRows > 0 && len(bars) > maxRows {
		bars = bars[:maxRows]
	}
	for _, b := range bars {
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%d\t\n",
			b.Date.Format("2006-01-02"), b.Open, b.High, b.Low, b.Close, b.Volume)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(bars) < len(res.Table) {
		fmt.Fprintf(w, "... %d more rows\n", len(res.Table)-len(bars))
	}

	s := res.Summary
	fmt.Fprintf(w, "\nRows:      %d\n", s.Rows)
	fmt.Fprintf(w, "Intercept: %.6f\n", s.Intercept)
	fmt.Fprintf(w, "Slope:     %.6f\n", s.Slope)
	fmt.Fprintf(w, "R²:        %.4f\n", s.RSquared)
	if s.Note != "" {
		fmt.Fprintf(w, "Note:      %s\n", s.Note)
	}
	_, err := fmt.Fprintf(w, "\n%s\n", res.Disclaimer)
	return err
}
