package financego

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"StockTrend/internal/domain/models"
	drepo "StockTrend/internal/domain/repository"
	"StockTrend/pkg/util"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
)

// Client reads daily bars through the finance-go chart iterator.
type Client struct{}

func New() drepo.MarketData {
	return &Client{}
}

func (c *Client) Name() string { return "financego" }

// DailyBars fetches adjusted bars for [start, end]. Bar timestamps are
// shifted by the exchange's GMT offset before taking the calendar date.
func (c *Client) DailyBars(ctx context.Context, ticker string, start, end time.Time) ([]models.Bar, error) {
	if ticker == "" {
		return nil, errors.New("financego: empty ticker")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = util.TruncateDay(start)
	endExcl := util.TruncateDay(end).AddDate(0, 0, 1)

	iter := chart.Get(&chart.Params{
		Params:   finance.Params{Context: &ctx},
		Symbol:   ticker,
		Start:    datetime.New(&start),
		End:      datetime.New(&endExcl),
		Interval: datetime.OneDay,
	})
	if err := iter.Err(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("financego chart: %w", err)
	}
	offset := iter.Meta().Gmtoffset

	var raw []*finance.ChartBar
	for iter.Next() {
		raw = append(raw, iter.Bar())
	}
	return toBars(raw, offset, start, endExcl), nil
}

// toBars adjusts, dates and range-filters raw chart bars. Bars without a
// close are skipped.
func toBars(raw []*finance.ChartBar, gmtOffset int, start, endExcl time.Time) []models.Bar {
	var bars []models.Bar
	for _, b := range raw {
		cl, _ := b.Close.Float64()
		if cl == 0 {
			continue
		}
		o, _ := b.Open.Float64()
		h, _ := b.High.Float64()
		l, _ := b.Low.Float64()

		factor := 1.0
		if adj, _ := b.AdjClose.Float64(); adj > 0 {
			factor = adj / cl
		}

		date := util.TruncateDay(time.Unix(int64(b.Timestamp+gmtOffset), 0).UTC())
		if date.Before(start) || !date.Before(endExcl) {
			continue
		}
		bars = append(bars, models.Bar{
			Date:   date,
			Open:   o * factor,
			High:   h * factor,
			Low:    l * factor,
			Close:  cl * factor,
			Volume: int64(b.Volume),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars
}
