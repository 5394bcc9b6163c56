package yahoo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"StockTrend/internal/domain/models"
	drepo "StockTrend/internal/domain/repository"
	xhttp "StockTrend/pkg/http"
	"StockTrend/pkg/util"
)

const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Client reads adjusted daily bars from the Yahoo Finance chart endpoint.
type Client struct {
	baseURL string
	http    *xhttp.Client
}

// New builds a chart API client. baseURL is overridable so tests can point
// it at an httptest server.
func New(baseURL string, httpClient *xhttp.Client) drepo.MarketData {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = xhttp.NewClient()
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) Name() string { return "yahoo" }

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol    string `json:"symbol"`
		GMTOffset int64  `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

// DailyBars fetches bars for [start, end]. A ticker the API does not know
// yields an error; a range with no sessions yields an empty slice.
func (c *Client) DailyBars(ctx context.Context, ticker string, start, end time.Time) ([]models.Bar, error) {
	if ticker == "" {
		return nil, errors.New("yahoo: empty ticker")
	}

	start = util.TruncateDay(start)
	endExcl := util.TruncateDay(end).AddDate(0, 0, 1)

	q := url.Values{}
	q.Set("period1", strconv.FormatInt(start.Unix(), 10))
	q.Set("period2", strconv.FormatInt(endExcl.Unix(), 10))
	q.Set("interval", "1d")
	q.Set("events", "div|split")
	q.Set("includeAdjustedClose", "true")

	u := fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(ticker))

	var resp chartResponse
	if err := c.http.GetJSON(ctx, u, q, &resp); err != nil {
		var se *xhttp.StatusError
		if errors.As(err, &se) {
			return nil, fmt.Errorf("yahoo: status %d for %s", se.Code, ticker)
		}
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, nil
	}

	return toBars(resp.Chart.Result[0], start, endExcl), nil
}

func toBars(r chartResult, start, endExcl time.Time) []models.Bar {
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	quote := r.Indicators.Quote[0]
	var adj []*float64
	if len(r.Indicators.AdjClose) > 0 {
		adj = r.Indicators.AdjClose[0].AdjClose
	}

	bars := make([]models.Bar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		o, okO := at(quote.Open, i)
		h, okH := at(quote.High, i)
		l, okL := at(quote.Low, i)
		cl, okC := at(quote.Close, i)
		if !okO || !okH || !okL || !okC || cl == 0 {
			continue // null bar (holiday or halted session)
		}

		// scale OHLC so that close equals the split/dividend adjusted close
		factor := 1.0
		if a, ok := at(adj, i); ok && a > 0 {
			factor = a / cl
		}

		var vol int64
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			vol = *quote.Volume[i]
		}

		date := util.TruncateDay(time.Unix(ts+r.Meta.GMTOffset, 0).UTC())
		if date.Before(start) || !date.Before(endExcl) {
			continue
		}

		bars = append(bars, models.Bar{
			Date:   date,
			Open:   o * factor,
			High:   h * factor,
			Low:    l * factor,
			Close:  cl * factor,
			Volume: vol,
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return dedupe(bars)
}

func at(xs []*float64, i int) (float64, bool) {
	if i >= len(xs) || xs[i] == nil || math.IsNaN(*xs[i]) {
		return 0, false
	}
	return *xs[i], true
}

// dedupe keeps the last bar per date; the API occasionally repeats the live
// session as an extra row.
func dedupe(bars []models.Bar) []models.Bar {
	if len(bars) < 2 {
		return bars
	}
	out := bars[:1]
	for _, b := range bars[1:] {
		if b.Date.Equal(out[len(out)-1].Date) {
			out[len(out)-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
