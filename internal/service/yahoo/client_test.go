package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	xhttp "StockTrend/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "AAPL", "gmtoffset": -14400},
      "timestamp": [1577975400, 1578061800, 1578321000, 1578407400],
      "indicators": {
        "quote": [{
          "open":   [74.06, 74.29, null, 74.96],
          "high":   [75.15, 75.14, null, 75.22],
          "low":    [73.80, 74.13, null, 74.37],
          "close":  [75.09, 74.36, null, 74.60],
          "volume": [135480400, 146322800, null, 108872000]
        }],
        "adjclose": [{"adjclose": [37.545, 74.36, null, 74.60]}]
      }
    }],
    "error": null
  }
}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, xhttp.NewClient(xhttp.WithTimeout(2*time.Second))).(*Client)
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestDailyBars(t *testing.T) {
	var gotPath, gotPeriod1, gotPeriod2 string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPeriod1 = r.URL.Query().Get("period1")
		gotPeriod2 = r.URL.Query().Get("period2")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chartBody))
	})

	bars, err := c.DailyBars(context.Background(), "AAPL", day("2020-01-01"), day("2020-01-31"))
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/AAPL", gotPath)
	assert.Equal(t, "1577836800", gotPeriod1)
	// end date is inclusive, so period2 is the following midnight
	assert.Equal(t, "1580515200", gotPeriod2)

	require.Len(t, bars, 3, "null bar must be skipped")
	assert.Equal(t, day("2020-01-02"), bars[0].Date)
	assert.Equal(t, day("2020-01-03"), bars[1].Date)
	assert.Equal(t, day("2020-01-07"), bars[2].Date)

	// first bar adjusted by adjclose/close = 0.5
	assert.InDelta(t, 37.545, bars[0].Close, 1e-9)
	assert.InDelta(t, 74.06*37.545/75.09, bars[0].Open, 1e-9)
	assert.Equal(t, int64(135480400), bars[0].Volume)
	assert.InDelta(t, 74.36, bars[1].Close, 1e-9)
}

func TestDailyBarsAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	})

	bars, err := c.DailyBars(context.Background(), "ZZZZZZ", day("2020-01-01"), day("2020-01-31"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delisted")
	assert.Empty(t, bars)
}

func TestDailyBarsStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	_, err := c.DailyBars(context.Background(), "ZZZZZZ", day("2020-01-01"), day("2020-01-31"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestDailyBarsNoResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	})

	bars, err := c.DailyBars(context.Background(), "AAPL", day("2020-01-04"), day("2020-01-05"))
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestDailyBarsEmptyTicker(t *testing.T) {
	c := New("http://127.0.0.1:1", nil)
	_, err := c.DailyBars(context.Background(), "", day("2020-01-01"), day("2020-01-02"))
	assert.Error(t, err)
}

func TestDailyBarsCanceledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chartBody))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.DailyBars(ctx, "AAPL", day("2020-01-01"), day("2020-01-31"))
	assert.Error(t, err)
}
