package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	models "StockTrend/internal/domain/models"
	"StockTrend/internal/handler/api"
	"StockTrend/internal/services/chart"
	"StockTrend/internal/services/features"
	"StockTrend/internal/services/regression"
	"StockTrend/internal/session"
	"StockTrend/internal/usecase"
	xhttp "StockTrend/pkg/http"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnalyzer struct {
	calls int
	err   error
}

func (s *stubAnalyzer) DefaultQuery() models.UserQuery {
	return models.UserQuery{Ticker: "AAPL", Start: "2020-01-01", End: "2024-05-17"}
}

func (s *stubAnalyzer) HandleTrigger(_ context.Context, q models.UserQuery) (*models.Analysis, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	series := models.PriceSeries{Ticker: q.Ticker, Bars: []models.Bar{
		{Date: base, Open: 99, High: 101, Low: 98, Close: 100, Volume: 1000},
		{Date: base.AddDate(0, 0, 1), Open: 101, High: 103, Low: 100, Close: 102, Volume: 1100},
	}}
	rows := features.Preprocess(series)
	fit := regression.Fit(rows)
	return &models.Analysis{
		Query:      q,
		Table:      series.Bars,
		Summary:    models.FitSummary{Intercept: fit.Intercept, Slope: fit.Slope, Rows: len(rows)},
		Regression: fit,
		Chart:      chart.Build(rows, fit),
		Disclaimer: models.Disclaimer,
	}, nil
}

func newTestServer(t *testing.T, a api.Analyzer) (*echo.Echo, *session.MemoryStore) {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)

	store := session.NewMemoryStore(time.Hour)
	t.Cleanup(func() { _ = store.Close() })

	e := echo.New()
	e.Renderer = r
	NewPageHandler(nil, a, store, WithChartSize(480, 240)).RegisterRoutes(e)
	return e, store
}

func do(e *echo.Echo, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "stocktrend_sid" {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func TestIndexShowsDefaults(t *testing.T) {
	a := &stubAnalyzer{}
	e, _ := newTestServer(t, a)

	rec := do(e, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, `value="AAPL"`)
	assert.Contains(t, body, `value="2020-01-01"`)
	assert.Contains(t, body, `value="2024-05-17"`)
	assert.Contains(t, body, models.Disclaimer)
	assert.NotContains(t, body, "<table>")
	assert.Zero(t, a.calls, "rendering the form must not trigger the pipeline")
	assert.True(t, session.ValidID(sessionCookie(t, rec).Value))
}

func TestAnalyzeRendersResult(t *testing.T) {
	e, _ := newTestServer(t, &stubAnalyzer{})

	rec := do(e, "/analyze?ticker=MSFT&start=2020-01-01&end=2020-01-02")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, `value="MSFT"`)
	assert.Contains(t, body, "<table>")
	assert.Contains(t, body, "2020-01-02")
	assert.Contains(t, body, "Intercept")
	assert.Contains(t, body, "2.000000")
	assert.Contains(t, body, "<svg")
	assert.NotContains(t, body, "<?xml")
	assert.NotContains(t, body, `class="error"`)
}

func TestAnalyzeEmptyResultShowsOnlyError(t *testing.T) {
	a := &stubAnalyzer{err: xhttp.EmptyResultError("no data retrieved; check ticker or date range")}
	e, _ := newTestServer(t, a)

	rec := do(e, "/analyze?ticker=ZZZZ&start=2020-01-01&end=2020-01-02")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "no data retrieved; check ticker or date range")
	assert.NotContains(t, body, "<table>")
	assert.NotContains(t, body, "<svg")
	assert.NotContains(t, body, "Intercept")
	assert.Contains(t, body, `value="ZZZZ"`, "form keeps what the user typed")
}

func TestSessionRemembersQuery(t *testing.T) {
	e, store := newTestServer(t, &stubAnalyzer{})

	first := do(e, "/analyze?ticker=TSLA&start=2021-01-01&end=2021-03-01")
	ck := sessionCookie(t, first)

	q, err := store.Get(context.Background(), ck.Value)
	require.NoError(t, err)
	assert.Equal(t, "TSLA", q.Ticker)

	rec := do(e, "/", ck)
	assert.Contains(t, rec.Body.String(), `value="TSLA"`)
	assert.Contains(t, rec.Body.String(), `value="2021-03-01"`)

	other := do(e, "/")
	assert.Contains(t, other.Body.String(), `value="AAPL"`, "a new visitor gets the defaults")
}

func TestInvalidCookieIsReplaced(t *testing.T) {
	e, _ := newTestServer(t, &stubAnalyzer{})

	rec := do(e, "/", &http.Cookie{Name: "stocktrend_sid", Value: "forged"})
	assert.NotEqual(t, "forged", sessionCookie(t, rec).Value)
}

func TestTemplateEscapesInput(t *testing.T) {
	a := &stubAnalyzer{err: xhttp.EmptyResultError("no data retrieved; check ticker or date range")}
	e, _ := newTestServer(t, a)

	rec := do(e, "/analyze?ticker=%3Cscript%3E&start=2020-01-01&end=2020-01-02")
	assert.False(t, strings.Contains(rec.Body.String(), "<script>"))
}

func TestInlineSVG(t *testing.T) {
	assert.Equal(t, "<svg/>", string(inlineSVG([]byte("<?xml version=\"1.0\"?>\n<svg/>"))))
	assert.Equal(t, "<svg/>", string(inlineSVG([]byte("<svg/>"))))
}

type recordingMarket struct{ calls int }

func (m *recordingMarket) Name() string { return "recording" }

func (m *recordingMarket) DailyBars(context.Context, string, time.Time, time.Time) ([]models.Bar, error) {
	m.calls++
	return nil, nil
}

func TestAnalyzeRejectsClearedTicker(t *testing.T) {
	m := &recordingMarket{}
	e, store := newTestServer(t, usecase.NewTrendAnalyzer(usecase.NewFetcher(m, nil, nil), nil, nil))

	rec := do(e, "/analyze?ticker=&start=2021-01-01&end=2021-02-01")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ticker is required")
	assert.NotContains(t, rec.Body.String(), "<svg")
	assert.Zero(t, m.calls)

	q, err := store.Get(context.Background(), sessionCookie(t, rec).Value)
	require.NoError(t, err)
	assert.Equal(t, "", q.Ticker, "the cleared field is remembered as submitted")
}

