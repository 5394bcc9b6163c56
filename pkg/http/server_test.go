package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type pingHandler struct{}

func (pingHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/ping", func(c echo.Context) error { return SuccessResponse(c, "pong") })
}

type denyAll struct{}

func (denyAll) Allow(string) (bool, error) { return false, nil }

func serve(s *Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServerRegistersHandlersAndHealth(t *testing.T) {
	s := NewServer([]Handler{pingHandler{}, nil}, WithMetricsPath(""))

	assert.Equal(t, http.StatusOK, serve(s, "/api/ping").Code)
	rec := serve(s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Equal(t, http.StatusNotFound, serve(s, "/metrics").Code)
}

func TestServerRateLimitSkipsHealth(t *testing.T) {
	s := NewServer([]Handler{pingHandler{}}, WithMetricsPath(""), WithRateLimit(denyAll{}))

	rec := serve(s, "/api/ping")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), CodeTooManyRequests)
	assert.Equal(t, http.StatusOK, serve(s, "/healthz").Code)
}

func TestServerExposesMetrics(t *testing.T) {
	s := NewServer([]Handler{pingHandler{}}, WithMetricsPath("/metrics"))
	serve(s, "/api/ping")

	rec := serve(s, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
