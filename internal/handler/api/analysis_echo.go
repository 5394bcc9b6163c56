package api

import (
	"context"
	"net/http"

	models "StockTrend/internal/domain/models"
	"StockTrend/internal/services/chart"
	xhttp "StockTrend/pkg/http"
	xlogger "StockTrend/pkg/logger"

	"github.com/labstack/echo/v4"
	"gonum.org/v1/plot/vg"
)

// Analyzer runs one trigger of the pipeline.
type Analyzer interface {
	DefaultQuery() models.UserQuery
	HandleTrigger(ctx context.Context, q models.UserQuery) (*models.Analysis, error)
}

// AnalysisEchoHandler exposes the pipeline as JSON and SVG.
type AnalysisEchoHandler struct {
	logger   *xlogger.Logger
	analyzer Analyzer
	chartW   vg.Length
	chartH   vg.Length
}

// NewAnalysisEchoHandler takes the SVG size in pixels at 96 dpi.
func NewAnalysisEchoHandler(logger *xlogger.Logger, analyzer Analyzer, widthPx, heightPx int) *AnalysisEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &AnalysisEchoHandler{
		logger:   logger.Component("api"),
		analyzer: analyzer,
		chartW:   PixelsToLength(widthPx),
		chartH:   PixelsToLength(heightPx),
	}
}

// PixelsToLength converts CSS pixels to a plot length.
func PixelsToLength(px int) vg.Length {
	return vg.Length(px) * vg.Inch / 96
}

func (h *AnalysisEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/defaults", h.Defaults)
	g.GET("/analysis", h.Analysis)
	g.GET("/analysis/chart.svg", h.ChartSVG)
}

// Defaults returns the query the shells start with.
func (h *AnalysisEchoHandler) Defaults(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.analyzer.DefaultQuery())
}

// Analysis runs the pipeline and returns table, summary and chart spec.
func (h *AnalysisEchoHandler) Analysis(c echo.Context) error {
	res, err := h.trigger(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// ChartSVG runs the pipeline and returns only the rendered chart.
func (h *AnalysisEchoHandler) ChartSVG(c echo.Context) error {
	res, err := h.trigger(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}

	svg, err := chart.RenderSVG(res.Chart, h.chartW, h.chartH)
	if err != nil {
		h.logger.Error("chart render error", xlogger.String("ticker", res.Query.Ticker), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("could not render chart").WithError(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.Blob(http.StatusOK, "image/svg+xml", svg)
}

func (h *AnalysisEchoHandler) trigger(c echo.Context) (*models.Analysis, error) {
	req, err := BindQuery(c, h.analyzer.DefaultQuery())
	if err != nil {
		return nil, xhttp.BadRequestError("malformed query parameters").WithError(err)
	}

	res, err := h.analyzer.HandleTrigger(c.Request().Context(), req)
	if err != nil {
		h.logger.Debug("analysis rejected",
			xlogger.String("ticker", req.Ticker),
			xlogger.String("reason", xhttp.UserMessage(err)),
		)
		return nil, err
	}
	return res, nil
}

// BindQuery reads ticker, start and end from the query string. Parameters
// missing from the URL come from def; ones sent empty stay empty.
func BindQuery(c echo.Context, def models.UserQuery) (models.UserQuery, error) {
	q := models.UserQuery{}
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return q, err
	}
	params := c.QueryParams()
	return q.FillAbsent(def, func(key string) bool {
		_, ok := params[key]
		return ok
	}), nil
}
