package web

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	models "StockTrend/internal/domain/models"
	"StockTrend/internal/handler/api"
	"StockTrend/internal/services/chart"
	"StockTrend/internal/session"
	xhttp "StockTrend/pkg/http"
	xlogger "StockTrend/pkg/logger"

	"github.com/labstack/echo/v4"
	"gonum.org/v1/plot/vg"
)

// PageData is what the page template renders. Result and Error are never
// both set.
type PageData struct {
	Query      models.UserQuery
	Result     *models.Analysis
	Chart      template.HTML
	Error      string
	Disclaimer string
}

// PageHandler serves the single-page form. The only state it keeps per
// visitor is the last submitted query, stored under a session cookie.
type PageHandler struct {
	logger     *xlogger.Logger
	analyzer   api.Analyzer
	sessions   session.Store
	cookieName string
	cookieTTL  time.Duration
	chartW     vg.Length
	chartH     vg.Length
}

type PageOption func(*PageHandler)

// WithCookie sets the session cookie name and lifetime.
func WithCookie(name string, ttl time.Duration) PageOption {
	return func(h *PageHandler) {
		if name != "" {
			h.cookieName = name
		}
		h.cookieTTL = ttl
	}
}

// WithChartSize sets the inline SVG size in pixels.
func WithChartSize(widthPx, heightPx int) PageOption {
	return func(h *PageHandler) {
		h.chartW = api.PixelsToLength(widthPx)
		h.chartH = api.PixelsToLength(heightPx)
	}
}

func NewPageHandler(logger *xlogger.Logger, analyzer api.Analyzer, sessions session.Store, opts ...PageOption) *PageHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	h := &PageHandler{
		logger:     logger.Component("web"),
		analyzer:   analyzer,
		sessions:   sessions,
		cookieName: "stocktrend_sid",
		cookieTTL:  12 * time.Hour,
		chartW:     api.PixelsToLength(1152),
		chartH:     api.PixelsToLength(576),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *PageHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	e.GET("/analyze", h.Analyze)
}

// Index renders the form with the session's last query, or the defaults.
func (h *PageHandler) Index(c echo.Context) error {
	ctx := c.Request().Context()
	id := h.sessionID(c)

	q, err := h.sessions.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			h.logger.Warn("session read failed", xlogger.String("session", id), xlogger.Error(err))
		}
		q = h.analyzer.DefaultQuery()
	}

	return c.Render(http.StatusOK, "page", PageData{Query: q, Disclaimer: models.Disclaimer})
}

// Analyze is the trigger: it stores the submitted fields and runs the
// pipeline once.
func (h *PageHandler) Analyze(c echo.Context) error {
	ctx := c.Request().Context()
	id := h.sessionID(c)

	q, err := api.BindQuery(c, h.analyzer.DefaultQuery())
	if err != nil {
		return h.renderError(c, q, xhttp.BadRequestError("malformed form fields").WithError(err))
	}
	h.remember(ctx, id, q)

	res, err := h.analyzer.HandleTrigger(ctx, q)
	if err != nil {
		return h.renderError(c, q, err)
	}

	svg, err := chart.RenderSVG(res.Chart, h.chartW, h.chartH)
	if err != nil {
		h.logger.Error("chart render error", xlogger.String("ticker", q.Ticker), xlogger.Error(err))
		return h.renderError(c, q, xhttp.InternalError("could not render chart").WithError(err))
	}

	return c.Render(http.StatusOK, "page", PageData{
		Query:      res.Query,
		Result:     res,
		Chart:      template.HTML(inlineSVG(svg)),
		Disclaimer: models.Disclaimer,
	})
}

func (h *PageHandler) renderError(c echo.Context, q models.UserQuery, err error) error {
	status := http.StatusInternalServerError
	var appErr *xhttp.AppError
	if errors.As(err, &appErr) {
		status = appErr.Status
	}
	return c.Render(status, "page", PageData{
		Query:      q,
		Error:      xhttp.UserMessage(err),
		Disclaimer: models.Disclaimer,
	})
}

func (h *PageHandler) remember(ctx context.Context, id string, q models.UserQuery) {
	if err := h.sessions.Put(ctx, id, q); err != nil {
		h.logger.Warn("session write failed", xlogger.String("session", id), xlogger.Error(err))
	}
}

// sessionID returns the visitor's session id, issuing a cookie when the
// request has none or an unusable one.
func (h *PageHandler) sessionID(c echo.Context) string {
	if ck, err := c.Cookie(h.cookieName); err == nil && session.ValidID(ck.Value) {
		return ck.Value
	}
	id := session.NewID()
	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(h.cookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// inlineSVG drops the XML prolog so the document can sit inside HTML.
func inlineSVG(b []byte) []byte {
	if i := bytes.Index(b, []byte("<svg")); i > 0 {
		return b[i:]
	}
	return b
}
