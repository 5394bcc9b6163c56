package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"StockTrend/internal/domain/models"
	drepo "StockTrend/internal/domain/repository"
	"StockTrend/internal/services/chart"
	"StockTrend/internal/services/features"
	"StockTrend/internal/services/regression"
	xhttp "StockTrend/pkg/http"
	applogger "StockTrend/pkg/logger"
	"StockTrend/pkg/util"

	"github.com/google/uuid"
)

const (
	EmptyResultMessage = "no data retrieved; check ticker or date range"
	DegenerateNote     = "all rows share one date; slope is undefined and reported as 0"
)

// AnalyzerOption configures TrendAnalyzer.
type AnalyzerOption func(*TrendAnalyzer)

// WithRunLog records one audit row per trigger.
func WithRunLog(r drepo.RunLog) AnalyzerOption {
	return func(a *TrendAnalyzer) { a.runLog = r }
}

// WithEventPublisher streams one event per trigger.
func WithEventPublisher(p drepo.EventPublisher) AnalyzerOption {
	return func(a *TrendAnalyzer) { a.events = p }
}

// WithDefaults sets the ticker and start date offered before the first trigger.
func WithDefaults(ticker, start string) AnalyzerOption {
	return func(a *TrendAnalyzer) {
		if ticker != "" {
			a.defTicker = ticker
		}
		if start != "" {
			a.defStart = start
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) AnalyzerOption {
	return func(a *TrendAnalyzer) { a.now = now }
}

// TrendAnalyzer runs fetch, preprocess, fit and chart building for one
// query. It holds no per-query state, so one instance serves every shell.
type TrendAnalyzer struct {
	fetcher   *Fetcher
	metrics   drepo.Metrics
	runLog    drepo.RunLog
	events    drepo.EventPublisher
	log       *applogger.Logger
	defTicker string
	defStart  string
	now       func() time.Time
}

// NewTrendAnalyzer creates a new TrendAnalyzer instance.
func NewTrendAnalyzer(fetcher *Fetcher, metrics drepo.Metrics, l *applogger.Logger, opts ...AnalyzerOption) *TrendAnalyzer {
	if l == nil {
		l = applogger.Nop()
	}
	a := &TrendAnalyzer{
		fetcher:   fetcher,
		metrics:   metrics,
		log:       l.Component("analyzer"),
		defTicker: "AAPL",
		defStart:  "2020-01-01",
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// DefaultQuery returns the form values shown before the user changes
// anything. End is today's local date.
func (a *TrendAnalyzer) DefaultQuery() models.UserQuery {
	return models.UserQuery{
		Ticker: a.defTicker,
		Start:  a.defStart,
		End:    a.now().Format(util.DateLayout),
	}
}

// HandleTrigger runs the whole pipeline for q. Failures come back as
// *xhttp.AppError carrying a user-facing message; on error no partial
// analysis is returned.
func (a *TrendAnalyzer) HandleTrigger(ctx context.Context, q models.UserQuery) (*models.Analysis, error) {
	began := a.now()
	q.Ticker = util.NormalizeTicker(q.Ticker)
	q.Start = strings.TrimSpace(q.Start)
	q.End = strings.TrimSpace(q.End)

	start, end, err := a.validate(ctx, q)
	if err != nil {
		a.finish(ctx, q, models.OutcomeInvalid, 0, false, began)
		return nil, err
	}

	series := a.fetcher.Fetch(ctx, q.Ticker, start, end)
	if series.Empty() {
		a.finish(ctx, q, models.OutcomeEmpty, 0, false, began)
		return nil, xhttp.EmptyResultError(EmptyResultMessage).
			WithParam("ticker", q.Ticker).
			WithParam("start", q.Start).
			WithParam("end", q.End)
	}

	rows := features.Preprocess(series)
	fit := regression.Fit(rows)
	if fit.Degenerate && a.metrics != nil {
		a.metrics.RecordDegenerateFit()
	}

	summary := models.FitSummary{
		Intercept:  fit.Intercept,
		Slope:      fit.Slope,
		RSquared:   fit.RSquared,
		Rows:       len(rows),
		Degenerate: fit.Degenerate,
	}
	if fit.Degenerate {
		summary.Note = DegenerateNote
	}

	res := &models.Analysis{
		Query:       q,
		Provider:    a.fetcher.Provider(),
		Table:       series.Bars,
		Summary:     summary,
		Regression:  fit,
		Chart:       chart.Build(rows, fit),
		Disclaimer:  models.Disclaimer,
		GeneratedAt: a.now(),
	}

	a.finish(ctx, q, models.OutcomeOK, len(rows), fit.Degenerate, began)
	a.log.Info("analysis complete",
		applogger.String("ticker", q.Ticker),
		applogger.Int("rows", len(rows)),
		applogger.Float64("slope", fit.Slope),
		applogger.Float64("intercept", fit.Intercept),
	)
	return res, nil
}

func (a *TrendAnalyzer) validate(ctx context.Context, q models.UserQuery) (time.Time, time.Time, error) {
	if errs := xhttp.ValidateStruct(ctx, &q); len(errs) > 0 {
		return time.Time{}, time.Time{}, xhttp.ValidationFailedError(errs)
	}

	start, err := util.ParseDate(q.Start)
	if err != nil {
		return time.Time{}, time.Time{}, xhttp.BadRequestError(err.Error())
	}
	end, err := util.ParseDate(q.End)
	if err != nil {
		return time.Time{}, time.Time{}, xhttp.BadRequestError(err.Error())
	}
	if start.After(end) {
		e := xhttp.BadRequestError(fmt.Sprintf("start date %s is after end date %s", q.Start, q.End))
		e.Code = xhttp.CodeDateRange
		e.Field = "start"
		return time.Time{}, time.Time{}, e
	}
	return start, end, nil
}

// finish records the outcome. Sinks are best effort and never change the
// result shown to the user.
func (a *TrendAnalyzer) finish(ctx context.Context, q models.UserQuery, outcome string, rows int, degenerate bool, began time.Time) {
	if a.metrics != nil {
		a.metrics.RecordAnalysis(outcome)
	}
	if a.runLog == nil && a.events == nil {
		return
	}

	ev := models.RunEvent{
		ID:         uuid.NewString(),
		Ticker:     q.Ticker,
		Start:      q.Start,
		End:        q.End,
		Provider:   a.fetcher.Provider(),
		Outcome:    outcome,
		Rows:       rows,
		Degenerate: degenerate,
		DurationMs: a.now().Sub(began).Milliseconds(),
		At:         began.UTC(),
	}

	if a.runLog != nil {
		if err := a.runLog.Record(ctx, ev); err != nil {
			a.log.Warn("run log write failed", applogger.String("run_id", ev.ID), applogger.Error(err))
			if a.metrics != nil {
				a.metrics.RecordError("run_log")
			}
		}
	}
	if a.events != nil {
		if err := a.events.PublishRun(ctx, ev); err != nil {
			a.log.Warn("run event publish failed", applogger.String("run_id", ev.ID), applogger.Error(err))
			if a.metrics != nil {
				a.metrics.RecordError("events")
			}
		}
	}
}
