package usecase

import (
	"context"
	"time"

	"StockTrend/internal/domain/models"
	drepo "StockTrend/internal/domain/repository"
	"StockTrend/internal/services/features"
	applogger "StockTrend/pkg/logger"
)

// Fetcher wraps a market data provider and turns every failure into an
// empty series. Callers only need to check PriceSeries.Empty.
type Fetcher struct {
	provider drepo.MarketData
	metrics  drepo.Metrics
	log      *applogger.Logger
}

// NewFetcher creates a new Fetcher instance.
func NewFetcher(provider drepo.MarketData, metrics drepo.Metrics, l *applogger.Logger) *Fetcher {
	if l == nil {
		l = applogger.Nop()
	}
	return &Fetcher{provider: provider, metrics: metrics, log: l.Component("fetcher")}
}

// Provider returns the configured provider name.
func (f *Fetcher) Provider() string {
	return f.provider.Name()
}

// Fetch retrieves adjusted daily bars for [start, end], ordered by date.
func (f *Fetcher) Fetch(ctx context.Context, ticker string, start, end time.Time) models.PriceSeries {
	began := time.Now()
	bars, err := f.provider.DailyBars(ctx, ticker, start, end)
	elapsed := time.Since(began)

	if err != nil {
		f.log.Warn("market data fetch failed",
			applogger.String("provider", f.provider.Name()),
			applogger.String("ticker", ticker),
			applogger.Error(err),
		)
		if f.metrics != nil {
			f.metrics.RecordError("fetch")
		}
		bars = nil
	}
	if f.metrics != nil {
		f.metrics.RecordFetch(f.provider.Name(), len(bars), elapsed.Seconds())
	}

	features.SortByDate(bars)
	f.log.Debug("market data fetched",
		applogger.String("ticker", ticker),
		applogger.Int("bars", len(bars)),
		applogger.Duration("took_ms", elapsed),
	)
	return models.PriceSeries{Ticker: ticker, Bars: bars}
}
