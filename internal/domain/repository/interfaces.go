package repository

import (
	"context"
	"time"

	"StockTrend/internal/domain/models"
)

// MarketData retrieves adjusted daily bars for [start, end] inclusive.
type MarketData interface {
	Name() string
	DailyBars(ctx context.Context, ticker string, start, end time.Time) ([]models.Bar, error)
}

// RunLog persists one audit row per trigger.
type RunLog interface {
	Record(ctx context.Context, ev models.RunEvent) error
	Close() error
}

// EventPublisher streams run events to downstream consumers.
type EventPublisher interface {
	PublishRun(ctx context.Context, ev models.RunEvent) error
	Close() error
}

type Metrics interface {
	RecordAnalysis(outcome string)
	RecordFetch(provider string, bars int, seconds float64)
	RecordDegenerateFit()
	RecordError(kind string)
}
