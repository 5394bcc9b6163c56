//go:build wireinject
// +build wireinject

package di

import (
	"StockTrend/internal/handler/api"
	"StockTrend/internal/usecase"
	"StockTrend/pkg/config"
	"StockTrend/pkg/server"

	"github.com/google/wire"
)

var analyzerSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideMarketData,
	ProvideFetcher,
	ProvideKafkaProducer,
	ProvideEventPublisher,
	ProvideRunLog,
	ProvideTrendAnalyzer,
)

// InitializeApp wires up all dependencies and returns the HTTP application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		analyzerSet,
		wire.Bind(new(api.Analyzer), new(*usecase.TrendAnalyzer)),

		ProvideSessionStore,
		ProvideRateLimiter,
		ProvideRenderer,

		ProvideAnalysisHandler,
		ProvidePageHandler,
		ProvideShellHandler,
		ProvideHTTPHandlers,
		ProvideHTTPServer,

		ProvideResources,
		server.New,
	)
	return &server.App{}, nil
}

// InitializeLocal wires the analyzer for the command line and terminal shells.
func InitializeLocal(cfg *config.Config) (*server.Local, error) {
	wire.Build(
		analyzerSet,
		ProvideLocalResources,
		server.NewLocal,
	)
	return &server.Local{}, nil
}
