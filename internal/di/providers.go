package di

import (
	"context"
	"fmt"
	"time"

	"StockTrend/internal/domain/repository"
	"StockTrend/internal/handler/api"
	"StockTrend/internal/handler/web"
	"StockTrend/internal/handler/ws"
	internalrepo "StockTrend/internal/repository"
	"StockTrend/internal/service/financego"
	"StockTrend/internal/service/yahoo"
	"StockTrend/internal/session"
	"StockTrend/internal/usecase"
	pkgch "StockTrend/pkg/clickhouse"
	"StockTrend/pkg/config"
	xhttp "StockTrend/pkg/http"
	pkgkafka "StockTrend/pkg/kafka"
	applogger "StockTrend/pkg/logger"
	"StockTrend/pkg/metrics"
	"StockTrend/pkg/ratelimit"
	"StockTrend/pkg/server"

	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// ProvideLogger creates the root structured logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder on the default registry.
func ProvideMetrics() repository.Metrics {
	return metrics.New(prometheus.DefaultRegisterer)
}

// ProvideMarketData picks the price provider named in the config.
func ProvideMarketData(cfg *config.Config) repository.MarketData {
	if cfg.Provider.Type == "financego" {
		return financego.New()
	}
	client := xhttp.NewClient(
		xhttp.WithTimeout(cfg.Provider.Timeout),
		xhttp.WithHeader("User-Agent", cfg.Provider.UserAgent),
	)
	return yahoo.New(cfg.Provider.BaseURL, client)
}

func ProvideFetcher(md repository.MarketData, m repository.Metrics, l *applogger.Logger) *usecase.Fetcher {
	return usecase.NewFetcher(md, m, l)
}

// ProvideKafkaProducer creates a Kafka producer, or nil when events are off.
// The producer also ships aggregated error logs.
func ProvideKafkaProducer(cfg *config.Config, l *applogger.Logger) (*pkgkafka.Producer, error) {
	if !cfg.Events.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Events.Brokers),
		pkgkafka.WithCompression(cfg.Events.Compression),
		pkgkafka.WithWriteTimeout(cfg.Events.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	if cfg.Events.LogsTopic != "" {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Events.LogsTopic,
			Publisher:      producer,
			PublishTimeout: cfg.Events.WriteTimeout,
		})
	}
	return producer, nil
}

// ProvideEventPublisher streams run events over the producer. It returns a
// nil interface when events are off.
func ProvideEventPublisher(cfg *config.Config, producer *pkgkafka.Producer) (repository.EventPublisher, error) {
	if producer == nil {
		return nil, nil
	}
	pub, err := internalrepo.NewKafkaRunPublisher(producer, cfg.Events.Topic)
	if err != nil {
		_ = producer.Close()
		return nil, fmt.Errorf("event publisher: %w", err)
	}
	return pub, nil
}

// ProvideRunLog connects to ClickHouse and prepares the run table. It returns
// a nil interface when the run log is off.
func ProvideRunLog(cfg *config.Config, l *applogger.Logger) (repository.RunLog, error) {
	if !cfg.RunLog.Enabled {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := pkgch.NewClient(ctx,
		pkgch.WithHost(cfg.RunLog.Host),
		pkgch.WithPort(cfg.RunLog.Port),
		pkgch.WithDatabase(cfg.RunLog.Database),
		pkgch.WithCredentials(cfg.RunLog.User, cfg.RunLog.Password),
		pkgch.WithTimeouts(cfg.RunLog.DialTimeout, 10*time.Second),
		pkgch.WithAsyncInsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	rl, err := internalrepo.NewCHRunLog(client, cfg.RunLog.Database+"."+cfg.RunLog.Table, l)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	schema := append([]string{fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", cfg.RunLog.Database)}, rl.Schema()...)
	if err := client.InitSchema(ctx, schema); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return rl, nil
}

// ProvideTrendAnalyzer builds the pipeline with whichever sinks are enabled.
func ProvideTrendAnalyzer(
	cfg *config.Config,
	fetcher *usecase.Fetcher,
	m repository.Metrics,
	l *applogger.Logger,
	runLog repository.RunLog,
	events repository.EventPublisher,
) *usecase.TrendAnalyzer {
	opts := []usecase.AnalyzerOption{
		usecase.WithDefaults(cfg.Defaults.Ticker, cfg.Defaults.Start),
	}
	if runLog != nil {
		opts = append(opts, usecase.WithRunLog(runLog))
	}
	if events != nil {
		opts = append(opts, usecase.WithEventPublisher(events))
	}
	return usecase.NewTrendAnalyzer(fetcher, m, l, opts...)
}

// ProvideSessionStore creates the web session backend.
func ProvideSessionStore(cfg *config.Config) (session.Store, error) {
	if cfg.Session.Backend != "redis" {
		return session.NewMemoryStore(cfg.Session.TTL), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := session.NewRedisStore(ctx, session.RedisConfig{
		Addr:     cfg.Session.Redis.Addr,
		Password: cfg.Session.Redis.Password,
		DB:       cfg.Session.Redis.DB,
		Prefix:   cfg.Session.Redis.Prefix,
		TTL:      cfg.Session.TTL,
	})
	if err != nil {
		return nil, fmt.Errorf("redis sessions: %w", err)
	}
	return store, nil
}

// ProvideRateLimiter returns the per-IP limiter, or a nil interface when off.
func ProvideRateLimiter(cfg *config.Config) echomw.RateLimiterStore {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
}

func ProvideRenderer() (*web.Renderer, error) {
	r, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	return r, nil
}

func ProvideAnalysisHandler(cfg *config.Config, l *applogger.Logger, a api.Analyzer) *api.AnalysisEchoHandler {
	return api.NewAnalysisEchoHandler(l, a, cfg.Chart.Width, cfg.Chart.Height)
}

func ProvidePageHandler(cfg *config.Config, l *applogger.Logger, a api.Analyzer, store session.Store) *web.PageHandler {
	return web.NewPageHandler(l, a, store,
		web.WithCookie(cfg.Session.CookieName, cfg.Session.TTL),
		web.WithChartSize(cfg.Chart.Width, cfg.Chart.Height),
	)
}

func ProvideShellHandler(l *applogger.Logger, a api.Analyzer) *ws.ShellHandler {
	return ws.NewShellHandler(l, a)
}

// ProvideHTTPHandlers collects every route group served by the HTTP server.
func ProvideHTTPHandlers(a *api.AnalysisEchoHandler, p *web.PageHandler, s *ws.ShellHandler) []xhttp.Handler {
	return []xhttp.Handler{a, p, s}
}

// ProvideHTTPServer creates the Echo server from config.
func ProvideHTTPServer(
	cfg *config.Config,
	l *applogger.Logger,
	handlers []xhttp.Handler,
	renderer *web.Renderer,
	limiter echomw.RateLimiterStore,
) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(l),
		xhttp.WithRenderer(renderer),
	}
	if limiter != nil {
		opts = append(opts, xhttp.WithRateLimit(limiter))
	}
	return xhttp.NewServer(handlers, opts...)
}

// ProvideResources registers everything the server closes on shutdown.
func ProvideResources(store session.Store, runLog repository.RunLog, events repository.EventPublisher) *server.Resources {
	res := ProvideLocalResources(runLog, events)
	res.Add("sessions", store.Close)
	return res
}

// ProvideLocalResources registers the sinks used without the HTTP server.
func ProvideLocalResources(runLog repository.RunLog, events repository.EventPublisher) *server.Resources {
	res := &server.Resources{}
	if events != nil {
		res.Add("events", events.Close)
	}
	if runLog != nil {
		res.Add("run_log", runLog.Close)
	}
	return res
}
