package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockTrend/internal/usecase"
	"StockTrend/pkg/config"
	xhttp "StockTrend/pkg/http"
	applogger "StockTrend/pkg/logger"
)

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	res        *Resources
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, l *applogger.Logger, httpServer *xhttp.Server, res *Resources) *App {
	return &App{cfg: cfg, log: l, httpServer: httpServer, res: res}
}

// Server exposes the HTTP server, mainly for tests.
func (a *App) Server() *xhttp.Server { return a.httpServer }

// Run starts the server and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the server and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("stocktrend started",
		applogger.String("env", a.cfg.Environment),
		applogger.String("provider", a.cfg.Provider.Type),
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("sessions", a.cfg.Session.Backend),
		applogger.Bool("events", a.cfg.Events.Enabled),
		applogger.Bool("run_log", a.cfg.RunLog.Enabled),
	)

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	var firstErr error
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}
	a.res.Close(a.log)

	a.log.Info("shutdown complete")
	return firstErr
}

// Local bundles the analyzer for the command line and terminal front ends,
// which run without the HTTP server.
type Local struct {
	Analyzer *usecase.TrendAnalyzer
	Logger   *applogger.Logger
	Timeout  time.Duration
	res      *Resources
}

func NewLocal(cfg *config.Config, analyzer *usecase.TrendAnalyzer, l *applogger.Logger, res *Resources) *Local {
	return &Local{Analyzer: analyzer, Logger: l, Timeout: cfg.Provider.Timeout, res: res}
}

// Close releases sinks and flushes the log collector.
func (l *Local) Close() {
	l.res.Close(l.Logger)
}

type closer struct {
	name string
	fn   func() error
}

// Resources are long-lived clients closed in reverse order of creation.
type Resources struct {
	closers []closer
}

// Add registers fn to run on Close; nil fns are ignored.
func (r *Resources) Add(name string, fn func() error) {
	if fn == nil {
		return
	}
	r.closers = append(r.closers, closer{name: name, fn: fn})
}

// Close flushes the logger's collector while the producer behind it is still
// open, then runs every closer and logs failures.
func (r *Resources) Close(l *applogger.Logger) {
	if r == nil {
		return
	}
	l.RemoveCollector()
	for i := len(r.closers) - 1; i >= 0; i-- {
		c := r.closers[i]
		if err := c.fn(); err != nil {
			l.Warn(fmt.Sprintf("%s close error", c.name), applogger.Error(err))
		}
	}
	r.closers = nil
}
