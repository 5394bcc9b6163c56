package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"StockTrend/internal/di"
	models "StockTrend/internal/domain/models"
	"StockTrend/internal/services/chart"
	"StockTrend/internal/tui"
	"StockTrend/pkg/config"

	"github.com/urfave/cli/v2"
)

var queryFlags = []cli.Flag{
	&cli.StringFlag{Name: "ticker", Aliases: []string{"t"}, Usage: "stock symbol, e.g. AAPL"},
	&cli.StringFlag{Name: "start", Aliases: []string{"s"}, Usage: "first day, YYYY-MM-DD"},
	&cli.StringFlag{Name: "end", Aliases: []string{"e"}, Usage: "last day (inclusive), YYYY-MM-DD"},
}

func main() {
	app := &cli.App{
		Name:  "stocktrend",
		Usage: "fit a linear trend to daily closing prices",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config/config.yaml",
				Usage:   "config file path",
				EnvVars: []string{"STOCKTREND_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the web page, JSON API and WebSocket shell",
				Action: serve,
			},
			{
				Name:  "analyze",
				Usage: "run one analysis and print the table and fit",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "chart", Usage: "write the chart as SVG to this path"},
					&cli.IntFlag{Name: "rows", Usage: "print at most this many rows (0 prints all)"},
				}, queryFlags...),
				Action: analyze,
			},
			{
				Name:   "tui",
				Usage:  "interactive terminal shell",
				Flags:  queryFlags,
				Action: runTUI,
			},
		},
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("stocktrend: %v", err)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadWithEnv(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	return cfg, nil
}

// queryFrom reads the query flags. Flags not given on the command line come
// from def; an explicit empty value is passed on and rejected by validation.
func queryFrom(c *cli.Context, def models.UserQuery) models.UserQuery {
	q := models.UserQuery{
		Ticker: c.String("ticker"),
		Start:  c.String("start"),
		End:    c.String("end"),
	}
	return q.FillAbsent(def, c.IsSet)
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	// Wire DI: Initialize all dependencies
	app, err := di.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("app initialization failed: %w", err)
	}

	// Run application (blocks until signal)
	return app.Run()
}

func analyze(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	// keep stdout for the report
	if cfg.Log.Output == "" || cfg.Log.Output == "stdout" {
		cfg.Log.Output = "stderr"
	}

	local, err := di.InitializeLocal(cfg)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer local.Close()

	ctx, cancel := context.WithTimeout(c.Context, local.Timeout)
	defer cancel()

	q := queryFrom(c, local.Analyzer.DefaultQuery())
	res, err := local.Analyzer.HandleTrigger(ctx, q)
	if err != nil {
		return cli.Exit(userMessage(err), 1)
	}

	if err := printReport(c.App.Writer, res, c.Int("rows")); err != nil {
		return err
	}

	if path := c.String("chart"); path != "" {
		svg, err := chart.RenderSVG(res.Chart, 0, 0)
		if err != nil {
			return fmt.Errorf("render chart: %w", err)
		}
		if err := os.WriteFile(path, svg, 0o644); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		fmt.Fprintf(c.App.Writer, "Chart written to %s\n", path)
	}
	return nil
}

func runTUI(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	// the terminal belongs to the UI; only file logging survives
	if cfg.Log.Output == "" || cfg.Log.Output == "stdout" || cfg.Log.Output == "stderr" {
		cfg.Log.Level = "disabled"
	}

	local, err := di.InitializeLocal(cfg)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer local.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	q := queryFrom(c, local.Analyzer.DefaultQuery())
	return tui.NewShell(local.Analyzer, q, local.Timeout, local.Logger).Run(ctx)
}
