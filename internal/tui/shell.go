package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	models "StockTrend/internal/domain/models"
	"StockTrend/internal/handler/api"
	xlogger "StockTrend/pkg/logger"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
)

// Shell is the terminal front end. The query is fixed at start; r runs the
// pipeline again with it.
type Shell struct {
	analyzer api.Analyzer
	query    models.UserQuery
	timeout  time.Duration
	logger   *xlogger.Logger

	header  *widgets.Paragraph
	status  *widgets.Paragraph
	table   *widgets.Table
	metrics *widgets.Paragraph
	plot    *widgets.Plot
	grid    *ui.Grid
}

// NewShell runs q exactly as given; callers fill defaults beforehand.
func NewShell(analyzer api.Analyzer, q models.UserQuery, timeout time.Duration, logger *xlogger.Logger) *Shell {
	if logger == nil {
		logger = xlogger.Nop()
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Shell{
		analyzer: analyzer,
		query:    q,
		timeout:  timeout,
		logger:   logger.Component("tui"),
	}
}

// Run takes over the terminal until the user quits or ctx ends.
func (s *Shell) Run(ctx context.Context) error {
	if err := ui.Init(); err != nil {
		return fmt.Errorf("failed to initialize termui: %w", err)
	}
	defer ui.Close()

	s.layout()
	s.trigger(ctx)

	events := ui.PollEvents()
	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-events:
			switch e.ID {
			case "q", "<C-c>":
				return nil
			case "r":
				s.trigger(ctx)
			case "<Resize>":
				payload := e.Payload.(ui.Resize)
				s.grid.SetRect(0, 0, payload.Width, payload.Height)
				ui.Clear()
				ui.Render(s.grid)
			}
		}
	}
}

func (s *Shell) layout() {
	s.header = widgets.NewParagraph()
	s.header.Title = "Stock time regression model"
	s.header.BorderStyle.Fg = ui.ColorYellow
	s.header.TitleStyle.Fg = ui.ColorYellow

	s.status = widgets.NewParagraph()
	s.status.Title = "Status"

	s.table = newTable()

	s.metrics = widgets.NewParagraph()
	s.metrics.Title = "Regression parameters"

	s.plot = widgets.NewPlot()
	s.plot.Title = "Close price (blue) vs Predict Close price (red)"
	s.plot.LineColors = []ui.Color{ui.ColorBlue, ui.ColorRed}
	s.plot.AxesColor = ui.ColorWhite
	s.plot.Marker = widgets.MarkerBraille
	s.plot.Data = [][]float64{{0, 0}}

	s.grid = ui.NewGrid()
	w, h := ui.TerminalDimensions()
	s.grid.SetRect(0, 0, w, h)
	s.grid.Set(
		ui.NewRow(0.2,
			ui.NewCol(0.7, s.header),
			ui.NewCol(0.3, s.status),
		),
		ui.NewRow(0.8,
			ui.NewCol(0.4, s.table),
			ui.NewCol(0.6,
				ui.NewRow(0.3, s.metrics),
				ui.NewRow(0.7, s.plot),
			),
		),
	)
}

// newTable returns the price table holding only its header row. termui
// cannot draw a table without rows.
func newTable() *widgets.Table {
	t := widgets.NewTable()
	t.Title = "Price data"
	t.RowSeparator = false
	t.TextAlignment = ui.AlignRight
	t.RowStyles[0] = ui.NewStyle(ui.ColorWhite, ui.ColorClear, ui.ModifierBold)
	t.Rows = [][]string{tableHeader}
	return t
}

func (s *Shell) trigger(ctx context.Context) {
	s.status.Text = "fetching..."
	ui.Render(s.grid)

	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	res, err := s.analyzer.HandleTrigger(tctx, s.query)
	if err != nil {
		s.logger.Debug("trigger rejected", xlogger.Error(err))
	}

	_, h := ui.TerminalDimensions()
	s.apply(buildView(s.query, res, err, h))
	ui.Clear()
	ui.Render(s.grid)
}

func (s *Shell) apply(v view) {
	s.header.Text = v.Header
	s.status.Text = v.Status
	s.metrics.Text = v.Metrics
	if v.Table == nil {
		s.table.Rows = [][]string{tableHeader}
	} else {
		s.table.Rows = v.Table
	}
	if v.Plot == nil {
		s.plot.Data = [][]float64{{0, 0}}
		s.plot.Title = "no chart"
	} else {
		s.plot.Data = v.Plot
		s.plot.Title = strings.Join(v.Labels, " / ")
	}
}
