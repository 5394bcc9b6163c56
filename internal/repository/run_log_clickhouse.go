package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"StockTrend/internal/domain/models"
	domrepo "StockTrend/internal/domain/repository"
	pkgch "StockTrend/pkg/clickhouse"
	applogger "StockTrend/pkg/logger"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// CHRunLog implements RunLog backed by a ClickHouse MergeTree table.
type CHRunLog struct {
	db     *sql.DB
	table  string
	closer func() error
	l      *applogger.Logger
}

// NewCHRunLog wraps an open client. The client is closed with the run log.
func NewCHRunLog(ch *pkgch.Client, table string, l *applogger.Logger) (*CHRunLog, error) {
	return newCHRunLog(ch.DB(), table, ch.Close, l)
}

func newCHRunLog(db *sql.DB, table string, closer func() error, l *applogger.Logger) (*CHRunLog, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid run log table name %q", table)
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &CHRunLog{db: db, table: table, closer: closer, l: l.Component("run_log")}, nil
}

var _ domrepo.RunLog = (*CHRunLog)(nil)

// Schema returns the DDL for the run table.
func (s *CHRunLog) Schema() []string {
	return []string{fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            id          String,
            at          DateTime64(3, 'UTC'),
            ticker      String,
            start_date  String,
            end_date    String,
            provider    LowCardinality(String),
            outcome     LowCardinality(String),
            rows        UInt32,
            degenerate  UInt8,
            duration_ms UInt64
        ) ENGINE = MergeTree
        ORDER BY (ticker, at)
    `, s.table)}
}

func (s *CHRunLog) Record(ctx context.Context, ev models.RunEvent) error {
	q := fmt.Sprintf("INSERT INTO %s (id, at, ticker, start_date, end_date, provider, outcome, rows, degenerate, duration_ms) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", s.table)

	var degenerate uint8
	if ev.Degenerate {
		degenerate = 1
	}
	_, err := s.db.ExecContext(ctx, q,
		ev.ID,
		ev.At,
		ev.Ticker,
		ev.Start,
		ev.End,
		ev.Provider,
		ev.Outcome,
		uint32(ev.Rows),
		degenerate,
		uint64(ev.DurationMs),
	)
	if err != nil {
		s.l.Error("clickhouse run insert error",
			applogger.String("table", s.table),
			applogger.String("run_id", ev.ID),
			applogger.Error(err),
		)
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (s *CHRunLog) Close() error {
	if s.closer != nil {
		return s.closer()
	}
	return nil
}
