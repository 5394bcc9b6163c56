package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"StockTrend/internal/domain/models"
)

type fakeMarket struct {
	bars  []models.Bar
	err   error
	calls int

	gotTicker        string
	gotStart, gotEnd time.Time
}

func (f *fakeMarket) Name() string { return "fake" }

func (f *fakeMarket) DailyBars(_ context.Context, ticker string, start, end time.Time) ([]models.Bar, error) {
	f.calls++
	f.gotTicker, f.gotStart, f.gotEnd = ticker, start, end
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Bar, len(f.bars))
	copy(out, f.bars)
	return out, nil
}

type fakeMetrics struct {
	mu         sync.Mutex
	outcomes   []string
	errs       []string
	fetches    int
	degenerate int
}

func (m *fakeMetrics) RecordAnalysis(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

func (m *fakeMetrics) RecordFetch(string, int, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches++
}

func (m *fakeMetrics) RecordDegenerateFit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.degenerate++
}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = append(m.errs, kind)
}

type recordingSink struct {
	events []models.RunEvent
	err    error
}

func (s *recordingSink) Record(_ context.Context, ev models.RunEvent) error {
	s.events = append(s.events, ev)
	return s.err
}

func (s *recordingSink) PublishRun(_ context.Context, ev models.RunEvent) error {
	s.events = append(s.events, ev)
	return s.err
}

func (s *recordingSink) Close() error { return nil }

var errUpstream = errors.New("upstream unavailable")

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func linearBars() []models.Bar {
	return []models.Bar{
		{Date: date("2020-01-01"), Open: 99, High: 101, Low: 98, Close: 100, Volume: 10},
		{Date: date("2020-01-02"), Open: 101, High: 103, Low: 100, Close: 102, Volume: 11},
		{Date: date("2020-01-03"), Open: 103, High: 105, Low: 102, Close: 104, Volume: 12},
	}
}
