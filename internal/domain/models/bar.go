package models

import "time"

// Bar is one adjusted daily OHLCV record.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries is the result of one fetch, ordered by date ascending.
// An empty series is a normal outcome, not an error.
type PriceSeries struct {
	Ticker string `json:"ticker"`
	Bars   []Bar  `json:"bars"`
}

func (s PriceSeries) Len() int { return len(s.Bars) }

func (s PriceSeries) Empty() bool { return len(s.Bars) == 0 }
