package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillAbsent(t *testing.T) {
	def := UserQuery{Ticker: "AAPL", Start: "2020-01-01", End: "2024-05-17"}
	supplied := func(keys ...string) func(string) bool {
		return func(k string) bool {
			for _, s := range keys {
				if s == k {
					return true
				}
			}
			return false
		}
	}

	tests := []struct {
		name string
		in   UserQuery
		keys []string
		want UserQuery
	}{
		{"nothing supplied", UserQuery{}, nil, def},
		{"blank ticker kept", UserQuery{Start: "2021-01-01"}, []string{"ticker", "start"}, UserQuery{Start: "2021-01-01", End: "2024-05-17"}},
		{"all supplied", UserQuery{Ticker: "MSFT", Start: "2021-01-01", End: "2021-02-01"}, []string{"ticker", "start", "end"},
			UserQuery{Ticker: "MSFT", Start: "2021-01-01", End: "2021-02-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.FillAbsent(def, supplied(tt.keys...)))
		})
	}
}
