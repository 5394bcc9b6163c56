package util

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2020-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected date %v", got)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "  ", "2020/01/01", "2020-13-01", "yesterday"} {
		if _, err := ParseDate(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestDaysBetweenIgnoresClock(t *testing.T) {
	a := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)
	b := time.Date(2024, 3, 4, 0, 1, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 3 {
		t.Fatalf("expected 3 days, got %d", got)
	}
	if got := DaysBetween(a, a); got != 0 {
		t.Fatalf("expected 0 days, got %d", got)
	}
}

func TestDaysBetweenAcrossLeapDay(t *testing.T) {
	a := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 2 {
		t.Fatalf("expected 2 days, got %d", got)
	}
}
