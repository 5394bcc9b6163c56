package util

import "testing"

func TestNormalizeTickerKeepsSymbol(t *testing.T) {
	if got := NormalizeTicker("  brk-b "); got != "brk-b" {
		t.Fatalf("unexpected ticker %q", got)
	}
}
