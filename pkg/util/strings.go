package util

import "strings"

// NormalizeTicker trims surrounding whitespace; the symbol is otherwise
// passed through uninterpreted.
func NormalizeTicker(s string) string {
	return strings.TrimSpace(s)
}
