package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// formatPrice renders an amount with two decimals.
func formatPrice(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// oneLine collapses newlines and runs of whitespace so descriptions fit a row.
func oneLine(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// moveCursor clamps cursor+delta to [0, n).
func moveCursor(cursor, delta, n int) int {
	cursor += delta
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

// centered pads s on the left so it sits in the middle of width.
func centered(s string, width, sw int) string {
	pad := (width - sw) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}
