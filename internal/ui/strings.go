package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

const ellipsis = "…"

// truncate cuts value to at most limit terminal cells, ending in an ellipsis
// when anything was dropped. Wide runes count as two cells.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	return ansi.Truncate(value, limit, ellipsis)
}

// truncateMiddle keeps both ends of value, which matters for endpoints and
// file paths where the tail identifies the thing.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	width := ansi.StringWidth(value)
	if limit <= 0 || width <= limit {
		return value
	}
	if limit <= 2 {
		return ansi.Truncate(value, limit, "")
	}
	keep := limit - 1
	head := keep / 2
	tail := keep - head
	return ansi.Truncate(value, head, "") + ellipsis + ansi.TruncateLeft(value, width-tail, "")
}

// padRight fills s with spaces up to width cells.
func padRight(s string, width int) string {
	if gap := width - ansi.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
