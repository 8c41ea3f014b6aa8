package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutPeersWidth is the minimum width to show peer counts.
	LayoutPeersWidth = 90
)

// Torrent list geometry.
const (
	// linesPerTorrent is name, progress bar, data points.
	linesPerTorrent = 3

	// minBarWidth keeps the bar legible on narrow terminals.
	minBarWidth = 10
)

// Log display limits.
const (
	// LogTailLines is how many lines of tower's own log the log view reads.
	LogTailLines = 400
)

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second

	// ActionInterval is the minimum spacing between pause/resume commands.
	ActionInterval = time.Second

	// ActionTimeout bounds a single torrent-start/stop request.
	ActionTimeout = 5 * time.Second

	// actionStatusTTL is how long an action outcome stays in the header.
	actionStatusTTL = 5 * time.Second
)
