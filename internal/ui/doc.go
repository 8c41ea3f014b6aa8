// Package ui provides the terminal dashboard for tower.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model reads snapshots from state.Store on
// every tick and never talks to the daemon for reads; the pollers in package
// app own that. The one write path is pause/resume, which calls the
// transmission.Daemon directly from a tea.Cmd.
//
// # Package Structure
//
//   - app.go: Model, key dispatch, tick loop and Run
//   - torrents.go: filtering, sorting and the three-line torrent rows
//   - progress.go: piece bars built from bitfield.Quantize
//   - header.go: status header and command bar
//   - stats.go: footer with aggregate speeds and totals
//   - actions.go: throttled pause/resume
//   - logs.go: viewport over tower's own log file
//   - theme.go: colors, styles and bar palettes
//
// # Piece Bars
//
// Each torrent's bitmap is quantized into at most 100 groups, merged into
// colored segments, then stretched over the available width with
// largest-remainder allocation so the bar always fills its row exactly.
// The palette follows the torrent's status: green while seeding, blue while
// downloading, purple while verifying and magenta otherwise.
//
// # Key Bindings
//
//   - j/k, g/G, pgup/pgdown: Navigate
//   - Space: Pause or resume the selected torrent
//   - /: Filter by name, esc clears
//   - s / o: Cycle sort key / toggle order
//   - l / q: Log view / torrent list
//   - T: Cycle theme
//   - h or ?: Help
//   - e or Ctrl+C: Exit
//
// Theme and sort choices are saved to the prefs file as they change.
package ui
