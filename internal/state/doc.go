// Package state provides the thread-safe snapshot shared by the pollers and
// the UI.
//
// # Overview
//
// Two pollers write into one Store: the torrent-list poller calls
// UpdateTorrents and the statistics poller calls UpdateStats. The UI reads a
// Snapshot on every tick. Neither side holds the lock during network I/O or
// rendering.
//
//	torrent poller ──UpdateTorrents──┐
//	                                 ├─→ Store ──Snapshot()──→ UI
//	stats poller ────UpdateStats─────┘
//
// # Update Semantics
//
// A successful update replaces the resource and resets its failure counter.
// A failed update keeps the last good data, records the error and bumps the
// counter, so the UI keeps showing the most recent torrents while reporting
// that the daemon is unreachable:
//
//	store.UpdateTorrents(nil, err)
//	→ Torrents            = <unchanged>
//	→ LastError           = err
//	→ ConsecutiveFailures = previous + 1
//
// Snapshot.IsOffline reports two or more torrent failures in a row.
//
// # Defensive Copying
//
// Snapshot clones the torrent slice and wraps stored errors, so callers may
// sort or modify what they receive. The zero Store is ready to use.
package state
