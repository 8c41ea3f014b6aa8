package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/tower/internal/transmission"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Version string

	Torrents            []transmission.TorrentSummary
	HasTorrents         bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Consecutive torrent-list poll failures

	Stats         transmission.SessionStats
	HasStats      bool
	StatsUpdated  time.Time
	StatsError    error
	StatsFailures int
}

// IsOffline returns true when the daemon has been unreachable for multiple
// torrent polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// UpdateTorrents replaces the torrent list. When err is non-nil the previous
// list is kept but the error is recorded for visibility.
func (s *Store) UpdateTorrents(torrents []transmission.TorrentSummary, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Torrents = cloneTorrents(torrents)
	s.snapshot.HasTorrents = true
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// UpdateStats replaces the session statistics, keeping the previous values
// on error.
func (s *Store) UpdateStats(stats *transmission.SessionStats, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.StatsUpdated = time.Now()
	if err != nil {
		s.snapshot.StatsError = err
		s.snapshot.StatsFailures++
		return
	}

	if stats != nil {
		s.snapshot.Stats = *stats
		s.snapshot.HasStats = true
	}
	s.snapshot.StatsError = nil
	s.snapshot.StatsFailures = 0
}

// SetVersion records the daemon version reported by session-get.
func (s *Store) SetVersion(version string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Version = version
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Torrents = cloneTorrents(s.snapshot.Torrents)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	if s.snapshot.StatsError != nil {
		snap.StatsError = fmt.Errorf("%w", s.snapshot.StatsError)
	}
	return snap
}

func cloneTorrents(items []transmission.TorrentSummary) []transmission.TorrentSummary {
	if len(items) == 0 {
		return nil
	}
	dup := make([]transmission.TorrentSummary, len(items))
	copy(dup, items)
	return dup
}
