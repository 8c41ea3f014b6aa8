package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/five82/tower/internal/state"
	"github.com/five82/tower/internal/transmission"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type fakeDaemon struct {
	mu          sync.Mutex
	torrents    []transmission.TorrentSummary
	torrentErr  error
	stats       transmission.SessionStats
	statsErr    error
	torrentHits int
	inFlight    int
	maxInFlight int
}

func (f *fakeDaemon) GetSession(ctx context.Context, fields ...string) (transmission.SessionInfo, error) {
	return transmission.SessionInfo{Version: "4.0.5"}, nil
}

func (f *fakeDaemon) SessionStats(ctx context.Context) (transmission.SessionStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats, f.statsErr
}

func (f *fakeDaemon) TorrentSummaries(ctx context.Context) ([]transmission.TorrentSummary, error) {
	f.mu.Lock()
	f.torrentHits++
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	torrents, err := f.torrents, f.torrentErr
	f.mu.Unlock()

	time.Sleep(time.Millisecond)

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
	return torrents, err
}

func (f *fakeDaemon) TorrentAction(ctx context.Context, action transmission.Action, id int64) error {
	return nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestStartPollers_PublishesToStore(t *testing.T) {
	daemon := &fakeDaemon{
		torrents: []transmission.TorrentSummary{{ID: 1, Name: "debian.iso"}},
		stats:    transmission.SessionStats{DownloadSpeed: 1024},
	}
	store := &state.Store{}

	pollers := StartPollers(context.Background(), store, daemon, 10*time.Millisecond, zap.NewNop())
	waitFor(t, func() bool {
		snap := store.Snapshot()
		return snap.HasTorrents && snap.HasStats
	})
	if err := pollers.Stop(); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}

	snap := store.Snapshot()
	if len(snap.Torrents) != 1 || snap.Torrents[0].Name != "debian.iso" {
		t.Fatalf("torrents = %#v, want debian.iso", snap.Torrents)
	}
	if snap.Stats.DownloadSpeed != 1024 {
		t.Fatalf("DownloadSpeed = %d, want 1024", snap.Stats.DownloadSpeed)
	}

	daemon.mu.Lock()
	defer daemon.mu.Unlock()
	if daemon.maxInFlight != 1 {
		t.Fatalf("max concurrent torrent requests = %d, want 1", daemon.maxInFlight)
	}
}

func TestStartPollers_FailuresKeepPreviousData(t *testing.T) {
	daemon := &fakeDaemon{torrents: []transmission.TorrentSummary{{ID: 7}}}
	store := &state.Store{}

	pollers := StartPollers(context.Background(), store, daemon, 5*time.Millisecond, zap.NewNop())
	t.Cleanup(func() { _ = pollers.Stop() })

	waitFor(t, func() bool { return store.Snapshot().HasTorrents })

	daemon.mu.Lock()
	daemon.torrentErr = errors.New("connection refused")
	daemon.mu.Unlock()

	waitFor(t, func() bool { return store.Snapshot().IsOffline() })
	snap := store.Snapshot()
	if len(snap.Torrents) != 1 || snap.Torrents[0].ID != 7 {
		t.Fatalf("torrents = %#v, want previous list kept", snap.Torrents)
	}
	if snap.LastError == nil {
		t.Fatalf("LastError = nil, want poll error")
	}
}

func TestPollLoop_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- pollLoop(ctx, zap.NewNop(), "test", time.Hour, func(context.Context) error {
			calls.Add(1)
			return nil
		})
	}()

	waitFor(t, func() bool { return calls.Load() == 1 })
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("pollLoop returned %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("pollLoop did not stop after cancel")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("fetch calls = %d, want 1", got)
	}
}
