package app

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/tower/internal/metrics"
	"github.com/five82/tower/internal/state"
	"github.com/five82/tower/internal/transmission"
)

const (
	defaultPollInterval = 2 * time.Second

	// maxBackoff caps the wait between polls while the daemon keeps failing.
	maxBackoff = 30 * time.Second
)

// Poll resources, used for logging and metric labels.
const (
	resourceTorrents = "torrents"
	resourceStats    = "stats"
)

// Pollers runs one background loop per resource until stopped.
type Pollers struct {
	cancel context.CancelFunc
	group  *errgroup.Group
}

// StartPollers launches the torrent-list and session-stats pollers. Each
// poller issues one request at a time; the two run independently. It
// returns immediately.
func StartPollers(ctx context.Context, store *state.Store, client transmission.Daemon, interval time.Duration, logger *zap.Logger) *Pollers {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return pollLoop(gctx, logger, resourceTorrents, interval, func(ctx context.Context) error {
			return refreshTorrents(ctx, store, client)
		})
	})
	g.Go(func() error {
		return pollLoop(gctx, logger, resourceStats, interval, func(ctx context.Context) error {
			return refreshStats(ctx, store, client)
		})
	})

	return &Pollers{cancel: cancel, group: g}
}

// Stop cancels the pollers and waits for them to return. In-flight requests
// are abandoned, not drained.
func (p *Pollers) Stop() error {
	p.cancel()
	return p.group.Wait()
}

// pollLoop calls fetch, then sleeps interval, until ctx is cancelled. Failed
// fetches are logged and counted; consecutive failures stretch the sleep.
func pollLoop(ctx context.Context, logger *zap.Logger, resource string, interval time.Duration, fetch func(context.Context) error) error {
	failures := 0
	for {
		if err := fetch(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			failures++
			metrics.PollFailuresTotal.WithLabelValues(resource).Inc()
			logger.Warn("poll failed",
				zap.String("resource", resource),
				zap.Int("failures", failures),
				zap.Error(err),
			)
		} else {
			if failures > 0 {
				logger.Info("poll recovered", zap.String("resource", resource), zap.Int("failures", failures))
			}
			failures = 0
		}

		timer := time.NewTimer(calculateBackoff(failures, interval))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// calculateBackoff returns base doubled once per consecutive failure, capped
// at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}

func refreshTorrents(ctx context.Context, store *state.Store, client transmission.Daemon) error {
	torrents, err := client.TorrentSummaries(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	store.UpdateTorrents(torrents, err)
	if err != nil {
		return err
	}
	metrics.TorrentsTracked.Set(float64(len(torrents)))
	return nil
}

func refreshStats(ctx context.Context, store *state.Store, client transmission.Daemon) error {
	stats, err := client.SessionStats(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		store.UpdateStats(nil, err)
		return err
	}
	store.UpdateStats(&stats, nil)
	metrics.DownloadSpeedBytes.Set(float64(stats.DownloadSpeed))
	metrics.UploadSpeedBytes.Set(float64(stats.UploadSpeed))
	return nil
}
