package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/five82/tower/internal/config"
	"github.com/five82/tower/internal/logging"
	"github.com/five82/tower/internal/metrics"
	"github.com/five82/tower/internal/prefs"
	"github.com/five82/tower/internal/state"
	"github.com/five82/tower/internal/transmission"
	"github.com/five82/tower/internal/ui"
)

// versionTimeout bounds the startup session-get.
const versionTimeout = 3 * time.Second

// Options configure the tower application. Non-zero fields override the
// config file.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/tower/prefs.toml
	URL        string
	PollEvery  time.Duration
	LogLevel   string
}

// Configure loads the config file and applies command-line overrides.
func Configure(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.URL); v != "" {
		cfg.TransmissionURL = v
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = opts.PollEvery
	}
	if v := strings.TrimSpace(opts.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	return cfg, nil
}

// NewClient builds the daemon client described by cfg.
func NewClient(cfg config.Config, logger *zap.Logger) (*transmission.Client, error) {
	clientOpts := []transmission.Option{transmission.WithLogger(logger)}
	if cfg.Username != "" || cfg.Password != "" {
		clientOpts = append(clientOpts, transmission.WithCredentials(cfg.Username, cfg.Password))
	}
	client, err := transmission.NewClient(cfg.TransmissionURL, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("init transmission client: %w", err)
	}
	return client, nil
}

// openLog opens the dashboard's JSON log at cfg.LogFile.
func openLog(cfg config.Config) (*zap.Logger, func() error, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return logging.OpenFile(cfg.LogDir(), filepath.Base(cfg.LogFile), level)
}

// Run boots the tower TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := Configure(opts)
	if err != nil {
		return err
	}

	logger, closeLog, err := openLog(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	client, err := NewClient(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("tower starting",
		zap.String("endpoint", client.Endpoint()),
		zap.Duration("poll_interval", cfg.PollInterval),
	)

	store := &state.Store{}

	reg := prometheus.NewRegistry()
	metrics.Register(reg)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(runCtx, cfg.MetricsAddr, reg, logger); err != nil {
				logger.Error("metrics endpoint failed", zap.String("addr", cfg.MetricsAddr), zap.Error(err))
			}
		}()
	}

	go fetchVersion(runCtx, store, client, logger)

	pollers := StartPollers(runCtx, store, client, cfg.PollInterval, logger)

	uiOpts := ui.Options{
		Context:   runCtx,
		Client:    client,
		Store:     store,
		Endpoint:  client.Endpoint(),
		LogPath:   cfg.LogFile,
		Logger:    logger,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
	}
	uiErr := ui.Run(uiOpts)

	cancel()
	_ = pollers.Stop()
	logger.Info("tower stopped")
	return uiErr
}

// fetchVersion records the daemon version once. Failure is only logged;
// the header shows the endpoint instead.
func fetchVersion(ctx context.Context, store *state.Store, client transmission.Daemon, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	info, err := client.GetSession(ctx, "version")
	if err != nil {
		logger.Warn("session-get failed", zap.Error(err))
		return
	}
	store.SetVersion(info.Version)
	logger.Info("connected to daemon", zap.String("version", info.Version))
}
