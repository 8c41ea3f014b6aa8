package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/five82/tower/internal/app"
	"github.com/five82/tower/internal/config"
	"github.com/five82/tower/internal/logging"
	"github.com/five82/tower/internal/transmission"
)

// CLI is the top-level Kong struct.
type CLI struct {
	Config   string `help:"Config file path." default:"${config_path}" placeholder:"PATH"`
	URL      string `name:"url" help:"Transmission RPC URL, overrides the config file."`
	Poll     int    `help:"Poll interval in milliseconds, overrides the config file."`
	LogLevel string `name:"log-level" help:"Log level (debug, info, warn, error)."`

	Watch   WatchCmd   `cmd:"" default:"withargs" help:"Open the dashboard (default)."`
	List    ListCmd    `cmd:"" help:"Print torrents and exit."`
	Stats   StatsCmd   `cmd:"" help:"Print session statistics and exit."`
	Start   StartCmd   `cmd:"" help:"Resume a torrent."`
	Stop    StopCmd    `cmd:"" help:"Pause a torrent."`
	Version VersionCmd `cmd:"" help:"Print version."`
}

func main() {
	var cli CLI
	k, err := newParser(&cli,
		kong.Description("Terminal dashboard for a Transmission daemon"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	if err != nil {
		panic(err)
	}

	kctx, err := k.Parse(os.Args[1:])
	k.FatalIfErrorf(err)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	kctx.BindTo(ctx, (*context.Context)(nil))

	err = kctx.Run(&cli)
	cancel()
	k.FatalIfErrorf(err)
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("tower"),
		kong.Vars{"config_path": config.DefaultPath()},
	}, options...)
	return kong.New(cli, options...)
}

// options maps the global flags onto app.Options.
func (c *CLI) options() app.Options {
	opts := app.Options{
		ConfigPath: c.Config,
		URL:        c.URL,
		LogLevel:   c.LogLevel,
	}
	if c.Poll > 0 {
		opts.PollEvery = time.Duration(c.Poll) * time.Millisecond
	}
	return opts
}

// client builds a daemon client for one-shot commands. They log to stderr
// instead of the dashboard's log file.
func (c *CLI) client() (*transmission.Client, *zap.Logger, error) {
	cfg, err := app.Configure(c.options())
	if err != nil {
		return nil, nil, err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(os.Stderr, level)
	client, err := app.NewClient(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return client, logger, nil
}
