package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/five82/tower/internal/transmission"
)

// StartCmd resumes one torrent.
type StartCmd struct {
	ID int64 `arg:"" help:"Torrent id."`
}

func (c *StartCmd) Run(globals *CLI, ctx context.Context) error {
	return runAction(ctx, globals, transmission.ActionStart, c.ID)
}

// StopCmd pauses one torrent.
type StopCmd struct {
	ID int64 `arg:"" help:"Torrent id."`
}

func (c *StopCmd) Run(globals *CLI, ctx context.Context) error {
	return runAction(ctx, globals, transmission.ActionStop, c.ID)
}

// runAction sends the command once; failures are reported, not retried.
func runAction(ctx context.Context, globals *CLI, action transmission.Action, id int64) error {
	client, logger, err := globals.client()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(ctx, oneShotTimeout)
	defer cancel()

	if err := client.TorrentAction(ctx, action, id); err != nil {
		return fmt.Errorf("%s torrent %d: %w", action, id, err)
	}
	logger.Debug("torrent action sent", zap.String("action", string(action)), zap.Int64("id", id))
	fmt.Printf("%s %d: ok\n", action, id)
	return nil
}
