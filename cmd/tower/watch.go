package main

import (
	"context"

	"github.com/five82/tower/internal/app"
)

// WatchCmd runs the dashboard until quit or SIGINT/SIGTERM.
type WatchCmd struct{}

func (c *WatchCmd) Run(globals *CLI, ctx context.Context) error {
	return app.Run(ctx, globals.options())
}
