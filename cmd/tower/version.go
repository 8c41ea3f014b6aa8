package main

import (
	"context"
	"fmt"
	"time"
)

// Set via -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
)

// VersionCmd prints the tower version and, with --daemon, the daemon's.
type VersionCmd struct {
	Daemon bool `help:"Also query the daemon version."`
}

func (c *VersionCmd) Run(globals *CLI, ctx context.Context) error {
	fmt.Printf("tower %s (commit %s)\n", version, commit)
	if !c.Daemon {
		return nil
	}

	client, logger, err := globals.client()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	info, err := client.GetSession(ctx, "version", "rpc-version")
	if err != nil {
		return fmt.Errorf("query daemon: %w", err)
	}
	fmt.Printf("transmission %s (rpc %d) at %s\n", info.Version, info.RPCVersion, client.Endpoint())
	return nil
}
