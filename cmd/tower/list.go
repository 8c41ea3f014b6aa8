package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/five82/tower/internal/transmission"
)

const oneShotTimeout = 10 * time.Second

// ListCmd prints one line per torrent.
type ListCmd struct{}

func (c *ListCmd) Run(globals *CLI, ctx context.Context) error {
	client, logger, err := globals.client()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(ctx, oneShotTimeout)
	defer cancel()

	torrents, err := client.TorrentSummaries(ctx)
	if err != nil {
		return fmt.Errorf("list torrents: %w", err)
	}
	return writeTorrents(os.Stdout, torrents)
}

func writeTorrents(w io.Writer, torrents []transmission.TorrentSummary) error {
	sort.SliceStable(torrents, func(i, j int) bool { return torrents[i].ID < torrents[j].ID })

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "ID\tSTATUS\tDONE\tSIZE\tDOWN\tUP\tNAME\n")
	for _, t := range torrents {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%.1f%%\t%s\t%s/s\t%s/s\t%s\n",
			t.ID,
			t.Status.Label(),
			t.PercentDone*100,
			humanize.Bytes(uint64(max(t.SizeWhenDone, 0))),
			humanize.Bytes(uint64(max(t.RateDownload, 0))),
			humanize.Bytes(uint64(max(t.RateUpload, 0))),
			t.Name,
		)
	}
	return tw.Flush()
}

// StatsCmd prints session-wide speeds and totals.
type StatsCmd struct{}

func (c *StatsCmd) Run(globals *CLI, ctx context.Context) error {
	client, logger, err := globals.client()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(ctx, oneShotTimeout)
	defer cancel()

	stats, err := client.SessionStats(ctx)
	if err != nil {
		return fmt.Errorf("session stats: %w", err)
	}
	return writeStats(os.Stdout, stats)
}

func writeStats(w io.Writer, s transmission.SessionStats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Torrents\t%d (%d active, %d paused)\n", s.TorrentCount, s.ActiveTorrentCount, s.PausedTorrentCount)
	_, _ = fmt.Fprintf(tw, "Download\t%s/s\n", humanize.Bytes(uint64(max(s.DownloadSpeed, 0))))
	_, _ = fmt.Fprintf(tw, "Upload\t%s/s\n", humanize.Bytes(uint64(max(s.UploadSpeed, 0))))
	_, _ = fmt.Fprintf(tw, "Downloaded\t%s\n", humanize.Bytes(uint64(max(s.CumulativeStats.DownloadedBytes, 0))))
	_, _ = fmt.Fprintf(tw, "Uploaded\t%s\n", humanize.Bytes(uint64(max(s.CumulativeStats.UploadedBytes, 0))))
	return tw.Flush()
}
