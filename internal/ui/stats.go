package ui

import (
	"fmt"
	"strings"
)

// renderStatsBar renders the footer with daemon-wide speeds and totals.
func (m Model) renderStatsBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if !m.snapshot.HasStats {
		return styles.Footer.Width(m.width).Render(bg.Render("Loading...", styles.MutedText))
	}

	stats := m.snapshot.Stats
	parts := []string{
		bg.Render("↓", styles.InfoText) + bg.Space() + bg.Render(formatRate(stats.DownloadSpeed), styles.Text),
		bg.Render("↑", styles.SuccessText) + bg.Space() + bg.Render(formatRate(stats.UploadSpeed), styles.Text),
		bg.Render("Downloaded:", styles.MutedText) + bg.Space() +
			bg.Render(formatBytes(stats.CumulativeStats.DownloadedBytes), styles.Text),
		bg.Render("Uploaded:", styles.MutedText) + bg.Space() +
			bg.Render(formatBytes(stats.CumulativeStats.UploadedBytes), styles.Text),
	}

	if m.width >= LayoutCompactWidth {
		parts = append(parts, bg.Render(
			fmt.Sprintf("%d active  %d paused", stats.ActiveTorrentCount, stats.PausedTorrentCount),
			styles.FaintText))
	}

	if m.snapshot.StatsError != nil {
		parts = append(parts, bg.Render("stats stale", styles.WarningText))
	}

	return styles.Footer.Width(m.width).Render(strings.Join(parts, bg.Spaces(3)))
}
