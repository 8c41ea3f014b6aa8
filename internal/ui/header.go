package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/tower/internal/transmission"
)

const logoText = "tower"

// renderHeader renders the status bar with all information.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if !m.snapshot.HasTorrents || m.snapshot.IsOffline() {
		return m.renderConnectingHeader(styles, bg)
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(m.buildStatusContent(styles, bg))
}

// renderConnectingHeader shows the connecting/error state.
func (m Model) renderConnectingHeader(styles Styles, bg BgStyle) string {
	sep := bg.Spaces(2)

	if m.snapshot.LastError != nil {
		last := "soon"
		if !m.snapshot.LastUpdated.IsZero() {
			last = m.snapshot.LastUpdated.Format("15:04:05")
		}
		parts := []string{
			bg.Render(logoText, styles.Logo),
			bg.Render("● OFF", styles.DangerText),
			bg.Render("TRANSMISSION "+classifyConnectionError(m.snapshot.LastError), styles.DangerText.Bold(true)),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
			bg.Render(last, styles.MutedText),
		}
		if m.endpoint != "" {
			parts = append(parts, bg.Render(truncateMiddle(m.endpoint, 50), styles.FaintText))
		}
		return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
	}

	return styles.Header.Width(m.width).Render(
		bg.Render(logoText, styles.Logo) + sep +
			bg.Render("Connecting to Transmission...", styles.WarningText.Bold(true)),
	)
}

// buildStatusContent builds the status bar content string.
func (m Model) buildStatusContent(styles Styles, bg BgStyle) string {
	compact := m.width < LayoutCompactWidth
	var parts []string

	parts = append(parts, bg.Render(logoText, styles.Logo))
	parts = append(parts, bg.Render("● ON", styles.SuccessText))

	if v := strings.TrimSpace(m.snapshot.Version); v != "" && !compact {
		parts = append(parts, bg.Render("v"+v, styles.MutedText))
	}

	active := 0
	for _, t := range m.snapshot.Torrents {
		if t.Status == transmission.StatusDownloading || t.Status == transmission.StatusSeeding {
			active++
		}
	}
	parts = append(parts,
		bg.Render("Torrents:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", len(m.snapshot.Torrents)), styles.Text))
	if active > 0 {
		parts = append(parts,
			bg.Render("Active:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", active), styles.InfoText))
	}

	if ts := m.formatTimestamp(); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	// A failed poll that has not yet tipped into offline.
	if m.snapshot.LastError != nil {
		maxErr := 60
		if compact {
			maxErr = 30
		}
		parts = append(parts,
			bg.Render("!", styles.WarningText.Bold(true))+bg.Space()+
				bg.Render(truncate(m.snapshot.LastError.Error(), maxErr), styles.WarningText))
	}

	if status := m.renderActionStatus(styles, bg); status != "" {
		parts = append(parts, status)
	}

	return bg.Join(parts, "  ")
}

// formatTimestamp formats the last refresh time with a relative indicator.
func (m Model) formatTimestamp() string {
	updated := m.snapshot.LastUpdated
	if updated.IsZero() {
		return ""
	}
	rel := "now"
	if time.Since(updated) >= time.Minute {
		rel = humanize.Time(updated)
	}
	return updated.Format("15:04:05") + " (" + rel + ")"
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	var protoErr *transmission.ProtocolError
	switch {
	case errors.Is(err, transmission.ErrAuthRenewalExhausted):
		return "SESSION REJECTED"
	case errors.As(err, &protoErr) && protoErr.Status == 401:
		return "UNAUTHORIZED"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewLogs:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"g/G", "Top/Bottom"},
			{"q", "Torrents"},
			{"?", "More"},
		}
	default:
		pauseLabel := "Pause"
		if t := m.selectedTorrent(); t != nil && t.Status == transmission.StatusStopped {
			pauseLabel = "Resume"
		}
		commands = []cmd{
			{"j/k", "Navigate"},
			{"Space", pauseLabel},
			{"/", "Filter"},
			{"s", "Sort"},
			{"o", "Order"},
			{"l", "Logs"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}
