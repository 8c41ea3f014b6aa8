package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/tower/internal/logtail"
)

type logLinesMsg struct {
	entries []logtail.Entry
	err     error
}

func readLogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logLinesMsg{}
		}
		lines, err := logtail.Read(path, LogTailLines)
		if err != nil {
			return logLinesMsg{err: err}
		}
		return logLinesMsg{entries: logtail.ParseLines(lines)}
	}
}

// initLogViewport initializes the log viewport. It starts in follow mode.
func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(max(m.width-4, 1), max(m.contentHeight()-2, 1))
	m.logFollow = true
}

func (m *Model) resizeLogViewport() {
	m.logViewport.Width = max(m.width-4, 1)
	m.logViewport.Height = max(m.contentHeight()-2, 1)
	m.refreshLogContent()
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logErr = msg.err
	if msg.err == nil {
		m.logEntries = msg.entries
	}
	m.refreshLogContent()
}

func (m *Model) refreshLogContent() {
	m.logViewport.SetContent(m.renderLogContent())
	if m.logFollow {
		m.logViewport.GotoBottom()
	}
}

// handleLogsKey scrolls the log view. Scrolling up leaves follow mode;
// jumping to the bottom re-enters it.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.logViewport.LineDown(1)
	case key.Matches(msg, m.keys.Up):
		m.logViewport.LineUp(1)
	case key.Matches(msg, m.keys.PageDown):
		m.logViewport.HalfViewDown()
	case key.Matches(msg, m.keys.PageUp):
		m.logViewport.HalfViewUp()
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
	default:
		return m, nil
	}
	m.logFollow = m.logViewport.AtBottom()
	return m, nil
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	title := "Log"
	if m.logPath != "" {
		title = "Log " + truncateMiddle(m.logPath, max(m.width/2, 10))
	}
	if !m.logFollow {
		title += " (paused)"
	}
	return m.renderTitledBox(title, m.logViewport.View(), m.width, m.contentHeight(), true)
}

func (m Model) renderLogContent() string {
	styles := m.theme.Styles()
	if m.logErr != nil {
		return styles.DangerText.Render(fmt.Sprintf("read log: %v", m.logErr))
	}
	if len(m.logEntries) == 0 {
		return styles.MutedText.Render("No log entries yet")
	}

	lines := make([]string, 0, len(m.logEntries))
	for _, e := range m.logEntries {
		lines = append(lines, m.formatLogEntry(e, styles))
	}
	return strings.Join(lines, "\n")
}

// formatLogEntry renders "15:04:05 LEVEL message key=value ...".
func (m Model) formatLogEntry(e logtail.Entry, styles Styles) string {
	if e.Level == "" && e.Time.IsZero() {
		return styles.Text.Render(e.Message)
	}

	var parts []string
	if !e.Time.IsZero() {
		parts = append(parts, styles.FaintText.Render(e.Time.Local().Format("15:04:05")))
	}
	level := strings.ToUpper(e.Level)
	parts = append(parts, m.levelStyle(level, styles).Bold(true).Render(padRight(level, 5)))
	parts = append(parts, styles.Text.Render(e.Message))
	if len(e.Fields) > 0 {
		parts = append(parts, styles.MutedText.Render(strings.Join(e.Fields, " ")))
	}
	return strings.Join(parts, " ")
}

// levelStyle returns the style for a log level.
func (m Model) levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "INFO":
		return styles.SuccessText
	case "WARN":
		return styles.WarningText
	case "ERROR":
		return styles.DangerText
	case "DEBUG":
		return styles.InfoText
	default:
		return styles.Text
	}
}
