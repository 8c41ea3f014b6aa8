package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/tower/internal/transmission"
)

// actionStatus is the outcome of the most recent pause/resume, shown in the
// header until it expires.
type actionStatus struct {
	text string
	err  bool
	at   time.Time
}

type actionResultMsg struct {
	action transmission.Action
	id     int64
	name   string
	err    error
}

// actionFor picks start for stopped torrents and stop for everything else.
func actionFor(status transmission.Status) transmission.Action {
	if status == transmission.StatusStopped {
		return transmission.ActionStart
	}
	return transmission.ActionStop
}

// pauseResumeSelected toggles the selected torrent. Commands are throttled
// and never retried; the next poll shows the daemon's view.
func (m Model) pauseResumeSelected() (tea.Model, tea.Cmd) {
	t := m.selectedTorrent()
	if t == nil || m.client == nil {
		return m, nil
	}
	if !m.limiter.Allow() {
		m.action = actionStatus{text: "Slow down: one command per second", err: true, at: time.Now()}
		return m, nil
	}

	action := actionFor(t.Status)
	m.action = actionStatus{text: fmt.Sprintf("Sending %s...", action), at: time.Now()}
	return m, torrentActionCmd(m.ctx, m.client, action, *t)
}

func torrentActionCmd(ctx context.Context, client transmission.Daemon, action transmission.Action, t transmission.TorrentSummary) tea.Cmd {
	return func() tea.Msg {
		reqCtx, cancel := context.WithTimeout(ctx, ActionTimeout)
		defer cancel()
		err := client.TorrentAction(reqCtx, action, t.ID)
		return actionResultMsg{action: action, id: t.ID, name: t.Name, err: err}
	}
}

func (m *Model) handleActionResult(msg actionResultMsg) {
	name := truncate(msg.name, 40)
	if msg.err != nil {
		m.logger.Warn("torrent action failed",
			zap.String("action", string(msg.action)),
			zap.Int64("id", msg.id),
			zap.Error(msg.err))
		m.action = actionStatus{text: fmt.Sprintf("%s %s failed: %v", msg.action, name, msg.err), err: true, at: time.Now()}
		return
	}
	m.logger.Info("torrent action sent",
		zap.String("action", string(msg.action)),
		zap.Int64("id", msg.id))
	verb := "Paused"
	if msg.action == transmission.ActionStart {
		verb = "Resumed"
	}
	m.action = actionStatus{text: verb + " " + name, at: time.Now()}
}

func (m Model) renderActionStatus(styles Styles, bg BgStyle) string {
	if m.action.text == "" || time.Since(m.action.at) > actionStatusTTL {
		return ""
	}
	if m.action.err {
		return bg.Render(truncate(m.action.text, 60), styles.DangerText)
	}
	return bg.Render(truncate(m.action.text, 60), styles.AccentText)
}
