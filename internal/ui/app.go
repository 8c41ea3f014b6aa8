package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/five82/tower/internal/logtail"
	"github.com/five82/tower/internal/prefs"
	"github.com/five82/tower/internal/state"
	"github.com/five82/tower/internal/transmission"
)

// View represents the current active view.
type View int

const (
	ViewTorrents View = iota
	ViewLogs
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    transmission.Daemon
	Store     *state.Store
	Endpoint  string
	LogPath   string
	Logger    *zap.Logger
	PollTick  time.Duration
	Prefs     prefs.Prefs
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    transmission.Daemon
	store     *state.Store
	logger    *zap.Logger
	endpoint  string
	logPath   string
	prefsPath string
	pollTick  time.Duration
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Data state
	snapshot state.Snapshot

	// Torrent list state
	selectedRow int
	selectedID  int64
	sortKey     SortKey
	descending  bool
	filterInput textinput.Model
	filtering   bool

	// Pause/resume
	limiter *rate.Limiter
	action  actionStatus

	// Log view
	logViewport viewport.Model
	logEntries  []logtail.Entry
	logErr      error
	logFollow   bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	themeName := opts.Prefs.Theme
	if themeName == "" {
		themeName = prefs.Default().Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	filter := textinput.New()
	filter.Prompt = "/"
	filter.Placeholder = "name"
	filter.CharLimit = 128

	return Model{
		ctx:         ctx,
		client:      opts.Client,
		store:       opts.Store,
		logger:      logger,
		endpoint:    opts.Endpoint,
		logPath:     opts.LogPath,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
		currentView: ViewTorrents,
		sortKey:     ParseSortKey(opts.Prefs.Sort),
		descending:  opts.Prefs.Descending,
		filterInput: filter,
		limiter:     rate.NewLimiter(rate.Every(ActionInterval), 1),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	// Fetch snapshot immediately on start
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initLogViewport()
		}
		m.ready = true
		m.resizeLogViewport()
		m.updateSelection()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.updateSelection()
		return m, nil

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil

	case actionResultMsg:
		m.handleActionResult(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.filtering {
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.refreshLogContent()
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		if m.currentView == ViewLogs {
			m.currentView = ViewTorrents
			return m, nil
		}
		m.currentView = ViewLogs
		return m, readLogCmd(m.logPath)

	case key.Matches(msg, m.keys.ViewTorrents):
		m.currentView = ViewTorrents
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.currentView == ViewLogs {
			m.currentView = ViewTorrents
			return m, nil
		}
		if m.filterQuery() != "" {
			m.filterInput.SetValue("")
			m.updateSelection()
		}
		return m, nil
	}

	switch m.currentView {
	case ViewLogs:
		return m.handleLogsKey(msg)
	default:
		return m.handleTorrentKey(msg)
	}
}

// handleTorrentKey processes keyboard input for the torrent list.
func (m Model) handleTorrentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.filterInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.CycleSort):
		m.sortKey = m.sortKey.Next()
		m.savePrefs()
		m.updateSelection()
		return m, nil

	case key.Matches(msg, m.keys.ToggleOrder):
		m.descending = !m.descending
		m.savePrefs()
		m.updateSelection()
		return m, nil

	case key.Matches(msg, m.keys.PauseResume):
		return m.pauseResumeSelected()
	}

	items := m.visibleTorrents()
	itemCount := len(items)
	if itemCount == 0 {
		return m, nil
	}

	page := max(m.torrentsPerPage(), 1)
	row := m.selectedRow
	switch {
	case key.Matches(msg, m.keys.Down):
		row++
	case key.Matches(msg, m.keys.Up):
		row--
	case key.Matches(msg, m.keys.Top):
		row = 0
	case key.Matches(msg, m.keys.Bottom):
		row = itemCount - 1
	case key.Matches(msg, m.keys.PageDown):
		row += page
	case key.Matches(msg, m.keys.PageUp):
		row -= page
	default:
		return m, nil
	}
	m.selectRow(items, row)

	return m, nil
}

// handleFilterKey feeds the filter input; the list narrows as the user types.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		m.filtering = false
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.updateSelection()
		return m, nil
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.updateSelection()
	return m, cmd
}

// handleTick processes the UI refresh tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.ctx.Err() != nil {
		return m, tea.Quit
	}

	var cmds []tea.Cmd

	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}

	if m.currentView == ViewLogs {
		cmds = append(cmds, readLogCmd(m.logPath))
	}

	// Schedule next tick
	cmds = append(cmds, tickCmd(m.pollTick))

	return m, tea.Batch(cmds...)
}

func (m Model) filterQuery() string {
	return strings.TrimSpace(m.filterInput.Value())
}

// savePrefs persists theme and sort choices. Failure only costs the
// preference, so it is logged and otherwise ignored.
func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{
		Theme:      m.theme.Name,
		Sort:       m.sortKey.String(),
		Descending: m.descending,
	}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", zap.String("path", m.prefsPath), zap.Error(err))
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	b.WriteString(m.renderContent())
	b.WriteString("\n")

	b.WriteString(m.renderStatsBar())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogs:
		return m.renderLogs()
	default:
		return m.renderTorrents()
	}
}

// contentHeight is what remains after header, command bar and stats bar.
func (m Model) contentHeight() int {
	return max(m.height-3, 3)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		progOpts = append(progOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, progOpts...)
	_, err := p.Run()
	if err != nil && opts.Context != nil && opts.Context.Err() != nil {
		// Cancelled by signal; not a UI failure.
		return nil
	}
	return err
}
