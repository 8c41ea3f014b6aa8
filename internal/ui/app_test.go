package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tower/internal/prefs"
	"github.com/five82/tower/internal/state"
	"github.com/five82/tower/internal/transmission"
)

type actionCall struct {
	action transmission.Action
	id     int64
}

type fakeDaemon struct {
	mu    sync.Mutex
	calls []actionCall
	err   error
}

func (f *fakeDaemon) GetSession(context.Context, ...string) (transmission.SessionInfo, error) {
	return transmission.SessionInfo{Version: "4.0.5"}, nil
}

func (f *fakeDaemon) SessionStats(context.Context) (transmission.SessionStats, error) {
	return transmission.SessionStats{}, nil
}

func (f *fakeDaemon) TorrentSummaries(context.Context) ([]transmission.TorrentSummary, error) {
	return nil, nil
}

func (f *fakeDaemon) TorrentAction(_ context.Context, action transmission.Action, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, actionCall{action: action, id: id})
	return f.err
}

func (f *fakeDaemon) Calls() []actionCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]actionCall(nil), f.calls...)
}

func testTorrents() []transmission.TorrentSummary {
	return []transmission.TorrentSummary{
		{ID: 1, Name: "ubuntu.iso", Status: transmission.StatusDownloading, SizeWhenDone: 4 << 30, PercentDone: 0.4},
		{ID: 2, Name: "Arch.iso", Status: transmission.StatusStopped, SizeWhenDone: 1 << 30, PercentDone: 0.9},
		{ID: 3, Name: "debian.iso", Status: transmission.StatusSeeding, SizeWhenDone: 2 << 30, PercentDone: 1},
	}
}

func newTestModel(t *testing.T, client transmission.Daemon) Model {
	t.Helper()
	m := New(Options{
		Client:    client,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	next, _ = m.Update(snapshotMsg(state.Snapshot{Torrents: testTorrents(), HasTorrents: true}))
	return next.(Model)
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

func TestFilterAndSort(t *testing.T) {
	all := testTorrents()

	byName := filterAndSort(all, "", SortName, false)
	if got := []int64{byName[0].ID, byName[1].ID, byName[2].ID}; got[0] != 2 || got[1] != 3 || got[2] != 1 {
		t.Fatalf("name order = %v, want [2 3 1]", got)
	}

	bySize := filterAndSort(all, "", SortSize, true)
	if bySize[0].ID != 1 || bySize[2].ID != 2 {
		t.Fatalf("size desc first/last = %d/%d, want 1/2", bySize[0].ID, bySize[2].ID)
	}

	byStatus := filterAndSort(all, "", SortStatus, false)
	if byStatus[0].Status != transmission.StatusStopped || byStatus[2].Status != transmission.StatusSeeding {
		t.Fatalf("status order = %v..%v", byStatus[0].Status, byStatus[2].Status)
	}

	filtered := filterAndSort(all, "  ISO ", SortName, false)
	if len(filtered) != 3 {
		t.Fatalf("filter iso len = %d, want 3", len(filtered))
	}
	filtered = filterAndSort(all, "deb", SortName, false)
	if len(filtered) != 1 || filtered[0].ID != 3 {
		t.Fatalf("filter deb = %+v, want debian only", filtered)
	}
}

func TestFilterAndSort_TiesByName(t *testing.T) {
	all := []transmission.TorrentSummary{
		{ID: 9, Name: "b", SizeWhenDone: 10},
		{ID: 8, Name: "a", SizeWhenDone: 10},
	}
	got := filterAndSort(all, "", SortSize, true)
	if got[0].Name != "a" {
		t.Fatalf("tie order = %q first, want a", got[0].Name)
	}
}

func TestCompareTorrents(t *testing.T) {
	a := transmission.TorrentSummary{Name: "alpha", SizeWhenDone: 10, PercentDone: 0.9, Status: transmission.StatusSeeding}
	b := transmission.TorrentSummary{Name: "Beta", SizeWhenDone: 20, PercentDone: 0.1, Status: transmission.StatusStopped}
	tests := []struct {
		by   SortKey
		want int
	}{
		{SortName, -1},
		{SortSize, -1},
		{SortProgress, 1},
		{SortStatus, 1},
	}
	for _, tc := range tests {
		if got := compareTorrents(a, b, tc.by); got != tc.want {
			t.Fatalf("compareTorrents(by %s) = %d, want %d", tc.by, got, tc.want)
		}
		if got := compareTorrents(b, a, tc.by); got != -tc.want {
			t.Fatalf("compareTorrents(reversed, by %s) = %d, want %d", tc.by, got, -tc.want)
		}
	}
	if got := compareTorrents(a, a, SortProgress); got != 0 {
		t.Fatalf("compareTorrents(equal) = %d, want 0", got)
	}
}

func TestSortKey(t *testing.T) {
	tests := []struct {
		in   string
		want SortKey
	}{
		{"name", SortName},
		{" Size ", SortSize},
		{"PROGRESS", SortProgress},
		{"status", SortStatus},
		{"ratio", SortName},
		{"", SortName},
	}
	for _, tt := range tests {
		if got := ParseSortKey(tt.in); got != tt.want {
			t.Fatalf("ParseSortKey(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	k := SortName
	for _, want := range []SortKey{SortSize, SortProgress, SortStatus, SortName} {
		k = k.Next()
		if k != want {
			t.Fatalf("Next = %v, want %v", k, want)
		}
	}
}

func TestPauseResume_StopsDownloadingTorrent(t *testing.T) {
	fake := &fakeDaemon{}
	m := newTestModel(t, fake)

	// Name order puts Arch (stopped) first; move to ubuntu (downloading).
	m, _ = press(t, m, runes("G"))
	if sel := m.selectedTorrent(); sel == nil || sel.ID != 1 {
		t.Fatalf("selected = %+v, want torrent 1", sel)
	}

	m, cmd := press(t, m, space)
	if cmd == nil {
		t.Fatal("space returned no command")
	}
	msg := cmd()
	result, ok := msg.(actionResultMsg)
	if !ok {
		t.Fatalf("command returned %T, want actionResultMsg", msg)
	}
	next, _ := m.Update(result)
	m = next.(Model)

	calls := fake.Calls()
	if len(calls) != 1 || calls[0] != (actionCall{transmission.ActionStop, 1}) {
		t.Fatalf("calls = %+v, want one stop of 1", calls)
	}
	if !strings.Contains(m.action.text, "Paused") {
		t.Fatalf("action status = %q, want Paused", m.action.text)
	}
}

func TestPauseResume_StartsStoppedTorrent(t *testing.T) {
	fake := &fakeDaemon{}
	m := newTestModel(t, fake)

	_, cmd := press(t, m, space)
	if cmd == nil {
		t.Fatal("space returned no command")
	}
	cmd()

	calls := fake.Calls()
	if len(calls) != 1 || calls[0] != (actionCall{transmission.ActionStart, 2}) {
		t.Fatalf("calls = %+v, want one start of 2", calls)
	}
}

func TestPauseResume_RateLimited(t *testing.T) {
	fake := &fakeDaemon{}
	m := newTestModel(t, fake)

	m, first := press(t, m, space)
	if first == nil {
		t.Fatal("first press returned no command")
	}
	m, second := press(t, m, space)
	if second != nil {
		t.Fatal("second press within the interval was not throttled")
	}
	if !m.action.err {
		t.Fatal("throttled press did not report an error status")
	}
}

func TestPauseResume_FailureIsNotRetried(t *testing.T) {
	fake := &fakeDaemon{err: errors.New("boom")}
	m := newTestModel(t, fake)

	m, cmd := press(t, m, space)
	next, followUp := m.Update(cmd())
	m = next.(Model)

	if followUp != nil {
		t.Fatal("failed action scheduled a follow-up command")
	}
	if got := len(fake.Calls()); got != 1 {
		t.Fatalf("TorrentAction calls = %d, want 1", got)
	}
	if !m.action.err || !strings.Contains(m.action.text, "boom") {
		t.Fatalf("action status = %+v, want failure with boom", m.action)
	}
}

func TestSelectionFollowsTorrentAcrossRefresh(t *testing.T) {
	m := newTestModel(t, &fakeDaemon{})
	m, _ = press(t, m, runes("j")) // debian

	reordered := testTorrents()
	reordered[2].Name = "aaa-debian.iso"
	next, _ := m.Update(snapshotMsg(state.Snapshot{Torrents: reordered, HasTorrents: true}))
	m = next.(Model)

	if sel := m.selectedTorrent(); sel == nil || sel.ID != 3 {
		t.Fatalf("selected = %+v, want torrent 3 after reorder", sel)
	}
	if m.selectedRow != 0 {
		t.Fatalf("selectedRow = %d, want 0", m.selectedRow)
	}
}

func TestFilterInputNarrowsList(t *testing.T) {
	m := newTestModel(t, &fakeDaemon{})
	m, _ = press(t, m, runes("/"))
	if !m.filtering {
		t.Fatal("/ did not start filtering")
	}
	m, _ = press(t, m, runes("ubu"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.filtering {
		t.Fatal("enter did not close the filter input")
	}
	if got := len(m.visibleTorrents()); got != 1 {
		t.Fatalf("visible = %d, want 1", got)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if got := len(m.visibleTorrents()); got != 3 {
		t.Fatalf("visible after esc = %d, want 3", got)
	}
}

func TestSortChangesArePersisted(t *testing.T) {
	m := newTestModel(t, &fakeDaemon{})
	m, _ = press(t, m, runes("s"))
	m, _ = press(t, m, runes("o"))
	m, _ = press(t, m, runes("T"))

	saved, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.Sort != "size" || !saved.Descending {
		t.Fatalf("saved sort = %q desc=%v, want size desc", saved.Sort, saved.Descending)
	}
	if saved.Theme != m.theme.Name || saved.Theme == "Nightfox" {
		t.Fatalf("saved theme = %q, want cycled theme %q", saved.Theme, m.theme.Name)
	}
}

func TestStatsBar(t *testing.T) {
	m := newTestModel(t, &fakeDaemon{})
	if got := m.renderStatsBar(); !strings.Contains(got, "Loading...") {
		t.Fatalf("stats bar before data = %q, want Loading...", got)
	}

	snap := m.snapshot
	snap.HasStats = true
	snap.Stats = transmission.SessionStats{
		DownloadSpeed:   2_000_000,
		UploadSpeed:     1000,
		CumulativeStats: transmission.Stats{DownloadedBytes: 5_000_000_000, UploadedBytes: 42},
	}
	next, _ := m.Update(snapshotMsg(snap))
	m = next.(Model)

	got := m.renderStatsBar()
	for _, want := range []string{"2.0 MB/s", "1.0 kB/s", "5.0 GB", "42 B"} {
		if !strings.Contains(got, want) {
			t.Fatalf("stats bar = %q, want %q", got, want)
		}
	}
}

func TestHeaderStates(t *testing.T) {
	m := New(Options{PrefsPath: filepath.Join(t.TempDir(), "prefs.toml")})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m = next.(Model)

	if got := m.renderHeader(); !strings.Contains(got, "Connecting to Transmission...") {
		t.Fatalf("header before data = %q", got)
	}

	offline := state.Snapshot{
		LastError:           errors.New("dial tcp: connection refused"),
		ConsecutiveFailures: 2,
	}
	next, _ = m.Update(snapshotMsg(offline))
	m = next.(Model)
	got := m.renderHeader()
	if !strings.Contains(got, "OFFLINE") || !strings.Contains(got, "Retrying...") {
		t.Fatalf("offline header = %q", got)
	}

	next, _ = m.Update(snapshotMsg(state.Snapshot{Version: "4.0.5", Torrents: testTorrents(), HasTorrents: true}))
	m = next.(Model)
	got = m.renderHeader()
	if !strings.Contains(got, "● ON") || !strings.Contains(got, "v4.0.5") {
		t.Fatalf("online header = %q", got)
	}
}

func TestClassifyConnectionError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{errors.New("dial tcp 127.0.0.1:9091: connect: connection refused"), "OFFLINE"},
		{errors.New("lookup nas: no such host"), "HOST NOT FOUND"},
		{context.DeadlineExceeded, "TIMEOUT"},
		{transmission.ErrAuthRenewalExhausted, "SESSION REJECTED"},
		{&transmission.ProtocolError{Method: transmission.MethodTorrentGet, Status: 401}, "UNAUTHORIZED"},
		{errors.New("something else"), "ERROR"},
	}
	for _, tt := range tests {
		if got := classifyConnectionError(tt.err); got != tt.want {
			t.Fatalf("classifyConnectionError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestTickQuitsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := New(Options{Context: ctx, PrefsPath: filepath.Join(t.TempDir(), "prefs.toml")})
	cancel()

	_, cmd := m.Update(tickMsg{})
	if cmd == nil {
		t.Fatal("tick after cancel returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("tick after cancel did not quit")
	}
}

func TestFormatETA(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{-1, ""},
		{0, ""},
		{45, "45s"},
		{125, "2m 5s"},
		{3720, "1h 2m"},
		{90000, "1d 1h"},
	}
	for _, tt := range tests {
		if got := formatETA(tt.in); got != tt.want {
			t.Fatalf("formatETA(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
