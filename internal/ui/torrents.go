package ui

import (
	"cmp"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/tower/internal/transmission"
)

// SortKey orders the torrent list.
type SortKey int

const (
	SortName SortKey = iota
	SortSize
	SortProgress
	SortStatus
)

var sortKeyNames = []string{"name", "size", "progress", "status"}

func (k SortKey) String() string {
	if k < 0 || int(k) >= len(sortKeyNames) {
		return sortKeyNames[SortName]
	}
	return sortKeyNames[k]
}

// ParseSortKey maps a saved preference back to a key; unknown values sort
// by name.
func ParseSortKey(s string) SortKey {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range sortKeyNames {
		if name == s {
			return SortKey(i)
		}
	}
	return SortName
}

// Next cycles name → size → progress → status → name.
func (k SortKey) Next() SortKey {
	return SortKey((int(k.normalize()) + 1) % len(sortKeyNames))
}

func (k SortKey) normalize() SortKey {
	if k < 0 || int(k) >= len(sortKeyNames) {
		return SortName
	}
	return k
}

// updateSelection keeps the cursor on the same torrent across refreshes,
// filter and sort changes. Falls back to clamping when it disappeared.
func (m *Model) updateSelection() {
	items := m.visibleTorrents()
	if len(items) == 0 {
		m.selectedRow = 0
		return
	}

	if m.selectedID != 0 {
		for i, t := range items {
			if t.ID == m.selectedID {
				m.selectedRow = i
				return
			}
		}
	}

	if m.selectedRow >= len(items) {
		m.selectedRow = len(items) - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
	m.selectedID = items[m.selectedRow].ID
}

// selectRow moves the cursor and remembers which torrent it points at.
func (m *Model) selectRow(items []transmission.TorrentSummary, row int) {
	if len(items) == 0 {
		m.selectedRow = 0
		m.selectedID = 0
		return
	}
	row = max(0, min(row, len(items)-1))
	m.selectedRow = row
	m.selectedID = items[row].ID
}

// selectedTorrent returns the torrent under the cursor, or nil.
func (m Model) selectedTorrent() *transmission.TorrentSummary {
	items := m.visibleTorrents()
	if m.selectedRow < 0 || m.selectedRow >= len(items) {
		return nil
	}
	t := items[m.selectedRow]
	return &t
}

// visibleTorrents applies the name filter and the current sort.
func (m Model) visibleTorrents() []transmission.TorrentSummary {
	return filterAndSort(m.snapshot.Torrents, m.filterQuery(), m.sortKey, m.descending)
}

func filterAndSort(all []transmission.TorrentSummary, query string, by SortKey, descending bool) []transmission.TorrentSummary {
	query = strings.ToLower(strings.TrimSpace(query))
	items := make([]transmission.TorrentSummary, 0, len(all))
	for _, t := range all {
		if query != "" && !strings.Contains(strings.ToLower(t.Name), query) {
			continue
		}
		items = append(items, t)
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if c := compareTorrents(a, b, by); c != 0 {
			if descending {
				return c > 0
			}
			return c < 0
		}
		// Ties always read alphabetically, then by id.
		if an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name); an != bn {
			return an < bn
		}
		return a.ID < b.ID
	})
	return items
}

func compareTorrents(a, b transmission.TorrentSummary, by SortKey) int {
	switch by.normalize() {
	case SortSize:
		return cmp.Compare(a.SizeWhenDone, b.SizeWhenDone)
	case SortProgress:
		return cmp.Compare(a.PercentDone, b.PercentDone)
	case SortStatus:
		return cmp.Compare(a.Status, b.Status)
	default:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	}
}

// torrentsPerPage is how many three-line rows fit inside the list box.
func (m Model) torrentsPerPage() int {
	inner := m.contentHeight() - 2
	if m.filtering || m.filterQuery() != "" {
		inner--
	}
	return max(inner/linesPerTorrent, 1)
}

// renderTorrents renders the torrent list inside a titled box.
func (m Model) renderTorrents() string {
	styles := m.theme.Styles()
	height := m.contentHeight()
	inner := max(m.width-4, minBarWidth)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	var lines []string
	if m.filtering || m.filterQuery() != "" {
		if m.filtering {
			lines = append(lines, m.filterInput.View())
		} else {
			lines = append(lines, bg.Render("/"+m.filterQuery(), styles.AccentText)+
				bg.Space()+bg.Render("(esc to clear)", styles.FaintText))
		}
	}

	items := m.visibleTorrents()
	switch {
	case !m.snapshot.HasTorrents:
		lines = append(lines, bg.Render("Waiting for daemon...", styles.MutedText))
	case len(items) == 0 && len(m.snapshot.Torrents) == 0:
		lines = append(lines, bg.Render("No torrents", styles.MutedText))
	case len(items) == 0:
		lines = append(lines, bg.Render("No torrents match the filter", styles.MutedText))
	default:
		perPage := m.torrentsPerPage()
		start := 0
		if m.selectedRow >= perPage {
			start = m.selectedRow - perPage + 1
		}
		end := min(start+perPage, len(items))
		for i := start; i < end; i++ {
			lines = append(lines, m.renderTorrentRow(items[i], inner, i == m.selectedRow)...)
		}
	}

	return m.renderTitledBox(m.torrentsTitle(len(items)), strings.Join(lines, "\n"), m.width, height, true)
}

// torrentsTitle shows the count and, when filtering, visible/total.
func (m Model) torrentsTitle(visible int) string {
	total := len(m.snapshot.Torrents)
	order := "asc"
	if m.descending {
		order = "desc"
	}
	if m.filterQuery() == "" {
		return fmt.Sprintf("Torrents (%d) by %s %s", total, m.sortKey, order)
	}
	return fmt.Sprintf("Torrents (%d/%d) by %s %s", visible, total, m.sortKey, order)
}

// renderTorrentRow renders name, piece bar and data points.
func (m Model) renderTorrentRow(t transmission.TorrentSummary, width int, selected bool) []string {
	rowBg := m.theme.SurfaceAlt
	if selected {
		rowBg = m.theme.SelectionBg
	}
	bg := NewBgStyle(rowBg)
	styles := m.theme.Styles()

	nameStyle := styles.Text
	if selected {
		nameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText)).Bold(true)
	}
	marker := "  "
	if selected {
		marker = "▸ "
	}
	label := t.Status.Label()
	nameWidth := max(width-len(marker)-len(label)-1, 1)
	name := padRight(truncate(t.Name, nameWidth), nameWidth)
	line1 := bg.Render(marker, styles.AccentText) + bg.Render(name, nameStyle) +
		bg.Space() + bg.Render(label, styles.StatusStyle(label))

	line2 := bg.Spaces(2) + m.renderPieceBar(t, max(width-2, minBarWidth), bg)

	line3 := bg.Spaces(2) + bg.Join(m.dataPoints(t, width, styles, bg), "  ")

	return []string{bg.FillLine(line1, width), bg.FillLine(line2, width), bg.FillLine(line3, width)}
}

// dataPoints lists rates, completion, peers and ETA for one torrent.
func (m Model) dataPoints(t transmission.TorrentSummary, width int, styles Styles, bg BgStyle) []string {
	seeding := t.Status == transmission.StatusSeeding
	var parts []string

	if !seeding {
		parts = append(parts, bg.Render("↓ "+formatRate(t.RateDownload), styles.InfoText))
	}
	parts = append(parts, bg.Render("↑ "+formatRate(t.RateUpload), styles.SuccessText.UnsetBold()))

	done := fmt.Sprintf("%s of %s (%.2f%%)",
		formatBytes(t.CompletedBytes()), formatBytes(t.SizeWhenDone), t.PercentComplete*100)
	parts = append(parts, bg.Render(done, styles.Text))

	if width >= LayoutPeersWidth {
		var peers string
		if seeding {
			peers = fmt.Sprintf("%d of %d peers", t.PeersGettingFromUs, t.PeersConnected)
		} else {
			peers = fmt.Sprintf("%d of %d peers", t.PeersSendingToUs, t.PeersConnected)
		}
		parts = append(parts, bg.Render(peers, styles.MutedText))
	}

	if eta := formatETA(t.ETA); eta != "" && !seeding && width >= LayoutCompactWidth {
		parts = append(parts, bg.Render("ETA "+eta, styles.MutedText))
	}
	return parts
}

func formatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

func formatRate(n int64) string {
	return formatBytes(n) + "/s"
}

// formatETA renders the daemon's seconds-remaining; negative values mean
// unknown or unavailable.
func formatETA(seconds int64) string {
	if seconds <= 0 {
		return ""
	}
	d := time.Duration(seconds) * time.Second
	switch {
	case d >= 24*time.Hour:
		days := int(d.Hours()) / 24
		return fmt.Sprintf("%dd %dh", days, int(d.Hours())%24)
	case d >= time.Hour:
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	case d >= time.Minute:
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
}

// renderTitledBox renders content in a box with the title embedded in the top border.
// ┌─── Title ───┐
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColorStr := m.theme.Border
	if focused {
		borderColorStr = m.theme.BorderFocus
	}
	bgColorStr := m.theme.SurfaceAlt
	bg := NewBgStyle(bgColorStr)
	borderColor := lipgloss.Color(borderColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 1)
	title = truncate(title, max(innerWidth-4, 1))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColorStr))

	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	paddedLines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}
