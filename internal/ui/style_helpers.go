package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/tower/internal/bitfield"
)

// BgStyle paints every fragment of a line onto one background. lipgloss
// resets the background after each styled run, so plain spaces between runs
// would otherwise show the terminal default.
type BgStyle struct {
	base  lipgloss.Style
	space string
}

// NewBgStyle returns a painter for the given background color.
func NewBgStyle(bgColor string) BgStyle {
	base := lipgloss.NewStyle().Background(lipgloss.Color(bgColor))
	return BgStyle{base: base, space: base.Render(" ")}
}

// Render draws text in style on the background. Each word is rendered on its
// own and rejoined with painted spaces; runs of spaces are kept.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	painted := style.Background(b.base.GetBackground())
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = painted.Render(w)
		}
	}
	return strings.Join(words, b.space)
}

// Space is one painted space.
func (b BgStyle) Space() string {
	return b.space
}

// Spaces is n painted spaces.
func (b BgStyle) Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return b.base.Render(strings.Repeat(" ", n))
}

// Sep paints a literal separator.
func (b BgStyle) Sep(sep string) string {
	return b.base.Render(sep)
}

// Join concatenates rendered parts with a painted separator.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, b.Sep(sep))
}

// Cells draws n bar cells in color on the background.
func (b BgStyle) Cells(color bitfield.Color, n int) string {
	if n <= 0 {
		return ""
	}
	return b.base.Foreground(lipgloss.Color(string(color))).Render(strings.Repeat(barCell, n))
}

// FillLine pads rendered content out to width with the background.
func (b BgStyle) FillLine(content string, width int) string {
	return b.base.Width(width).Render(content)
}
