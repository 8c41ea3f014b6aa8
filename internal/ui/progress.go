package ui

import (
	"math"
	"sort"
	"strings"

	"github.com/five82/tower/internal/bitfield"
	"github.com/five82/tower/internal/transmission"
)

const barCell = "█"

// allocateCells spreads width terminal cells over segments in proportion to
// their group widths. The result always sums to width (for width > 0 and a
// non-empty input) using largest-remainder rounding; ties go to the earlier
// segment.
func allocateCells(segments []bitfield.Segment, width int) []int {
	cells := make([]int, len(segments))
	total := bitfield.Total(segments)
	if width <= 0 || total <= 0 {
		return cells
	}

	type remainder struct {
		index int
		frac  int
	}
	rems := make([]remainder, len(segments))
	used := 0
	for i, seg := range segments {
		scaled := seg.Width * width
		cells[i] = scaled / total
		used += cells[i]
		rems[i] = remainder{index: i, frac: scaled % total}
	}

	sort.SliceStable(rems, func(a, b int) bool {
		return rems[a].frac > rems[b].frac
	})
	for i := 0; used < width; i++ {
		cells[rems[i%len(rems)].index]++
		used++
	}
	return cells
}

// renderPieceBar draws the torrent's piece map as a colored bar of the given
// width on the row background. Torrents without a usable bitmap get a plain
// percent bar.
func (m Model) renderPieceBar(t transmission.TorrentSummary, width int, bg BgStyle) string {
	palette := m.theme.PaletteFor(t.Status)

	bitmap, err := t.PieceBitmap()
	if err != nil || t.PieceCount <= 0 {
		return renderPercentBar(t.PercentDone, width, palette, bg)
	}

	segments := bitfield.Quantize(bitmap, t.PieceCount, palette)
	cells := allocateCells(segments, width)

	var b strings.Builder
	for i, seg := range segments {
		b.WriteString(bg.Cells(seg.Color, cells[i]))
	}
	return b.String()
}

// renderPercentBar draws done out of width cells in the palette's complete
// color.
func renderPercentBar(fraction float64, width int, palette bitfield.Palette, bg BgStyle) string {
	if width <= 0 {
		return ""
	}
	fraction = math.Max(0, math.Min(1, fraction))
	done := int(math.Round(fraction * float64(width)))
	return bg.Cells(palette.Complete, done) + bg.Cells(bitfield.EmptyColor, width-done)
}
