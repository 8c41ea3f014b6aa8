package bitfield

import "math/bits"

// Color is a terminal color string such as "#a3be8c" or "10".
type Color string

// EmptyColor marks groups with no downloaded pieces. It is the same for
// every palette.
const EmptyColor Color = "#3b4252"

// Palette colors the three non-empty completion classes.
type Palette struct {
	Complete   Color
	Incomplete Color
	Started    Color
}

// Shade is the completion class a segment was scored into.
type Shade int

const (
	ShadeEmpty Shade = iota
	ShadeStarted
	ShadeIncomplete
	ShadeComplete
)

func (s Shade) String() string {
	switch s {
	case ShadeStarted:
		return "started"
	case ShadeIncomplete:
		return "incomplete"
	case ShadeComplete:
		return "complete"
	default:
		return "empty"
	}
}

// Segment is a run of adjacent groups that scored the same color. Width
// counts groups, not pieces. Shade is the class of the run's first group.
type Segment struct {
	Color Color
	Shade Shade
	Width int
}

const (
	// maxGroups bounds how many groups a bitmap is split into.
	maxGroups = 100

	weightStarted = 1
	weightHalf    = 2
	weightFull    = 3
)

// Quantize reduces a piece-completion bitmap to at most maxGroups colored,
// run-length merged segments.
//
// Only ceil(pieceCount/8) bytes are read: longer bitmaps are truncated and
// shorter ones are treated as zero-padded. Bits past pieceCount in the last
// byte are ignored. pieceCount <= 0 yields nil.
func Quantize(bitmap []byte, pieceCount int, palette Palette) []Segment {
	if pieceCount <= 0 {
		return nil
	}
	size := (pieceCount + 7) / 8
	tail := pieceCount % 8
	if tail == 0 {
		tail = 8
	}

	chunk := (size + maxGroups - 1) / maxGroups
	if chunk < 1 {
		chunk = 1
	}

	var segments []Segment
	for start := 0; start < size; start += chunk {
		end := min(start+chunk, size)
		// Bytes missing from a short bitmap weigh nothing.
		sum := 0
		for i := start; i < min(end, len(bitmap)); i++ {
			b := bitmap[i]
			if i == size-1 {
				sum += lastByteWeight(bits.OnesCount8(b&tailMask(tail)), tail)
				continue
			}
			sum += byteWeight(bits.OnesCount8(b))
		}
		shade := score(sum, end-start)
		color := palette.color(shade)
		if n := len(segments); n > 0 && segments[n-1].Color == color {
			segments[n-1].Width++
			continue
		}
		segments = append(segments, Segment{Color: color, Shade: shade, Width: 1})
	}
	return segments
}

// Total returns the summed width of segments.
func Total(segments []Segment) int {
	total := 0
	for _, s := range segments {
		total += s.Width
	}
	return total
}

// tailMask keeps the top n bits of a byte; pieces are stored MSB first.
func tailMask(n int) byte {
	return byte(0xff << (8 - n))
}

func byteWeight(ones int) int {
	switch {
	case ones == 8:
		return weightFull
	case ones >= 5:
		return weightHalf
	case ones >= 1:
		return weightStarted
	default:
		return 0
	}
}

func lastByteWeight(ones, tail int) int {
	switch tail {
	case 1:
		if ones > 0 {
			return weightFull
		}
		return 0
	case 2:
		switch ones {
		case 2:
			return weightFull
		case 1:
			return weightHalf
		default:
			return 0
		}
	}
	switch {
	case ones == tail:
		return weightFull
	case ones > tail/2:
		return weightHalf
	case ones > 0:
		return weightStarted
	default:
		return 0
	}
}

// score classifies a group of n bytes whose weights sum to sum against the
// all-full base of 3n.
func score(sum, n int) Shade {
	base := weightFull * n
	switch {
	case sum >= base:
		return ShadeComplete
	case 2*sum > base:
		return ShadeIncomplete
	case sum > 0:
		return ShadeStarted
	default:
		return ShadeEmpty
	}
}

func (p Palette) color(s Shade) Color {
	switch s {
	case ShadeComplete:
		return p.Complete
	case ShadeIncomplete:
		return p.Incomplete
	case ShadeStarted:
		return p.Started
	default:
		return EmptyColor
	}
}
