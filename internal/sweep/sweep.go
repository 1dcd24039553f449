// Package sweep implements the analytic, exact-area antialiasing backend:
// a dense per-pixel cover/area accumulator swept into an A8 coverage buffer.
//
// The accumulation scheme follows the two-phase design of
// golang.org/x/image/vector's Rasterizer (accumulate into a flat buffer
// indexed by y*width+x, then sweep it into pixels in a second pass), but
// keeps two buffers — cover and area — instead of one, so that each row's
// sweep can reproduce the classic signed-trapezoidal-area formula used by
// FreeType's smooth rasterizer: for every cell a left-to-right running sum
// of cover gives the winding number to the left of the cell, and the cell's
// own doubled area term corrects that step function down to the exact
// fractional coverage where an edge actually crosses the cell.
package sweep

import (
	"math"

	"github.com/harfbuzz/hb-raster-go/internal/fixed"
)

// FillRule selects how the winding-number coverage is mapped to an alpha
// value.
type FillRule int

const (
	NonZero FillRule = iota
	EvenOdd
)

// Accumulator holds the per-pixel cover/area buffers for one render target.
// It is reset and reused across renders, analogous to Image.reuse.
type Accumulator struct {
	width, height int
	cover         []int32
	area          []int32
}

// NewAccumulator returns an Accumulator sized for a width x height target.
func NewAccumulator(width, height int) *Accumulator {
	a := &Accumulator{}
	a.Reset(width, height)
	return a
}

// Reset resizes the accumulator for a new width x height target, clearing
// all accumulated edges. The backing slices are reused when large enough.
func (a *Accumulator) Reset(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	n := width * height
	if cap(a.cover) < n {
		a.cover = make([]int32, n)
		a.area = make([]int32, n)
	} else {
		a.cover = a.cover[:n]
		a.area = a.area[:n]
		for i := range a.cover {
			a.cover[i] = 0
			a.area[i] = 0
		}
	}
	a.width, a.height = width, height
}

// AddEdge accumulates one straight edge of a flattened outline, in device
// pixel space expressed as 24.8 fixed-point coordinates. Edges may lie
// partially or wholly outside [0,width) x [0,height); they are clipped
// vertically and clamped horizontally to the border cell, so their
// contribution to the winding number of visible columns is preserved even
// when the edge itself is invisible.
func (a *Accumulator) AddEdge(x0, y0, x1, y1 fixed.Int24_8) {
	fx0, fy0 := float64(x0), float64(y0)
	fx1, fy1 := float64(x1), float64(y1)
	if fy0 == fy1 {
		return
	}
	dir := 1.0
	if fy0 > fy1 {
		fx0, fy0, fx1, fy1 = fx1, fy1, fx0, fy0
		dir = -1.0
	}

	top := 0.0
	bot := float64(a.height) * 256
	if fy1 <= top || fy0 >= bot {
		return
	}
	if fy0 < top {
		fx0 = lerpAtY(fx0, fy0, fx1, fy1, top)
		fy0 = top
	}
	if fy1 > bot {
		fx1 = lerpAtY(fx0, fy0, fx1, fy1, bot)
		fy1 = bot
	}
	a.addClippedEdge(fx0, fy0, fx1, fy1, dir)
}

func lerpAtY(x0, y0, x1, y1, y float64) float64 {
	return x0 + (x1-x0)*(y-y0)/(y1-y0)
}

func (a *Accumulator) addClippedEdge(x0, y0, x1, y1, dir float64) {
	row0 := int(math.Floor(y0 / 256))
	row1 := int(math.Floor(y1 / 256))
	if y1 == float64(row1)*256 {
		row1--
	}
	if row0 == row1 {
		a.addRowSegment(row0, x0, y0, x1, y1, dir)
		return
	}
	x, y := x0, y0
	for row := row0; row <= row1; row++ {
		rowBot := float64(row+1) * 256
		var xNext float64
		if row == row1 {
			rowBot = y1
			xNext = x1
		} else {
			xNext = lerpAtY(x0, y0, x1, y1, rowBot)
		}
		a.addRowSegment(row, x, y, xNext, rowBot, dir)
		x, y = xNext, rowBot
	}
}

func (a *Accumulator) addRowSegment(row int, xA, yA, xB, yB, dir float64) {
	if row < 0 || row >= a.height {
		return
	}
	dyTotal := yB - yA
	if dyTotal == 0 {
		return
	}
	if xA == xB {
		a.addCell(row, int(math.Floor(xA/256)), dyTotal*dir, xA, xB)
		return
	}
	colA := int(math.Floor(xA / 256))
	colB := int(math.Floor(xB / 256))
	if colA == colB {
		a.addCell(row, colA, dyTotal*dir, xA, xB)
		return
	}

	step := 1
	if xB < xA {
		step = -1
	}
	x, y := xA, yA
	col := colA
	for {
		var boundary float64
		if step > 0 {
			boundary = float64(col+1) * 256
		} else {
			boundary = float64(col) * 256
		}
		atEnd := (step > 0 && boundary >= xB) || (step < 0 && boundary <= xB)
		if atEnd {
			a.addCell(row, col, (yB-y)*dir, x, xB)
			return
		}
		yAtBoundary := yA + dyTotal*(boundary-xA)/(xB-xA)
		a.addCell(row, col, (yAtBoundary-y)*dir, x, boundary)
		x, y = boundary, yAtBoundary
		col += step
	}
}

// addCell accumulates one edge sub-segment known to lie within a single
// pixel row and column. Columns outside [0,width) are clamped to the
// border cell: the cover contribution still needs to reach the visible
// columns' running sum, but the doubled-area correction only matters for
// the cell that is actually drawn.
func (a *Accumulator) addCell(row, col int, dy, xEnter, xExit float64) {
	if a.width == 0 {
		return
	}
	if col < 0 {
		col = 0
	} else if col >= a.width {
		col = a.width - 1
	}
	idx := row*a.width + col
	a.cover[idx] += int32(math.Round(dy))
	colLeft := float64(col) * 256
	a.area[idx] += int32(math.Round(dy * (xEnter + xExit - 2*colLeft)))
}

// Sweep writes one alpha byte per pixel of the accumulated coverage into
// dst, a width*height A8 buffer with the given row stride, according to
// rule. Left-over running cover past the last touched cell in a row
// naturally tail-fills the remaining columns, since the prefix sum simply
// carries forward with no further area correction.
func (a *Accumulator) Sweep(dst []byte, stride int, rule FillRule) {
	for row := 0; row < a.height; row++ {
		var coverAccum int32
		base := row * a.width
		out := dst[row*stride : row*stride+a.width]
		for x := 0; x < a.width; x++ {
			idx := base + x
			coverAccum += a.cover[idx]
			raw := coverAccum*2*256 - a.area[idx]
			out[x] = coverageToAlpha(raw, rule)
		}
	}
}

const fullCoverage = int32(fixed.FullCoverage24_8)

func coverageToAlpha(raw int32, rule FillRule) byte {
	if raw < 0 {
		raw = -raw
	}
	switch rule {
	case EvenOdd:
		period := fullCoverage * 2
		raw &= period - 1
		if raw > fullCoverage {
			raw = period - raw
		}
	default:
		if raw > fullCoverage {
			raw = fullCoverage
		}
	}
	return byte((int64(raw)*255 + int64(fullCoverage)/2) / int64(fullCoverage))
}
