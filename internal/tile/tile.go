// Package tile implements the tiled, multi-sample antialiasing backend: an
// alternative to the sweep package's exact-area sweep, trading analytic
// precision for a fixed per-pixel sample count and 26.6 fixed-point
// arithmetic, organized into 16x16-pixel tiles so that a pixel's inside
// test only walks the edges that can possibly affect it.
package tile

import "github.com/harfbuzz/hb-raster-go/internal/fixed"

// FillRule selects how the winding number at a sample point is mapped to
// inside/outside.
type FillRule int

const (
	NonZero FillRule = iota
	EvenOdd
)

// TileSize is the edge length, in pixels, of one edge-binning tile.
const TileSize = 16

// sampleCount jittered sample offsets within a pixel, in 26.6 fixed-point
// sub-pixel units (0..64). The pattern is intentionally irregular (not a
// regular grid) to avoid systematic aliasing on axis-aligned edges.
var sampleX = [8]int32{10, 22, 35, 51, 13, 29, 45, 54}
var sampleY = [8]int32{19, 51, 10, 29, 38, 29, 54, 13}

const sampleCount = 8

type edge struct {
	x0, y0, x1, y1 float64
}

// Accumulator bins edges into 16x16-pixel tiles and evaluates an 8-sample
// winding test per pixel on Sweep.
type Accumulator struct {
	width, height  int
	tilesX, tilesY int
	tileEdges      [][]edge
}

// NewAccumulator returns an Accumulator sized for a width x height target.
func NewAccumulator(width, height int) *Accumulator {
	a := &Accumulator{}
	a.Reset(width, height)
	return a
}

// Reset resizes the accumulator for a new width x height target, clearing
// all accumulated edges.
func (a *Accumulator) Reset(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	a.width, a.height = width, height
	a.tilesX = (width + TileSize - 1) / TileSize
	a.tilesY = (height + TileSize - 1) / TileSize
	n := a.tilesX * a.tilesY
	if cap(a.tileEdges) < n {
		a.tileEdges = make([][]edge, n)
	} else {
		a.tileEdges = a.tileEdges[:n]
		for i := range a.tileEdges {
			a.tileEdges[i] = a.tileEdges[i][:0]
		}
	}
}

// AddEdge accumulates one straight edge of a flattened outline, in device
// pixel space expressed as 26.6 fixed-point coordinates.
func (a *Accumulator) AddEdge(x0, y0, x1, y1 fixed.Int26_6) {
	if a.tilesX == 0 || a.tilesY == 0 {
		return
	}
	fx0, fy0 := float64(x0)/64, float64(y0)/64
	fx1, fy1 := float64(x1)/64, float64(y1)/64
	if fy0 == fy1 {
		return
	}
	e := edge{fx0, fy0, fx1, fy1}

	yLo, yHi := fy0, fy1
	if yLo > yHi {
		yLo, yHi = yHi, yLo
	}
	xHi := fx0
	if fx1 > xHi {
		xHi = fx1
	}

	tyLo := clampTile(int(yLo/TileSize), a.tilesY)
	tyHi := clampTile(int(yHi/TileSize), a.tilesY)
	txHi := clampTile(int(xHi/TileSize), a.tilesX)

	for ty := tyLo; ty <= tyHi; ty++ {
		for tx := 0; tx <= txHi; tx++ {
			idx := ty*a.tilesX + tx
			a.tileEdges[idx] = append(a.tileEdges[idx], e)
		}
	}
}

func clampTile(t, max int) int {
	if t < 0 {
		return 0
	}
	if t >= max {
		return max - 1
	}
	return t
}

// Sweep writes one alpha byte per pixel of dst, a width*height A8 buffer
// with the given row stride, according to rule.
func (a *Accumulator) Sweep(dst []byte, stride int, rule FillRule) {
	for ty := 0; ty < a.tilesY; ty++ {
		for tx := 0; tx < a.tilesX; tx++ {
			edges := a.tileEdges[ty*a.tilesX+tx]
			px0, py0 := tx*TileSize, ty*TileSize
			px1 := px0 + TileSize
			if px1 > a.width {
				px1 = a.width
			}
			py1 := py0 + TileSize
			if py1 > a.height {
				py1 = a.height
			}
			for py := py0; py < py1; py++ {
				row := dst[py*stride : py*stride+a.width]
				for px := px0; px < px1; px++ {
					row[px] = samplePixel(edges, px, py, rule)
				}
			}
		}
	}
}

func samplePixel(edges []edge, px, py int, rule FillRule) byte {
	var inside int
	for i := 0; i < sampleCount; i++ {
		qx := float64(px) + float64(sampleX[i])/64
		qy := float64(py) + float64(sampleY[i])/64
		if isInside(edges, qx, qy, rule) {
			inside++
		}
	}
	return byte((inside*255 + 4) / sampleCount)
}

func isInside(edges []edge, qx, qy float64, rule FillRule) bool {
	winding := 0
	for _, e := range edges {
		y0, y1 := e.y0, e.y1
		if (y0 <= qy && y1 > qy) || (y1 <= qy && y0 > qy) {
			t := (qy - y0) / (y1 - y0)
			xCross := e.x0 + t*(e.x1-e.x0)
			if xCross > qx {
				if y1 > y0 {
					winding++
				} else {
					winding--
				}
			}
		}
	}
	if rule == EvenOdd {
		return winding%2 != 0
	}
	return winding != 0
}
