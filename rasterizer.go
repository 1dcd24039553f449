package raster

import (
	"errors"
	"math"

	"github.com/harfbuzz/hb-raster-go/internal/fixed"
	"github.com/harfbuzz/hb-raster-go/internal/sweep"
	"github.com/harfbuzz/hb-raster-go/internal/tile"
)

// FillRule selects the winding rule used to turn a closed outline into a
// coverage mask.
type FillRule int

const (
	FillRuleNonZero FillRule = iota
	FillRuleEvenOdd
)

// Backend selects which antialiasing strategy Render uses.
type Backend int

const (
	// BackendSweep is the analytic, exact-area scanline sweep. It is the
	// default: higher quality per sample, and the cheaper of the two for
	// typical glyph-sized outlines.
	BackendSweep Backend = iota
	// BackendTile is the tiled, 8-sample multi-sample backend. It trades
	// analytic precision for a fixed per-pixel cost, useful when an
	// outline has a very large number of short edges relative to its
	// pixel area.
	BackendTile
)

// DrawFuncs is the outline callback protocol a font or path source drives a
// Rasterizer with: a single MoveTo establishes a subpath, LineTo/QuadTo/
// CubeTo extend it, and each subpath is implicitly closed (either by an
// explicit ClosePath or by the next MoveTo/Render).
type DrawFuncs interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadTo(cx, cy, x, y float64)
	CubeTo(c1x, c1y, c2x, c2y, x, y float64)
	ClosePath()
}

var (
	errNilImage              = errors.New("raster: Render called with a nil image")
	errUnsupportedMaskFormat = errors.New("raster: Render requires a FormatA8 image")
)

// Rasterizer accumulates a flattened outline and sweeps it into an A8
// coverage mask. The zero value is not usable; construct with
// NewRasterizer.
type Rasterizer struct {
	format   Format
	xform    Transform
	backend  Backend
	fillRule FillRule

	verts        []point
	subpathStart []int
	curX, curY   float64

	haveBBox               bool
	minX, minY, maxX, maxY float64

	hasFixedExtents bool
	fixedExtents    Extents

	sweepAcc *sweep.Accumulator
	tileAcc  *tile.Accumulator

	freeImages []*Image
}

// NewRasterizer returns a Rasterizer using the analytic sweep backend, the
// non-zero fill rule, and the identity transform.
func NewRasterizer() *Rasterizer {
	return &Rasterizer{xform: Identity(), format: FormatA8}
}

func (r *Rasterizer) SetFormat(f Format)        { r.format = f }
func (r *Rasterizer) GetFormat() Format         { return r.format }
func (r *Rasterizer) SetTransform(t Transform)  { r.xform = t }
func (r *Rasterizer) GetTransform() Transform   { return r.xform }
func (r *Rasterizer) SetBackend(b Backend)      { r.backend = b }
func (r *Rasterizer) GetBackend() Backend       { return r.backend }
func (r *Rasterizer) SetFillRule(fr FillRule)   { r.fillRule = fr }
func (r *Rasterizer) GetFillRule() FillRule     { return r.fillRule }

// SetExtents fixes the output rectangle RenderAuto uses, overriding the
// auto-computed bounding box. The flag is cleared after the next
// RenderAuto call, matching Reset's per-session accumulation.
func (r *Rasterizer) SetExtents(ext Extents) {
	r.hasFixedExtents = true
	r.fixedExtents = ext
}

// GetExtents returns the fixed extents set by SetExtents, if any.
func (r *Rasterizer) GetExtents() (Extents, bool) {
	return r.fixedExtents, r.hasFixedExtents
}

// GetFuncs returns r itself as a DrawFuncs sink: feeding outline segments
// into r via MoveTo/LineTo/QuadTo/CubeTo builds up the path to Render.
func (r *Rasterizer) GetFuncs() DrawFuncs { return r }

func (r *Rasterizer) MoveTo(x, y float64) {
	tx, ty := r.xform.Apply(x, y)
	r.subpathStart = append(r.subpathStart, len(r.verts))
	r.verts = append(r.verts, point{tx, ty})
	r.curX, r.curY = tx, ty
	r.updateBBox(tx, ty)
}

func (r *Rasterizer) LineTo(x, y float64) {
	tx, ty := r.xform.Apply(x, y)
	r.verts = append(r.verts, point{tx, ty})
	r.curX, r.curY = tx, ty
	r.updateBBox(tx, ty)
}

func (r *Rasterizer) QuadTo(cx, cy, x, y float64) {
	tcx, tcy := r.xform.Apply(cx, cy)
	tx, ty := r.xform.Apply(x, y)
	p0 := point{r.curX, r.curY}
	flattenQuadratic(p0, point{tcx, tcy}, point{tx, ty}, func(p point) {
		r.verts = append(r.verts, p)
		r.updateBBox(p.X, p.Y)
	})
	r.curX, r.curY = tx, ty
}

func (r *Rasterizer) CubeTo(c1x, c1y, c2x, c2y, x, y float64) {
	tc1x, tc1y := r.xform.Apply(c1x, c1y)
	tc2x, tc2y := r.xform.Apply(c2x, c2y)
	tx, ty := r.xform.Apply(x, y)
	p0 := point{r.curX, r.curY}
	flattenCubic(p0, point{tc1x, tc1y}, point{tc2x, tc2y}, point{tx, ty}, func(p point) {
		r.verts = append(r.verts, p)
		r.updateBBox(p.X, p.Y)
	})
	r.curX, r.curY = tx, ty
}

// ClosePath returns the pen to the current subpath's start point. It does
// not need to emit a synthetic closing edge itself: Render always closes
// every subpath, whether or not ClosePath was called.
func (r *Rasterizer) ClosePath() {
	if len(r.subpathStart) == 0 {
		return
	}
	start := r.verts[r.subpathStart[len(r.subpathStart)-1]]
	r.curX, r.curY = start.X, start.Y
}

func (r *Rasterizer) updateBBox(x, y float64) {
	if !r.haveBBox {
		r.minX, r.minY, r.maxX, r.maxY = x, y, x, y
		r.haveBBox = true
		return
	}
	if x < r.minX {
		r.minX = x
	}
	if x > r.maxX {
		r.maxX = x
	}
	if y < r.minY {
		r.minY = y
	}
	if y > r.maxY {
		r.maxY = y
	}
}

// Bounds returns the tight bounding box of every point fed in since the
// last Reset, in device space. ok is false if no outline has been fed in.
func (r *Rasterizer) Bounds() (minX, minY, maxX, maxY float64, ok bool) {
	return r.minX, r.minY, r.maxX, r.maxY, r.haveBBox
}

// Reset discards the accumulated outline (but keeps backend buffers
// allocated for reuse by the next Render).
func (r *Rasterizer) Reset() {
	r.verts = r.verts[:0]
	r.subpathStart = r.subpathStart[:0]
	r.curX, r.curY = 0, 0
	r.haveBBox = false
	r.minX, r.minY, r.maxX, r.maxY = 0, 0, 0, 0
}

// Render sweeps the accumulated outline into img, an A8 coverage mask
// sized and positioned according to img.Extents(). It does not reset the
// accumulated outline; call Reset before building the next one.
func (r *Rasterizer) Render(img *Image) error {
	if img == nil {
		return errNilImage
	}
	if img.Format() != FormatA8 {
		return errUnsupportedMaskFormat
	}
	ext := img.Extents()
	originX, originY := float64(ext.X), float64(ext.Y)

	switch r.backend {
	case BackendTile:
		if r.tileAcc == nil {
			r.tileAcc = tile.NewAccumulator(ext.Width, ext.Height)
		} else {
			r.tileAcc.Reset(ext.Width, ext.Height)
		}
		r.emitTileEdges(originX, originY)
		r.tileAcc.Sweep(img.Buffer(), ext.Stride, tileFillRule(r.fillRule))
	default:
		if r.sweepAcc == nil {
			r.sweepAcc = sweep.NewAccumulator(ext.Width, ext.Height)
		} else {
			r.sweepAcc.Reset(ext.Width, ext.Height)
		}
		r.emitSweepEdges(originX, originY)
		r.sweepAcc.Sweep(img.Buffer(), ext.Stride, sweepFillRule(r.fillRule))
	}
	return nil
}

// autoExtents computes the integer pixel bounding box floor(min)…ceil(max)
// of every edge endpoint fed in since the last Reset. Width and height
// clamp to 0 if no outline was fed in or the box is degenerate.
func (r *Rasterizer) autoExtents() Extents {
	if !r.haveBBox {
		return Extents{}
	}
	x0 := int(math.Floor(r.minX))
	y0 := int(math.Floor(r.minY))
	x1 := int(math.Ceil(r.maxX))
	y1 := int(math.Ceil(r.maxY))
	w, h := x1-x0, y1-y0
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Extents{X: x0, Y: y0, Width: w, Height: h}
}

// RenderAuto sweeps the accumulated outline into a freshly sized A8 image:
// the fixed rectangle set by SetExtents if one is in effect, otherwise the
// auto-computed bounding box of the accumulated edges. It reuses a
// recycled allocation when one is available, and clears the fixed-extents
// flag afterward so the next session defaults back to auto-sizing.
func (r *Rasterizer) RenderAuto() (*Image, error) {
	ext := r.autoExtents()
	if r.hasFixedExtents {
		ext = r.fixedExtents
	}
	r.hasFixedExtents = false

	img := r.NewRecycledImage(ext, FormatA8)
	if err := r.Render(img); err != nil {
		return nil, err
	}
	return img, nil
}

func (r *Rasterizer) forEachClosedSubpath(fn func(pts []point)) {
	for i, start := range r.subpathStart {
		end := len(r.verts)
		if i+1 < len(r.subpathStart) {
			end = r.subpathStart[i+1]
		}
		fn(r.verts[start:end])
	}
}

func (r *Rasterizer) emitSweepEdges(originX, originY float64) {
	r.forEachClosedSubpath(func(pts []point) {
		n := len(pts)
		if n < 2 {
			return
		}
		for i := 0; i < n; i++ {
			a := pts[i]
			b := pts[(i+1)%n]
			r.sweepAcc.AddEdge(
				fixed.FromFloat24_8(a.X-originX), fixed.FromFloat24_8(a.Y-originY),
				fixed.FromFloat24_8(b.X-originX), fixed.FromFloat24_8(b.Y-originY),
			)
		}
	})
}

func (r *Rasterizer) emitTileEdges(originX, originY float64) {
	r.forEachClosedSubpath(func(pts []point) {
		n := len(pts)
		if n < 2 {
			return
		}
		for i := 0; i < n; i++ {
			a := pts[i]
			b := pts[(i+1)%n]
			r.tileAcc.AddEdge(
				fixed.FromFloat26_6(a.X-originX), fixed.FromFloat26_6(a.Y-originY),
				fixed.FromFloat26_6(b.X-originX), fixed.FromFloat26_6(b.Y-originY),
			)
		}
	})
}

func sweepFillRule(fr FillRule) sweep.FillRule {
	if fr == FillRuleEvenOdd {
		return sweep.EvenOdd
	}
	return sweep.NonZero
}

func tileFillRule(fr FillRule) tile.FillRule {
	if fr == FillRuleEvenOdd {
		return tile.EvenOdd
	}
	return tile.NonZero
}

// RecycleImage offers img back to the rasterizer for reuse by a future
// NewRecycledImage call, instead of letting Destroy free its buffer. It is
// a no-op if img is nil or still referenced elsewhere.
func (r *Rasterizer) RecycleImage(img *Image) {
	if img == nil || img.refs.Load() > 1 {
		return
	}
	r.freeImages = append(r.freeImages, img)
}

// NewRecycledImage returns an image with the given extents and format,
// reusing a previously recycled allocation when one is large enough.
func (r *Rasterizer) NewRecycledImage(extents Extents, format Format) *Image {
	if len(r.freeImages) > 0 {
		img := r.freeImages[len(r.freeImages)-1]
		r.freeImages = r.freeImages[:len(r.freeImages)-1]
		img.reuse(extents, format)
		img.refs.Store(1)
		return img
	}
	return NewImage(extents, format)
}
