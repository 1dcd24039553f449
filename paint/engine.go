package paint

import (
	"math"

	"github.com/harfbuzz/hb-raster-go"
)

// maxGroupDepth bounds the push_group/pop_group stack, mirroring the
// flattener and SVG emitter's own depth caps: a color font's paint tree is
// untrusted input and must not be able to exhaust memory through
// unbounded nesting.
const maxGroupDepth = 64

// maxColorGlyphDepth bounds recursive color-glyph-in-color-glyph painting.
const maxColorGlyphDepth = 16

// PaintFuncs is the operation set a color font's paint tree is expressed
// in terms of, modeled on the stack-machine shape of HarfBuzz's paint
// callbacks: transforms, clips and compositing groups nest via push/pop,
// and a leaf paint (color, gradient, image or nested color glyph) always
// targets whatever surface and clip are currently on top of the stacks.
type PaintFuncs interface {
	PushTransform(t raster.Transform)
	PopTransform()
	PushClipGlyph(face FontFace, gid uint32)
	PushClipRectangle(x0, y0, x1, y1 float64)
	PopClip()
	PushGroup()
	PopGroup(mode raster.BlendMode)
	PaintColor(c Color, alpha float64)
	PaintLinearGradient(line ColorLine, x0, y0, x1, y1, x2, y2 float64)
	PaintRadialGradient(line ColorLine, x0, y0, r0, x1, y1, r1 float64)
	PaintSweepGradient(line ColorLine, cx, cy, startAngle, endAngle float64)
	PaintImage(img *raster.Image, x, y float64)
	PaintColorGlyph(face FontFace, gid uint32, palette []Color, foreground Color) bool
}

// Engine paints a color glyph's tree directly into a target BGRA32 image,
// compositing as it goes rather than building an intermediate scene graph.
type Engine struct {
	width, height int
	root          *raster.Image
	transforms    []raster.Transform
	clip          *raster.ClipStack
	groups        []*raster.Image
	groupModes    []raster.BlendMode
	freeSurfaces  []*raster.Image
	depth         int
	foregrounds   []Color
}

// NewEngine returns an Engine targeting a fresh width x height BGRA32
// image, with the identity transform and no clip beyond the canvas
// bounds.
func NewEngine(width, height int) *Engine {
	e := &Engine{
		width:      width,
		height:     height,
		root:       raster.NewImage(raster.Extents{Width: width, Height: height}, raster.FormatBGRA32),
		transforms: []raster.Transform{raster.Identity()},
		clip:       raster.NewClipStack(width, height),
	}
	return e
}

// Result returns the painted image. It remains valid (and owned by the
// Engine) until the Engine is discarded.
func (e *Engine) Result() *raster.Image { return e.root }

func (e *Engine) currentTransform() raster.Transform {
	return e.transforms[len(e.transforms)-1]
}

func (e *Engine) currentSurface() *raster.Image {
	if n := len(e.groups); n > 0 {
		return e.groups[n-1]
	}
	return e.root
}

func (e *Engine) PushTransform(t raster.Transform) {
	e.transforms = append(e.transforms, t.Mul(e.currentTransform()))
}

func (e *Engine) PopTransform() {
	if len(e.transforms) > 1 {
		e.transforms = e.transforms[:len(e.transforms)-1]
	}
}

func (e *Engine) PushClipGlyph(face FontFace, gid uint32) {
	e.clip.PushClipGlyph(func(sink raster.DrawFuncs) {
		face.GetGlyphOutline(gid, sink)
	}, e.currentTransform())
}

func (e *Engine) PushClipRectangle(x0, y0, x1, y1 float64) {
	e.clip.PushClipRectangle(x0, y0, x1, y1, e.currentTransform())
}

func (e *Engine) PopClip() { e.clip.PopClip() }

func (e *Engine) PushGroup() {
	if len(e.groups) >= maxGroupDepth {
		return
	}
	var surf *raster.Image
	if n := len(e.freeSurfaces); n > 0 {
		surf = e.freeSurfaces[n-1]
		e.freeSurfaces = e.freeSurfaces[:n-1]
		clearImage(surf)
	} else {
		surf = raster.NewImage(raster.Extents{Width: e.width, Height: e.height}, raster.FormatBGRA32)
	}
	e.groups = append(e.groups, surf)
}

func (e *Engine) PopGroup(mode raster.BlendMode) {
	n := len(e.groups)
	if n == 0 {
		return
	}
	popped := e.groups[n-1]
	e.groups = e.groups[:n-1]
	raster.CompositeImagesMasked(e.currentSurface(), popped, 0, 0, mode, e.clip)
	e.freeSurfaces = append(e.freeSurfaces, popped)
}

func clearImage(img *raster.Image) {
	buf := img.Buffer()
	for i := range buf {
		buf[i] = 0
	}
}

func premultiply(c Color, extraAlpha float64) (r, g, b, a byte) {
	alpha := clamp01(c.A * extraAlpha)
	return toByte(c.R * alpha), toByte(c.G * alpha), toByte(c.B * alpha), toByte(alpha)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func toByte(v float64) byte {
	v = clamp01(v)
	return byte(v*255 + 0.5)
}

func (e *Engine) currentForeground() Color {
	if n := len(e.foregrounds); n > 0 {
		return e.foregrounds[n-1]
	}
	return Color{}
}

// resolveLine resolves any is_foreground stop in line against the current
// foreground, returning line unchanged if no stop needed substitution.
func (e *Engine) resolveLine(line ColorLine) ColorLine {
	stops := line.Stops()
	needsResolve := false
	for _, s := range stops {
		if s.Color.IsForeground {
			needsResolve = true
			break
		}
	}
	if !needsResolve {
		return line
	}
	fg := e.currentForeground()
	resolved := make([]ColorStop, len(stops))
	for i, s := range stops {
		resolved[i] = ColorStop{Offset: s.Offset, Color: ResolveColor(s.Color, fg)}
	}
	return staticColorLine{stops: resolved, extend: line.Extend()}
}

// PaintColor fills the current clip with c, scaled by alpha (in addition
// to c's own alpha channel), using source-over compositing.
func (e *Engine) PaintColor(c Color, alpha float64) {
	c = ResolveColor(c, e.currentForeground())
	r, g, b, a := premultiply(c, alpha)
	e.forEachClippedPixel(func(x, y int, coverage byte) {
		cr, cg, cb, ca := scaleByCoverage(r, g, b, a, coverage)
		raster.CompositePixel(e.currentSurface(), x, y, cr, cg, cb, ca, raster.BlendSrcOver)
	})
}

func scaleByCoverage(r, g, b, a, coverage byte) (byte, byte, byte, byte) {
	if coverage == 255 {
		return r, g, b, a
	}
	if coverage == 0 {
		return 0, 0, 0, 0
	}
	scale := func(v byte) byte { return byte((uint16(v)*uint16(coverage) + 127) / 255) }
	return scale(r), scale(g), scale(b), scale(a)
}

// forEachClippedPixel visits every pixel within the current clip's tight
// bounds (intersected with the target surface) with a non-zero coverage.
func (e *Engine) forEachClippedPixel(fn func(x, y int, coverage byte)) {
	bounds := e.clipBounds()
	for y := bounds.y0; y < bounds.y1; y++ {
		for x := bounds.x0; x < bounds.x1; x++ {
			cov := e.clip.Coverage(float64(x), float64(y))
			if cov == 0 {
				continue
			}
			fn(x, y, cov)
		}
	}
}

type pixelBounds struct{ x0, y0, x1, y1 int }

func (e *Engine) clipBounds() pixelBounds {
	bx0, by0, bx1, by1 := e.clip.Bounds()
	x0, y0 := clampInt(int(bx0), 0, e.width), clampInt(int(by0), 0, e.height)
	x1, y1 := clampInt(int(bx1+0.999999), 0, e.width), clampInt(int(by1+0.999999), 0, e.height)
	return pixelBounds{x0, y0, x1, y1}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PaintLinearGradient fills the current clip with a linear gradient over
// the three-anchor axis (x0,y0)-(x1,y1)-(x2,y2), all in the current
// transform's user space: p2 rotates the gradient's perpendicular axis,
// per the COLRv1 linear-gradient geometry (see ReduceLinearAxis).
func (e *Engine) PaintLinearGradient(line ColorLine, x0, y0, x1, y1, x2, y2 float64) {
	line = e.resolveLine(line)
	rx1, ry1 := ReduceLinearAxis(x0, y0, x1, y1, x2, y2)
	xf := e.currentTransform()
	e.forEachClippedPixel(func(px, py int, coverage byte) {
		ux, uy, ok := e.inverseUserPoint(xf, px, py)
		if !ok {
			return
		}
		t, ok := linearT(ux, uy, x0, y0, rx1, ry1)
		if !ok {
			return
		}
		c := colorAt(line, t)
		r, g, b, a := premultiply(c, 1)
		cr, cg, cb, ca := scaleByCoverage(r, g, b, a, coverage)
		raster.CompositePixel(e.currentSurface(), px, py, cr, cg, cb, ca, raster.BlendSrcOver)
	})
}

// PaintRadialGradient fills the current clip with a two-circle radial
// gradient from (x0,y0,r0) to (x1,y1,r1).
func (e *Engine) PaintRadialGradient(line ColorLine, x0, y0, r0, x1, y1, r1 float64) {
	line = e.resolveLine(line)
	xf := e.currentTransform()
	e.forEachClippedPixel(func(px, py int, coverage byte) {
		ux, uy, ok := e.inverseUserPoint(xf, px, py)
		if !ok {
			return
		}
		t, ok := radialT(ux, uy, x0, y0, r0, x1, y1, r1)
		if !ok {
			return
		}
		c := colorAt(line, t)
		r, g, b, a := premultiply(c, 1)
		cr, cg, cb, ca := scaleByCoverage(r, g, b, a, coverage)
		raster.CompositePixel(e.currentSurface(), px, py, cr, cg, cb, ca, raster.BlendSrcOver)
	})
}

// PaintSweepGradient fills the current clip with an angular gradient
// around (cx,cy), from startAngle to endAngle (radians).
func (e *Engine) PaintSweepGradient(line ColorLine, cx, cy, startAngle, endAngle float64) {
	line = e.resolveLine(line)
	xf := e.currentTransform()
	e.forEachClippedPixel(func(px, py int, coverage byte) {
		ux, uy, ok := e.inverseUserPoint(xf, px, py)
		if !ok {
			return
		}
		t, ok := sweepT(ux, uy, cx, cy, startAngle, endAngle)
		if !ok {
			return
		}
		c := colorAt(line, t)
		r, g, b, a := premultiply(c, 1)
		cr, cg, cb, ca := scaleByCoverage(r, g, b, a, coverage)
		raster.CompositePixel(e.currentSurface(), px, py, cr, cg, cb, ca, raster.BlendSrcOver)
	})
}

func (e *Engine) inverseUserPoint(xf raster.Transform, px, py int) (float64, float64, bool) {
	inv, ok := xf.Invert()
	if !ok {
		return 0, 0, false
	}
	ux, uy := inv.Apply(float64(px)+0.5, float64(py)+0.5)
	return ux, uy, true
}

// PaintImage samples img (nearest-neighbor, BGRA32) within the current
// clip, mapping glyph/device space to texel space by inverse-transforming
// each destination pixel through the current transform and offsetting by
// img's placement (x, y) in user space — the same per-pixel inverse-map
// the gradient paints use, so a rotated/scaled/skewed push_transform
// samples img correctly instead of pasting it untransformed.
func (e *Engine) PaintImage(img *raster.Image, x, y float64) {
	if img == nil || img.Format() != raster.FormatBGRA32 {
		return
	}
	xf := e.currentTransform()
	ext := img.Extents()
	e.forEachClippedPixel(func(px, py int, coverage byte) {
		ux, uy, ok := e.inverseUserPoint(xf, px, py)
		if !ok {
			return
		}
		ix := int(math.Floor(ux - x))
		iy := int(math.Floor(uy - y))
		if ix < 0 || iy < 0 || ix >= ext.Width || iy >= ext.Height {
			return
		}
		r, g, b, a, ok := readPixelBGRA32(img, ix, iy)
		if !ok {
			return
		}
		cr, cg, cb, ca := scaleByCoverage(r, g, b, a, coverage)
		raster.CompositePixel(e.currentSurface(), px, py, cr, cg, cb, ca, raster.BlendSrcOver)
	})
}

// readPixelBGRA32 reads one premultiplied BGRA pixel at texel (tx, ty) from
// a FormatBGRA32 image's exported Buffer/Extents, since Image's internal
// row accessor is unexported to the raster package.
func readPixelBGRA32(img *raster.Image, tx, ty int) (r, g, b, a byte, ok bool) {
	ext := img.Extents()
	buf := img.Buffer()
	off := ty*ext.Stride + tx*4
	if off < 0 || off+4 > len(buf) {
		return 0, 0, 0, 0, false
	}
	b, g, r, a = buf[off], buf[off+1], buf[off+2], buf[off+3]
	return r, g, b, a, true
}

// PaintColorGlyph recursively paints a nested color glyph. It returns
// false (and paints nothing) past maxColorGlyphDepth, so a font with a
// cyclic or pathologically deep color glyph graph cannot hang the engine.
func (e *Engine) PaintColorGlyph(face FontFace, gid uint32, palette []Color, foreground Color) bool {
	if e.depth >= maxColorGlyphDepth {
		return false
	}
	e.depth++
	e.foregrounds = append(e.foregrounds, foreground)
	defer func() {
		e.depth--
		e.foregrounds = e.foregrounds[:len(e.foregrounds)-1]
	}()
	return face.PaintColorGlyph(gid, palette, foreground, e)
}
