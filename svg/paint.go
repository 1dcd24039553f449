package svg

import (
	"fmt"
	"math"
	"strings"

	"github.com/harfbuzz/hb-raster-go"
	"github.com/harfbuzz/hb-raster-go/paint"
	"golang.org/x/text/language"
)

// maxGroupDepth bounds the push_group/push_clip/push_transform stacks, as
// spec'd: deeper pushes become no-ops, and are popped identically so the
// stack never goes negative.
const maxGroupDepth = 64

// cssBlendMode maps a raster.BlendMode to its CSS mix-blend-mode keyword.
// Porter-Duff modes with no CSS equivalent return ("", false): the caller
// emits a plain <g> instead.
func cssBlendMode(mode raster.BlendMode) (string, bool) {
	switch mode {
	case raster.BlendMultiply:
		return "multiply", true
	case raster.BlendScreen:
		return "screen", true
	case raster.BlendOverlay:
		return "overlay", true
	case raster.BlendDarken:
		return "darken", true
	case raster.BlendLighten:
		return "lighten", true
	case raster.BlendColorDodge:
		return "color-dodge", true
	case raster.BlendColorBurn:
		return "color-burn", true
	case raster.BlendHardLight:
		return "hard-light", true
	case raster.BlendSoftLight:
		return "soft-light", true
	case raster.BlendDifference:
		return "difference", true
	case raster.BlendExclusion:
		return "exclusion", true
	case raster.BlendHue:
		return "hue", true
	case raster.BlendSaturation:
		return "saturation", true
	case raster.BlendColor:
		return "color", true
	case raster.BlendLuminosity:
		return "luminosity", true
	default:
		return "", false
	}
}

// colorGlyphKey memoizes a color glyph's rendered subtree. paletteHash lets
// a host that supplies palette overrides extend the key without the
// emitter needing to know the palette's shape.
type colorGlyphKey struct {
	gid         uint32
	foreground  paint.Color
	paletteHash uint64
}

type colorGlyphEntry struct {
	defID       string
	isImageLike bool
}

// PaintEmitter renders a color glyph's paint tree as an SVG document,
// implementing paint.PaintFuncs so it can be driven exactly like
// paint.Engine.
type PaintEmitter struct {
	Precision int
	Locale    language.Tag

	groups    []*strings.Builder
	root      strings.Builder
	defs      strings.Builder
	idCounter int

	transforms []raster.Transform
	clipDepth  int // number of open <g clip-path=...> wrappers

	defined map[colorGlyphKey]colorGlyphEntry

	foregrounds []paint.Color // parallel to color-glyph recursion depth

	sawImageInGroup []bool // parallel to groups: did this group paint an image

	haveBBox               bool
	minX, minY, maxX, maxY float64

	recycled recycledBlob
}

// NewPaintEmitter returns a PaintEmitter ready to paint one document.
func NewPaintEmitter() *PaintEmitter {
	return &PaintEmitter{
		Precision:  defaultPrecision,
		transforms: []raster.Transform{raster.Identity()},
		defined:    make(map[colorGlyphKey]colorGlyphEntry),
	}
}

// Reset discards all emitted content, returning to the just-constructed
// state (preserving Precision/Locale).
func (p *PaintEmitter) Reset() {
	p.groups = nil
	p.root.Reset()
	p.defs.Reset()
	p.idCounter = 0
	p.transforms = []raster.Transform{raster.Identity()}
	p.clipDepth = 0
	p.defined = make(map[colorGlyphKey]colorGlyphEntry)
	p.foregrounds = nil
	p.sawImageInGroup = nil
	p.haveBBox = false
	p.minX, p.minY, p.maxX, p.maxY = 0, 0, 0, 0
}

func (p *PaintEmitter) nextID(prefix string) string {
	p.idCounter++
	return fmt.Sprintf("%s%d", prefix, p.idCounter)
}

func (p *PaintEmitter) current() *strings.Builder {
	if n := len(p.groups); n > 0 {
		return p.groups[n-1]
	}
	return &p.root
}

func (p *PaintEmitter) currentTransform() raster.Transform {
	return p.transforms[len(p.transforms)-1]
}

func (p *PaintEmitter) num(v float64) string { return formatNumber(v, p.Precision, p.Locale) }

// SetExtents adds the box (x0,y0)-(x1,y1) to the union of extents that
// becomes the viewBox.
func (p *PaintEmitter) SetExtents(x0, y0, x1, y1 float64) {
	p.unionBBox(x0, y0, x1, y1)
}

func (p *PaintEmitter) unionBBox(x0, y0, x1, y1 float64) {
	if !p.haveBBox {
		p.minX, p.minY, p.maxX, p.maxY = x0, y0, x1, y1
		p.haveBBox = true
		return
	}
	if x0 < p.minX {
		p.minX = x0
	}
	if y0 < p.minY {
		p.minY = y0
	}
	if x1 > p.maxX {
		p.maxX = x1
	}
	if y1 > p.maxY {
		p.maxY = y1
	}
}

// PushTransform composes t onto the current transform. No group element is
// emitted here; the transform is applied directly to whatever is later
// painted (matching how paint.Engine composes transforms).
func (p *PaintEmitter) PushTransform(t raster.Transform) {
	if len(p.transforms) > maxGroupDepth {
		return
	}
	p.transforms = append(p.transforms, t.Mul(p.currentTransform()))
}

func (p *PaintEmitter) PopTransform() {
	if len(p.transforms) > 1 {
		p.transforms = p.transforms[:len(p.transforms)-1]
	}
}

func (p *PaintEmitter) transformAttr() string {
	t := p.currentTransform()
	if t.IsNearIdentity() {
		return ""
	}
	return fmt.Sprintf(` transform="matrix(%s %s %s %s %s %s)"`,
		p.num(t.XX), p.num(t.YX), p.num(t.XY), p.num(t.YY), p.num(t.X0), p.num(t.Y0))
}

// PushClipGlyph wraps subsequent content in a <g> clipped to gid's outline,
// fetched from face and transformed by the current transform.
func (p *PaintEmitter) PushClipGlyph(face paint.FontFace, gid uint32) {
	var pb pathBuilder
	pb.precision, pb.locale = p.Precision, p.Locale
	sink := transformingSink{dst: &pb, xform: p.currentTransform()}
	face.GetGlyphOutline(gid, sink)
	p.pushClipPath(pb.String())
}

func (p *PaintEmitter) pushClipPath(d string) {
	if p.clipDepth >= maxGroupDepth {
		return
	}
	clipID := p.nextID("clip")
	fmt.Fprintf(&p.defs, `<clipPath id="%s"><path d="%s"/></clipPath>`, clipID, d)
	fmt.Fprintf(p.current(), `<g clip-path="url(#%s)">`, clipID)
	p.clipDepth++
}

// PushClipRectangle wraps subsequent content in a <g> clipped to the
// rectangle (x0,y0)-(x1,y1) in the current transform's user space.
func (p *PaintEmitter) PushClipRectangle(x0, y0, x1, y1 float64) {
	t := p.currentTransform()
	var pb pathBuilder
	pb.precision, pb.locale = p.Precision, p.Locale
	tx0, ty0 := t.Apply(x0, y0)
	tx1, ty1 := t.Apply(x1, y0)
	tx2, ty2 := t.Apply(x1, y1)
	tx3, ty3 := t.Apply(x0, y1)
	pb.MoveTo(tx0, ty0)
	pb.LineTo(tx1, ty1)
	pb.LineTo(tx2, ty2)
	pb.LineTo(tx3, ty3)
	pb.ClosePath()
	p.pushClipPath(pb.String())
}

func (p *PaintEmitter) PopClip() {
	if p.clipDepth == 0 {
		return
	}
	p.current().WriteString(`</g>`)
	p.clipDepth--
}

// PushGroup begins a new text buffer for subsequent paints.
func (p *PaintEmitter) PushGroup() {
	if len(p.groups) >= maxGroupDepth {
		return
	}
	p.groups = append(p.groups, &strings.Builder{})
	p.sawImageInGroup = append(p.sawImageInGroup, false)
}

// PopGroup closes the most recently pushed group, wrapping its content in
// a <g style="mix-blend-mode:..."> when mode maps to a CSS blend mode, or
// a plain <g> otherwise, and appends it to the parent buffer.
func (p *PaintEmitter) PopGroup(mode raster.BlendMode) {
	n := len(p.groups)
	if n == 0 {
		return
	}
	body := p.groups[n-1].String()
	sawImage := p.sawImageInGroup[n-1]
	p.groups = p.groups[:n-1]
	p.sawImageInGroup = p.sawImageInGroup[:n-1]

	dst := p.current()
	if cssName, ok := cssBlendMode(mode); ok {
		fmt.Fprintf(dst, `<g style="mix-blend-mode:%s">`, cssName)
	} else {
		dst.WriteString(`<g>`)
	}
	dst.WriteString(body)
	dst.WriteString(`</g>`)

	if sawImage && len(p.sawImageInGroup) > 0 {
		p.sawImageInGroup[len(p.sawImageInGroup)-1] = true
	}
}

func colorToCSS(c paint.Color) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", clamp255(c.R), clamp255(c.G), clamp255(c.B))
}

func clamp255(v float64) int {
	n := int(v*255 + 0.5)
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}

func (p *PaintEmitter) currentForeground() paint.Color {
	if n := len(p.foregrounds); n > 0 {
		return p.foregrounds[n-1]
	}
	return paint.Color{}
}

// resolveStops resolves every is_foreground stop in line against the
// current foreground.
func (p *PaintEmitter) resolveStops(line paint.ColorLine) []paint.ColorStop {
	fg := p.currentForeground()
	stops := line.Stops()
	out := make([]paint.ColorStop, len(stops))
	for i, s := range stops {
		out[i] = paint.ColorStop{Offset: s.Offset, Color: paint.ResolveColor(s.Color, fg)}
	}
	return out
}

// PaintColor fills the current clip (the SVG emitter approximates this as
// "whatever bounding box the document declares") with a solid color.
func (p *PaintEmitter) PaintColor(c paint.Color, alpha float64) {
	c = paint.ResolveColor(c, p.currentForeground())
	w := p.current()
	w.WriteString(`<rect x="-1e6" y="-1e6" width="2e6" height="2e6"`)
	fmt.Fprintf(w, `%s fill="%s"`, p.transformAttr(), colorToCSS(c))
	a := c.A * alpha
	if a < 1 {
		fmt.Fprintf(w, ` fill-opacity="%s"`, p.num(a))
	}
	w.WriteString(`/>`)
}

func (p *PaintEmitter) gradientStops(w *strings.Builder, stops []paint.ColorStop) {
	for _, s := range stops {
		fmt.Fprintf(w, `<stop offset="%s" stop-color="%s"`, p.num(s.Offset), colorToCSS(s.Color))
		if s.Color.A < 1 {
			fmt.Fprintf(w, ` stop-opacity="%s"`, p.num(s.Color.A))
		}
		w.WriteString(`/>`)
	}
}

func spreadMethod(extend paint.ExtendMode) string {
	switch extend {
	case paint.ExtendRepeat:
		return "repeat"
	case paint.ExtendReflect:
		return "reflect"
	default:
		return "pad"
	}
}

// PaintLinearGradient emits a <linearGradient> def and fills the current
// area with it. (x0,y0)-(x1,y1)-(x2,y2) is the COLRv1 three-anchor axis;
// SVG's <linearGradient> only has a two-point axis, so p1 is first reduced
// via paint.ReduceLinearAxis (p2 rotates the perpendicular for a skewed
// gradient).
func (p *PaintEmitter) PaintLinearGradient(line paint.ColorLine, x0, y0, x1, y1, x2, y2 float64) {
	rx1, ry1 := paint.ReduceLinearAxis(x0, y0, x1, y1, x2, y2)
	id := p.nextID("lg")
	fmt.Fprintf(&p.defs, `<linearGradient id="%s" gradientUnits="userSpaceOnUse" x1="%s" y1="%s" x2="%s" y2="%s" spreadMethod="%s">`,
		id, p.num(x0), p.num(y0), p.num(rx1), p.num(ry1), spreadMethod(line.Extend()))
	p.gradientStops(&p.defs, p.resolveStops(line))
	p.defs.WriteString(`</linearGradient>`)
	p.fillRectWithPaint(id)
}

// PaintRadialGradient emits a <radialGradient> def and fills the current
// area with it.
func (p *PaintEmitter) PaintRadialGradient(line paint.ColorLine, x0, y0, r0, x1, y1, r1 float64) {
	id := p.nextID("rg")
	fmt.Fprintf(&p.defs, `<radialGradient id="%s" gradientUnits="userSpaceOnUse" cx="%s" cy="%s" r="%s" fx="%s" fy="%s" spreadMethod="%s">`,
		id, p.num(x1), p.num(y1), p.num(r1), p.num(x0), p.num(y0), spreadMethod(line.Extend()))
	p.gradientStops(&p.defs, p.resolveStops(line))
	p.defs.WriteString(`</radialGradient>`)
	p.fillRectWithPaint(id)
}

// PaintSweepGradient has no native SVG primitive, so it falls back to a
// flat fill of the gradient's first stop.
func (p *PaintEmitter) PaintSweepGradient(line paint.ColorLine, cx, cy, startAngle, endAngle float64) {
	stops := p.resolveStops(line)
	if len(stops) == 0 {
		return
	}
	p.PaintColor(stops[0].Color, 1)
}

func (p *PaintEmitter) fillRectWithPaint(defID string) {
	w := p.current()
	fmt.Fprintf(w, `<rect x="-1e6" y="-1e6" width="2e6" height="2e6"%s fill="url(#%s)"/>`, p.transformAttr(), defID)
}

// PaintImage inlines img as a base64 PNG <image> element positioned at
// (x, y) in the current transform's user space.
func (p *PaintEmitter) PaintImage(img *raster.Image, x, y float64) {
	uri, ok := imageDataURI(img)
	if !ok {
		return
	}
	ext := img.Extents()
	w := p.current()
	fmt.Fprintf(w, `<image x="%s" y="%s" width="%s" height="%s"%s href="%s"/>`,
		p.num(x), p.num(y), p.num(float64(ext.Width)), p.num(float64(ext.Height)), p.transformAttr(), uri)
	if n := len(p.sawImageInGroup); n > 0 {
		p.sawImageInGroup[n-1] = true
	}
}

// PaintColorGlyph recursively paints a nested color glyph, memoizing the
// rendered subtree keyed on (gid, foreground, paletteHash) so repeated
// uses of the same color glyph reuse a single <defs> entry via <use>.
func (p *PaintEmitter) PaintColorGlyph(face paint.FontFace, gid uint32, palette []paint.Color, foreground paint.Color) bool {
	key := colorGlyphKey{gid: gid, foreground: foreground, paletteHash: hashPalette(palette)}
	if entry, ok := p.defined[key]; ok {
		fmt.Fprintf(p.current(), `<use href="#%s"%s/>`, entry.defID, p.transformAttr())
		return true
	}

	p.foregrounds = append(p.foregrounds, foreground)
	p.PushGroup()
	ok := face.PaintColorGlyph(gid, palette, foreground, p)
	n := len(p.groups)
	body := p.groups[n-1].String()
	sawImage := p.sawImageInGroup[n-1]
	p.groups = p.groups[:n-1]
	p.sawImageInGroup = p.sawImageInGroup[:n-1]
	p.foregrounds = p.foregrounds[:len(p.foregrounds)-1]
	if !ok {
		return false
	}

	defID := p.nextID("cg")
	fmt.Fprintf(&p.defs, `<g id="%s">%s</g>`, defID, body)
	p.defined[key] = colorGlyphEntry{defID: defID, isImageLike: sawImage}
	fmt.Fprintf(p.current(), `<use href="#%s"%s/>`, defID, p.transformAttr())
	return true
}

func hashPalette(palette []paint.Color) uint64 {
	var h uint64 = 1469598103934665603 // FNV-1a offset basis
	mix := func(v float64) {
		h ^= math.Float64bits(v)
		h *= 1099511628211
	}
	for _, c := range palette {
		mix(c.R)
		mix(c.G)
		mix(c.B)
		mix(c.A)
	}
	return h
}

// Render serializes the paint tree into a fresh Blob, reusing the backing
// array of a previously recycled blob when one is available.
func (p *PaintEmitter) Render() *Blob {
	buf := p.recycled.take()
	x, y, w, h := p.viewBox()
	box := [4]string{p.num(x), p.num(y), p.num(w), p.num(h)}
	buf = appendDocument(buf, box, p.defs.String(), p.root.String())
	return NewBlob(buf)
}

// RecycleBlob reclaims b's backing array for the next Render call.
func (p *PaintEmitter) RecycleBlob(b *Blob) { p.recycled.recycle(b) }

func (p *PaintEmitter) viewBox() (x, y, w, h float64) {
	if !p.haveBBox {
		return 0, 0, 0, 0
	}
	w = p.maxX - p.minX
	h = p.maxY - p.minY
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return p.minX, p.minY, w, h
}

var _ paint.PaintFuncs = (*PaintEmitter)(nil)
