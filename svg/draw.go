package svg

import (
	"fmt"
	"strings"

	"github.com/harfbuzz/hb-raster-go"
	"golang.org/x/text/language"
)

// DrawEmitter renders a sequence of glyph outlines as an SVG document,
// deduplicating repeated glyphs behind <defs>/<use> unless Flat is set.
type DrawEmitter struct {
	Precision int
	Locale    language.Tag
	Flat      bool

	defs strings.Builder
	body strings.Builder

	definedGlyphs map[uint32]bool

	haveBBox               bool
	minX, minY, maxX, maxY float64

	pb pathBuilder

	recycled recycledBlob
}

// NewDrawEmitter returns a DrawEmitter with default precision (2) and
// locale (und), outline reuse enabled.
func NewDrawEmitter() *DrawEmitter {
	return &DrawEmitter{
		Precision:     defaultPrecision,
		definedGlyphs: make(map[uint32]bool),
	}
}

// Reset discards every emitted glyph and extent, returning the emitter to
// its just-constructed state (preserving Precision/Locale/Flat).
func (d *DrawEmitter) Reset() {
	d.defs.Reset()
	d.body.Reset()
	d.definedGlyphs = make(map[uint32]bool)
	d.haveBBox = false
	d.minX, d.minY, d.maxX, d.maxY = 0, 0, 0, 0
}

// transformedBBox returns the axis-aligned bounding box of the rectangle
// (minX,minY)-(maxX,maxY) after transforming all four corners by xform, so
// a rotating transform doesn't understate the result.
func transformedBBox(xform raster.Transform, minX, minY, maxX, maxY float64) (x0, y0, x1, y1 float64) {
	corners := [4][2]float64{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY},
	}
	for i, c := range corners {
		cx, cy := xform.Apply(c[0], c[1])
		if i == 0 {
			x0, y0, x1, y1 = cx, cy, cx, cy
			continue
		}
		if cx < x0 {
			x0 = cx
		}
		if cx > x1 {
			x1 = cx
		}
		if cy < y0 {
			y0 = cy
		}
		if cy > y1 {
			y1 = cy
		}
	}
	return x0, y0, x1, y1
}

func (d *DrawEmitter) unionBBox(x0, y0, x1, y1 float64) {
	if !d.haveBBox {
		d.minX, d.minY, d.maxX, d.maxY = x0, y0, x1, y1
		d.haveBBox = true
		return
	}
	if x0 < d.minX {
		d.minX = x0
	}
	if y0 < d.minY {
		d.minY = y0
	}
	if x1 > d.maxX {
		d.maxX = x1
	}
	if y1 > d.maxY {
		d.maxY = y1
	}
}

// SetExtents adds the box (x0,y0)-(x1,y1) to the union of extents that
// becomes the viewBox; glyphs drawn before or after still extend it.
func (d *DrawEmitter) SetExtents(x0, y0, x1, y1 float64) {
	d.unionBBox(x0, y0, x1, y1)
}

// DrawGlyph feeds gid's outline (via feed, in glyph-local units) into the
// document at xform. The first call for a given gid defines the outline
// once in <defs>; subsequent calls reuse it with <use>. In Flat mode every
// call inlines a fresh <path>.
func (d *DrawEmitter) DrawGlyph(gid uint32, xform raster.Transform, feed func(sink raster.DrawFuncs)) {
	d.pb = pathBuilder{precision: d.Precision, locale: d.Locale}
	feed(&d.pb)

	if d.pb.haveBBox {
		d.unionBBox(transformedBBox(xform, d.pb.minX, d.pb.minY, d.pb.maxX, d.pb.maxY))
	}

	if d.Flat || !d.definedGlyphs[gid] {
		if !d.Flat {
			d.definedGlyphs[gid] = true
			fmt.Fprintf(&d.defs, `<path id="p%d" d="%s"/>`, gid, d.pb.String())
			d.writeUse(gid, xform)
			return
		}
		d.body.WriteString(`<path`)
		d.writeTransformAttr(&d.body, xform)
		fmt.Fprintf(&d.body, ` d="%s"/>`, d.pb.String())
		return
	}
	d.writeUse(gid, xform)
}

func (d *DrawEmitter) writeUse(gid uint32, xform raster.Transform) {
	fmt.Fprintf(&d.body, `<use href="#p%d"`, gid)
	d.writeTransformAttr(&d.body, xform)
	d.body.WriteString(`/>`)
}

func (d *DrawEmitter) writeTransformAttr(w *strings.Builder, xform raster.Transform) {
	if xform.IsNearIdentity() {
		return
	}
	fmt.Fprintf(w, ` transform="matrix(%s %s %s %s %s %s)"`,
		formatNumber(xform.XX, d.Precision, d.Locale), formatNumber(xform.YX, d.Precision, d.Locale),
		formatNumber(xform.XY, d.Precision, d.Locale), formatNumber(xform.YY, d.Precision, d.Locale),
		formatNumber(xform.X0, d.Precision, d.Locale), formatNumber(xform.Y0, d.Precision, d.Locale))
}

// Render serializes the document into a fresh Blob, reusing the backing
// array of a previously recycled blob when one is available.
func (d *DrawEmitter) Render() *Blob {
	buf := d.recycled.take()
	x, y, w, h := d.viewBox()
	box := [4]string{
		formatNumber(x, d.Precision, d.Locale), formatNumber(y, d.Precision, d.Locale),
		formatNumber(w, d.Precision, d.Locale), formatNumber(h, d.Precision, d.Locale),
	}
	buf = appendDocument(buf, box, d.defs.String(), d.body.String())
	return NewBlob(buf)
}

// RecycleBlob reclaims b's backing array for the next Render call. b must
// not be used again afterward.
func (d *DrawEmitter) RecycleBlob(b *Blob) { d.recycled.recycle(b) }

func (d *DrawEmitter) viewBox() (x, y, w, h float64) {
	if !d.haveBBox {
		return 0, 0, 0, 0
	}
	w = d.maxX - d.minX
	h = d.maxY - d.minY
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return d.minX, d.minY, w, h
}

func appendDocument(buf []byte, viewBox [4]string, defs, body string) []byte {
	buf = fmt.Appendf(buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="%s %s %s %s" width="%s" height="%s">`,
		viewBox[0], viewBox[1], viewBox[2], viewBox[3], viewBox[2], viewBox[3])
	if defs != "" {
		buf = append(buf, `<defs>`...)
		buf = append(buf, defs...)
		buf = append(buf, `</defs>`...)
	}
	buf = append(buf, body...)
	buf = append(buf, `</svg>`...)
	return buf
}
