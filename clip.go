package raster

import (
	"math"

	"github.com/harfbuzz/hb-raster-go/internal/clip"
)

// ClipStack composes axis-aligned rectangle clips and arbitrary-shape mask
// clips (typically glyph outlines) into a single coverage test, used by the
// paint engine to restrict where a paint operation is visible.
type ClipStack struct {
	stack      *clip.Stack
	raster     *Rasterizer
	maskImages []*Image // parallel to stack entries; nil for rect pushes
}

// NewClipStack returns a ClipStack whose base clip is the full
// width x height render target.
func NewClipStack(width, height int) *ClipStack {
	return &ClipStack{
		stack:  clip.NewStack(clip.Rect{X0: 0, Y0: 0, X1: float64(width), Y1: float64(height)}),
		raster: NewRasterizer(),
	}
}

// Reset discards every pushed clip and resets the base clip rectangle to
// width x height.
func (c *ClipStack) Reset(width, height int) {
	c.stack.Reset(clip.Rect{X0: 0, Y0: 0, X1: float64(width), Y1: float64(height)})
	c.maskImages = c.maskImages[:0]
}

// Depth returns the number of entries currently pushed.
func (c *ClipStack) Depth() int { return c.stack.Depth() }

// Coverage returns the composed clip coverage at device point (x, y), in
// [0,255].
func (c *ClipStack) Coverage(x, y float64) byte { return c.stack.Coverage(x, y) }

// Bounds returns the tight axis-aligned bounding rectangle of the current
// clip, as (x0, y0, x1, y1).
func (c *ClipStack) Bounds() (x0, y0, x1, y1 float64) {
	b := c.stack.Bounds()
	return b.X0, b.Y0, b.X1, b.Y1
}

// PushClipRectangle intersects the clip with the rectangle (x0,y0)-(x1,y1)
// in user space, transformed by xform. When xform has no rotation or shear
// the result is exactly another axis-aligned rectangle; otherwise the
// rotated quad is rasterized into a mask.
func (c *ClipStack) PushClipRectangle(x0, y0, x1, y1 float64, xform Transform) {
	if xform.IsAxisAligned() {
		tx0, ty0 := xform.Apply(x0, y0)
		tx1, ty1 := xform.Apply(x1, y1)
		if tx0 > tx1 {
			tx0, tx1 = tx1, tx0
		}
		if ty0 > ty1 {
			ty0, ty1 = ty1, ty0
		}
		c.stack.PushRect(clip.Rect{X0: tx0, Y0: ty0, X1: tx1, Y1: ty1})
		c.maskImages = append(c.maskImages, nil)
		return
	}

	c.pushQuadMask(
		func(sink DrawFuncs) {
			sink.MoveTo(x0, y0)
			sink.LineTo(x1, y0)
			sink.LineTo(x1, y1)
			sink.LineTo(x0, y1)
			sink.ClosePath()
		},
		xform,
	)
}

// PushClipGlyph intersects the clip with the coverage mask of the outline
// fed into sink by feed, transformed by xform. feed is typically a glyph's
// GetGlyphOutline callback from a font face.
func (c *ClipStack) PushClipGlyph(feed func(sink DrawFuncs), xform Transform) {
	c.pushQuadMask(feed, xform)
}

func (c *ClipStack) pushQuadMask(feed func(sink DrawFuncs), xform Transform) {
	b := c.stack.Bounds()
	if b.IsEmpty() {
		c.stack.PushRect(clip.Rect{})
		c.maskImages = append(c.maskImages, nil)
		return
	}
	x0 := int(math.Floor(b.X0))
	y0 := int(math.Floor(b.Y0))
	w := int(math.Ceil(b.X1)) - x0
	h := int(math.Ceil(b.Y1)) - y0
	if w <= 0 || h <= 0 {
		c.stack.PushRect(clip.Rect{})
		c.maskImages = append(c.maskImages, nil)
		return
	}

	img := c.raster.NewRecycledImage(Extents{X: x0, Y: y0, Width: w, Height: h}, FormatA8)
	c.raster.Reset()
	c.raster.SetTransform(xform)
	feed(c.raster.GetFuncs())
	if err := c.raster.Render(img); err != nil {
		c.raster.RecycleImage(img)
		c.stack.PushRect(clip.Rect{})
		c.maskImages = append(c.maskImages, nil)
		return
	}

	ext := img.Extents()
	c.stack.PushMask(&clip.Mask{X: ext.X, Y: ext.Y, Width: ext.Width, Height: ext.Height, Stride: ext.Stride, Alpha: img.Buffer()})
	c.maskImages = append(c.maskImages, img)
}

// PopClip removes the most recently pushed clip entry, recycling any mask
// image it had allocated.
func (c *ClipStack) PopClip() {
	n := len(c.maskImages)
	if n == 0 {
		return
	}
	if img := c.maskImages[n-1]; img != nil {
		c.raster.RecycleImage(img)
	}
	c.maskImages = c.maskImages[:n-1]
	c.stack.Pop()
}
