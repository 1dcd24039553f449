package paint

import (
	"testing"

	"github.com/harfbuzz/hb-raster-go"
)

func pixelAt(img *raster.Image, x, y int) (b, g, r, a byte) {
	ext := img.Extents()
	buf := img.Buffer()
	o := y*ext.Stride + x*4
	return buf[o], buf[o+1], buf[o+2], buf[o+3]
}

func setPixelAt(img *raster.Image, x, y int, b, g, r, a byte) {
	ext := img.Extents()
	buf := img.Buffer()
	o := y*ext.Stride + x*4
	buf[o], buf[o+1], buf[o+2], buf[o+3] = b, g, r, a
}

func TestPaintColorFillsCanvas(t *testing.T) {
	e := NewEngine(4, 4)
	e.PaintColor(Color{R: 1, G: 0, B: 0, A: 1}, 1)
	b, g, r, a := pixelAt(e.Result(), 2, 2)
	if r != 255 || g != 0 || b != 0 || a != 255 {
		t.Fatalf("got (%d,%d,%d,%d), want opaque red", r, g, b, a)
	}
}

func TestPaintColorRespectsClipRectangle(t *testing.T) {
	e := NewEngine(10, 10)
	e.PushClipRectangle(0, 0, 5, 10)
	e.PaintColor(Color{R: 1, G: 1, B: 1, A: 1}, 1)
	e.PopClip()
	_, _, _, a := pixelAt(e.Result(), 2, 2)
	if a != 255 {
		t.Fatal("expected pixel inside the clip to be painted")
	}
	_, _, _, a = pixelAt(e.Result(), 8, 2)
	if a != 0 {
		t.Fatal("expected pixel outside the clip to remain untouched")
	}
}

func TestPaintLinearGradientEndpointsMatchStops(t *testing.T) {
	e := NewEngine(10, 1)
	line := NewColorLine([]ColorStop{
		{Offset: 0, Color: Color{R: 0, G: 0, B: 0, A: 1}},
		{Offset: 1, Color: Color{R: 1, G: 1, B: 1, A: 1}},
	}, ExtendPad)
	e.PaintLinearGradient(line, 0, 0, 10, 0, 0, 0)
	_, _, r0, _ := pixelAt(e.Result(), 0, 0)
	_, _, r9, _ := pixelAt(e.Result(), 9, 0)
	if r0 > 30 {
		t.Fatalf("left edge should be near black, got r=%d", r0)
	}
	if r9 < 225 {
		t.Fatalf("right edge should be near white, got r=%d", r9)
	}
}

type isForegroundStubFace struct{}

func (isForegroundStubFace) GetGlyphOutline(gid uint32, sink raster.DrawFuncs) {}

// PaintColorGlyph ignores the foreground argument it's handed and instead
// paints an is_foreground-flagged solid color, exercising the engine's own
// foreground substitution rather than the caller just re-painting the
// value it was given.
func (isForegroundStubFace) PaintColorGlyph(gid uint32, palette []Color, foreground Color, funcs PaintFuncs) bool {
	funcs.PaintColor(Color{IsForeground: true, A: 1}, 1)
	return true
}

func TestPaintColorSubstitutesForeground(t *testing.T) {
	e := NewEngine(4, 4)
	ok := e.PaintColorGlyph(isForegroundStubFace{}, 1, nil, Color{R: 1, A: 1})
	if !ok {
		t.Fatal("expected PaintColorGlyph to delegate to the face")
	}
	b, g, r, a := pixelAt(e.Result(), 0, 0)
	if r != 255 || g != 0 || b != 0 || a != 255 {
		t.Fatalf("got (%d,%d,%d,%d), want opaque red from the substituted foreground", r, g, b, a)
	}
}

func TestPaintColorForegroundAlphaMultipliesOriginalAlpha(t *testing.T) {
	e := NewEngine(4, 4)
	e.foregrounds = append(e.foregrounds, Color{R: 1, A: 0.5})
	e.PaintColor(Color{IsForeground: true, A: 0.5}, 1)
	_, _, r, a := pixelAt(e.Result(), 0, 0)
	if a != 64 {
		t.Fatalf("got alpha=%d, want ~64 (0.5*0.5 premultiplied), got r=%d", a, r)
	}
}

func TestPaintLinearGradientThreeAnchorProjection(t *testing.T) {
	e := NewEngine(10, 1)
	line := NewColorLine([]ColorStop{
		{Offset: 0, Color: Color{R: 0, G: 0, B: 0, A: 1}},
		{Offset: 1, Color: Color{R: 1, G: 1, B: 1, A: 1}},
	}, ExtendPad)
	// A diagonal (0,0)-(10,10) axis with a third anchor at (0,1) reduces
	// to the horizontal (0,0)-(10,0) axis: p2-p0=(0,1), its perpendicular
	// is (-1,0), and projecting p1=(10,10) onto that perpendicular yields
	// p1'=(10,0).
	e.PaintLinearGradient(line, 0, 0, 10, 10, 0, 1)
	_, _, r0, _ := pixelAt(e.Result(), 0, 0)
	_, _, r9, _ := pixelAt(e.Result(), 9, 0)
	if r0 > 30 {
		t.Fatalf("left edge should be near black after axis reduction, got r=%d", r0)
	}
	if r9 < 225 {
		t.Fatalf("right edge should be near white after axis reduction, got r=%d", r9)
	}
}

func TestPushGroupPopGroupCompositesOntoParent(t *testing.T) {
	e := NewEngine(4, 4)
	e.PaintColor(Color{R: 0, G: 0, B: 1, A: 1}, 1)
	e.PushGroup()
	e.PaintColor(Color{R: 1, G: 0, B: 0, A: 1}, 1)
	e.PopGroup(raster.BlendSrcOver)
	b, g, r, a := pixelAt(e.Result(), 0, 0)
	if r != 255 || g != 0 || b != 0 || a != 255 {
		t.Fatalf("got (%d,%d,%d,%d), want the group's opaque red to win", r, g, b, a)
	}
}

func TestPushTransformAffectsGradientSampling(t *testing.T) {
	e := NewEngine(10, 1)
	line := NewColorLine([]ColorStop{
		{Offset: 0, Color: Color{R: 0, G: 0, B: 0, A: 1}},
		{Offset: 1, Color: Color{R: 1, G: 1, B: 1, A: 1}},
	}, ExtendPad)
	e.PushTransform(raster.Scale(2, 1))
	e.PaintLinearGradient(line, 0, 0, 5, 0, 0, 0)
	e.PopTransform()
	_, _, r9, _ := pixelAt(e.Result(), 9, 0)
	if r9 < 225 {
		t.Fatalf("expected the 2x scale to stretch the gradient across the canvas, got r=%d", r9)
	}
}

func TestPaintImagePlacesAtUntransformedOrigin(t *testing.T) {
	e := NewEngine(4, 4)
	img := raster.NewImage(raster.Extents{Width: 2, Height: 2}, raster.FormatBGRA32)
	setPixelAt(img, 0, 0, 0, 0, 255, 255) // opaque red
	setPixelAt(img, 1, 1, 255, 0, 0, 255) // opaque blue

	e.PaintImage(img, 0, 0)

	_, _, r, _ := pixelAt(e.Result(), 0, 0)
	if r != 255 {
		t.Fatalf("expected the image's (0,0) texel to land on canvas (0,0), got r=%d", r)
	}
	b, _, _, _ := pixelAt(e.Result(), 1, 1)
	if b != 255 {
		t.Fatalf("expected the image's (1,1) texel to land on canvas (1,1), got b=%d", b)
	}
	_, _, _, a := pixelAt(e.Result(), 3, 3)
	if a != 0 {
		t.Fatal("expected pixels outside the 2x2 image to remain untouched")
	}
}

func TestPaintImageRespectsCurrentTransform(t *testing.T) {
	e := NewEngine(4, 4)
	img := raster.NewImage(raster.Extents{Width: 2, Height: 2}, raster.FormatBGRA32)
	setPixelAt(img, 0, 0, 0, 0, 255, 255) // red
	setPixelAt(img, 1, 0, 0, 255, 0, 255) // green
	setPixelAt(img, 0, 1, 255, 0, 0, 255) // blue
	setPixelAt(img, 1, 1, 255, 255, 255, 255) // white

	e.PushTransform(raster.Scale(2, 2))
	e.PaintImage(img, 0, 0)
	e.PopTransform()

	// A 2x scale stretches each 1x1 texel to a 2x2 device block; sampling
	// must inverse-map each destination pixel rather than pasting the
	// untransformed image at a truncated integer offset.
	_, _, r, _ := pixelAt(e.Result(), 0, 0)
	if r != 255 {
		t.Fatalf("expected the scaled-up red texel at device (0,0), got r=%d", r)
	}
	_, g, _, _ := pixelAt(e.Result(), 3, 0)
	if g != 255 {
		t.Fatalf("expected the scaled-up green texel at device (3,0), got g=%d", g)
	}
	b, _, _, _ := pixelAt(e.Result(), 0, 3)
	if b != 255 {
		t.Fatalf("expected the scaled-up blue texel at device (0,3), got b=%d", b)
	}
	b, g, r, a := pixelAt(e.Result(), 3, 3)
	if r != 255 || g != 255 || b != 255 || a != 255 {
		t.Fatalf("expected the scaled-up white texel at device (3,3), got (%d,%d,%d,%d)", b, g, r, a)
	}
}

type stubFace struct {
	paintCalls int
}

func (s *stubFace) GetGlyphOutline(gid uint32, sink raster.DrawFuncs) {
	sink.MoveTo(0, 0)
	sink.LineTo(1, 0)
	sink.LineTo(1, 1)
	sink.LineTo(0, 1)
	sink.ClosePath()
}

func (s *stubFace) PaintColorGlyph(gid uint32, palette []Color, foreground Color, funcs PaintFuncs) bool {
	s.paintCalls++
	funcs.PaintColor(foreground, 1)
	return true
}

func TestPaintColorGlyphDelegatesToFace(t *testing.T) {
	e := NewEngine(4, 4)
	face := &stubFace{}
	ok := e.PaintColorGlyph(face, 1, nil, Color{R: 0, G: 1, B: 0, A: 1})
	if !ok || face.paintCalls != 1 {
		t.Fatal("expected PaintColorGlyph to delegate once to the face")
	}
	_, g, _, _ := pixelAt(e.Result(), 0, 0)
	if g != 255 {
		t.Fatal("expected the face's paint call to reach the canvas")
	}
}

type recursiveFace struct{ depth int }

func (f *recursiveFace) GetGlyphOutline(gid uint32, sink raster.DrawFuncs) {}

func (f *recursiveFace) PaintColorGlyph(gid uint32, palette []Color, foreground Color, funcs PaintFuncs) bool {
	f.depth++
	return funcs.PaintColorGlyph(f, gid, palette, foreground)
}

func TestPaintColorGlyphRecursionIsBounded(t *testing.T) {
	e := NewEngine(4, 4)
	face := &recursiveFace{}
	e.PaintColorGlyph(face, 1, nil, Color{R: 1, G: 1, B: 1, A: 1})
	if face.depth > maxColorGlyphDepth {
		t.Fatalf("recursion exceeded the bound: depth=%d", face.depth)
	}
}
