package raster

import "testing"

func fillBGRA(img *Image, b, g, r, a byte) {
	buf := img.Buffer()
	for i := 0; i+3 < len(buf); i += 4 {
		buf[i], buf[i+1], buf[i+2], buf[i+3] = b, g, r, a
	}
}

func TestCompositeImagesSrcOverOpaque(t *testing.T) {
	dst := NewImage(Extents{Width: 4, Height: 4}, FormatBGRA32)
	src := NewImage(Extents{Width: 4, Height: 4}, FormatBGRA32)
	fillBGRA(dst, 0, 0, 255, 255)
	fillBGRA(src, 255, 0, 0, 255)
	CompositeImages(dst, src, 0, 0, BlendSrcOver)
	buf := dst.Buffer()
	for i := 0; i+3 < len(buf); i += 4 {
		if buf[i] != 255 || buf[i+1] != 0 || buf[i+2] != 0 || buf[i+3] != 255 {
			t.Fatalf("pixel %d: got %v, want opaque blue-channel source", i/4, buf[i:i+4])
		}
	}
}

func TestCompositeImagesClipsPartiallyOffscreenSource(t *testing.T) {
	dst := NewImage(Extents{Width: 4, Height: 4}, FormatBGRA32)
	src := NewImage(Extents{Width: 4, Height: 4}, FormatBGRA32)
	fillBGRA(src, 1, 2, 3, 255)
	CompositeImages(dst, src, 2, 2, BlendSrc)
	buf := dst.Buffer()
	stride := dst.Extents().Stride
	if buf[2*stride+2*4] != 1 {
		t.Fatalf("expected composited pixel at (2,2), got %v", buf[2*stride+8:2*stride+12])
	}
	if buf[0] != 0 {
		t.Fatal("expected pixel (0,0) to remain untouched")
	}
}

func TestCompositeImagesMaskedRespectsClipCoverage(t *testing.T) {
	dst := NewImage(Extents{Width: 4, Height: 4}, FormatBGRA32)
	src := NewImage(Extents{Width: 4, Height: 4}, FormatBGRA32)
	fillBGRA(src, 255, 255, 255, 255)
	clip := NewClipStack(4, 4)
	clip.PushClipRectangle(0, 0, 2, 4, Identity())
	CompositeImagesMasked(dst, src, 0, 0, BlendSrcOver, clip)
	buf := dst.Buffer()
	stride := dst.Extents().Stride
	if buf[0] != 255 {
		t.Fatal("expected pixel inside the clip to be composited")
	}
	if buf[2*4] != 0 {
		t.Fatalf("expected pixel outside the clip to remain untouched, got %v", buf[2*4:2*4+4])
	}
	_ = stride
}
