package raster

import "testing"

func rasterizeRect(t *testing.T, backend Backend, x0, y0, x1, y1 float64, w, h int) *Image {
	t.Helper()
	img := NewImage(Extents{Width: w, Height: h}, FormatA8)
	if img == nil {
		t.Fatal("NewImage returned nil")
	}
	r := NewRasterizer()
	r.SetBackend(backend)
	sink := r.GetFuncs()
	sink.MoveTo(x0, y0)
	sink.LineTo(x1, y0)
	sink.LineTo(x1, y1)
	sink.LineTo(x0, y1)
	sink.ClosePath()
	if err := r.Render(img); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return img
}

func TestSweepBackendFullyCoveredRectangle(t *testing.T) {
	img := rasterizeRect(t, BackendSweep, 0, 0, 4, 4, 4, 4)
	for _, v := range img.Buffer() {
		if v != 255 {
			t.Fatalf("got %d, want 255", v)
		}
	}
}

func TestTileBackendFullyCoveredRectangle(t *testing.T) {
	img := rasterizeRect(t, BackendTile, 0, 0, 4, 4, 4, 4)
	for _, v := range img.Buffer() {
		if v != 255 {
			t.Fatalf("got %d, want 255", v)
		}
	}
}

func TestRenderWithScaleTransform(t *testing.T) {
	img := NewImage(Extents{Width: 4, Height: 4}, FormatA8)
	r := NewRasterizer()
	r.SetTransform(Scale(2, 2))
	sink := r.GetFuncs()
	sink.MoveTo(0, 0)
	sink.LineTo(2, 0)
	sink.LineTo(2, 2)
	sink.LineTo(0, 2)
	sink.ClosePath()
	if err := r.Render(img); err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, v := range img.Buffer() {
		if v != 255 {
			t.Fatalf("got %d, want 255 after 2x scale covering full 4x4 target", v)
		}
	}
}

func TestRenderRejectsNonA8Image(t *testing.T) {
	img := NewImage(Extents{Width: 4, Height: 4}, FormatBGRA32)
	r := NewRasterizer()
	if err := r.Render(img); err == nil {
		t.Fatal("expected error rendering into a non-A8 image")
	}
}

func TestRenderRejectsNilImage(t *testing.T) {
	r := NewRasterizer()
	if err := r.Render(nil); err == nil {
		t.Fatal("expected error rendering into a nil image")
	}
}

func TestResetClearsBoundsAndOutline(t *testing.T) {
	r := NewRasterizer()
	sink := r.GetFuncs()
	sink.MoveTo(0, 0)
	sink.LineTo(4, 4)
	if _, _, _, _, ok := r.Bounds(); !ok {
		t.Fatal("expected bounds to be known before Reset")
	}
	r.Reset()
	if _, _, _, _, ok := r.Bounds(); ok {
		t.Fatal("expected bounds to be unknown after Reset")
	}
}

func TestRenderAutoComputesRectangleExtents(t *testing.T) {
	r := NewRasterizer()
	sink := r.GetFuncs()
	sink.MoveTo(2, 2)
	sink.LineTo(30, 2)
	sink.LineTo(30, 30)
	sink.LineTo(2, 30)
	sink.ClosePath()

	img, err := r.RenderAuto()
	if err != nil {
		t.Fatalf("RenderAuto: %v", err)
	}
	ext := img.Extents()
	if ext.X != 2 || ext.Y != 2 || ext.Width != 28 || ext.Height != 28 {
		t.Fatalf("got extents (%d,%d,%d,%d), want (2,2,28,28)", ext.X, ext.Y, ext.Width, ext.Height)
	}
}

func TestRenderAutoAccumulatesAcrossSubpaths(t *testing.T) {
	r := NewRasterizer()
	sink := r.GetFuncs()
	sink.MoveTo(0, 0)
	sink.LineTo(10, 0)
	sink.LineTo(10, 10)
	sink.LineTo(0, 10)
	sink.ClosePath()
	sink.MoveTo(20, 0)
	sink.LineTo(30, 0)
	sink.LineTo(30, 10)
	sink.LineTo(20, 10)
	sink.ClosePath()

	img, err := r.RenderAuto()
	if err != nil {
		t.Fatalf("RenderAuto: %v", err)
	}
	ext := img.Extents()
	if ext.X != 0 || ext.Y != 0 || ext.Width != 30 || ext.Height != 10 {
		t.Fatalf("got extents (%d,%d,%d,%d), want (0,0,30,10)", ext.X, ext.Y, ext.Width, ext.Height)
	}
}

func TestRenderAutoWithScaleTransform(t *testing.T) {
	r := NewRasterizer()
	r.SetTransform(Scale(2, 2))
	sink := r.GetFuncs()
	sink.MoveTo(0, 0)
	sink.LineTo(10, 0)
	sink.LineTo(10, 10)
	sink.LineTo(0, 10)
	sink.ClosePath()

	img, err := r.RenderAuto()
	if err != nil {
		t.Fatalf("RenderAuto: %v", err)
	}
	ext := img.Extents()
	if ext.X != 0 || ext.Y != 0 || ext.Width != 20 || ext.Height != 20 {
		t.Fatalf("got extents (%d,%d,%d,%d), want (0,0,20,20)", ext.X, ext.Y, ext.Width, ext.Height)
	}
	for _, v := range img.Buffer() {
		if v != 255 {
			t.Fatalf("got %d, want 255 after 2x scale fully covering auto-sized image", v)
		}
	}
}

func TestSetExtentsOverridesAutoComputation(t *testing.T) {
	r := NewRasterizer()
	r.SetExtents(Extents{X: 0, Y: 0, Width: 4, Height: 4})
	sink := r.GetFuncs()
	sink.MoveTo(0, 0)
	sink.LineTo(100, 0)
	sink.LineTo(100, 100)
	sink.LineTo(0, 100)
	sink.ClosePath()

	img, err := r.RenderAuto()
	if err != nil {
		t.Fatalf("RenderAuto: %v", err)
	}
	ext := img.Extents()
	if ext.Width != 4 || ext.Height != 4 {
		t.Fatalf("got extents width/height (%d,%d), want the fixed (4,4)", ext.Width, ext.Height)
	}
	if _, ok := r.GetExtents(); ok {
		t.Fatal("expected the fixed-extents flag to be cleared after RenderAuto")
	}
}

func TestRenderAutoWithNoOutlineProducesEmptyExtents(t *testing.T) {
	r := NewRasterizer()
	img, err := r.RenderAuto()
	if err != nil {
		t.Fatalf("RenderAuto: %v", err)
	}
	ext := img.Extents()
	if ext.Width != 0 || ext.Height != 0 {
		t.Fatalf("got extents width/height (%d,%d), want (0,0) for an empty outline", ext.Width, ext.Height)
	}
}

func TestRecycledImageReusesAllocation(t *testing.T) {
	r := NewRasterizer()
	img := r.NewRecycledImage(Extents{Width: 4, Height: 4}, FormatA8)
	buf := img.Buffer()
	r.RecycleImage(img)
	img2 := r.NewRecycledImage(Extents{Width: 4, Height: 4}, FormatA8)
	if cap(img2.Buffer()) != cap(buf) {
		t.Fatal("expected recycled image to reuse its backing buffer's capacity")
	}
}
