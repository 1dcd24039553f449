package tile

import (
	"testing"

	"github.com/harfbuzz/hb-raster-go/internal/fixed"
)

func rectEdges(a *Accumulator, x0, y0, x1, y1 float64) {
	fx0, fy0 := fixed.FromFloat26_6(x0), fixed.FromFloat26_6(y0)
	fx1, fy1 := fixed.FromFloat26_6(x1), fixed.FromFloat26_6(y1)
	a.AddEdge(fx0, fy0, fx0, fy1)
	a.AddEdge(fx0, fy1, fx1, fy1)
	a.AddEdge(fx1, fy1, fx1, fy0)
	a.AddEdge(fx1, fy0, fx0, fy0)
}

func TestFullyCoveredPixelIsOpaque(t *testing.T) {
	a := NewAccumulator(4, 4)
	rectEdges(a, 0, 0, 4, 4)
	dst := make([]byte, 4*4)
	a.Sweep(dst, 4, NonZero)
	for i, v := range dst {
		if v != 255 {
			t.Fatalf("pixel %d: got %d, want 255", i, v)
		}
	}
}

func TestEmptyOutlineIsFullyTransparent(t *testing.T) {
	a := NewAccumulator(4, 4)
	dst := make([]byte, 4*4)
	a.Sweep(dst, 4, NonZero)
	for i, v := range dst {
		if v != 0 {
			t.Fatalf("pixel %d: got %d, want 0", i, v)
		}
	}
}

func TestSpansMultipleTiles(t *testing.T) {
	a := NewAccumulator(32, 32)
	rectEdges(a, 0, 0, 32, 32)
	dst := make([]byte, 32*32)
	a.Sweep(dst, 32, NonZero)
	for i, v := range dst {
		if v != 255 {
			t.Fatalf("pixel %d: got %d, want 255", i, v)
		}
	}
}

func TestEvenOddCancelsDoubleCoveredRegion(t *testing.T) {
	a := NewAccumulator(4, 4)
	rectEdges(a, 0, 0, 4, 4)
	rectEdges(a, 0, 0, 4, 4)
	dst := make([]byte, 4*4)
	a.Sweep(dst, 4, EvenOdd)
	for i, v := range dst {
		if v != 0 {
			t.Fatalf("pixel %d: got %d, want 0 (even-odd)", i, v)
		}
	}
}

func TestResetClearsTileBins(t *testing.T) {
	a := NewAccumulator(4, 4)
	rectEdges(a, 0, 0, 4, 4)
	a.Reset(4, 4)
	dst := make([]byte, 4*4)
	a.Sweep(dst, 4, NonZero)
	for i, v := range dst {
		if v != 0 {
			t.Fatalf("pixel %d after reset: got %d, want 0", i, v)
		}
	}
}
