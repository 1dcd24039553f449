package raster

import "github.com/harfbuzz/hb-raster-go/internal/blend"

// BlendMode names a Porter-Duff operator or PDF/SVG blend mode usable by
// CompositeImages and the paint engine's group compositing.
type BlendMode = blend.Mode

const (
	BlendClear      = blend.Clear
	BlendSrc        = blend.Src
	BlendDst        = blend.Dst
	BlendSrcOver    = blend.SrcOver
	BlendDstOver    = blend.DstOver
	BlendSrcIn      = blend.SrcIn
	BlendDstIn      = blend.DstIn
	BlendSrcOut     = blend.SrcOut
	BlendDstOut     = blend.DstOut
	BlendSrcAtop    = blend.SrcAtop
	BlendDstAtop    = blend.DstAtop
	BlendXor        = blend.Xor
	BlendPlus       = blend.Plus
	BlendModulate   = blend.Modulate
	BlendMultiply   = blend.Multiply
	BlendScreen     = blend.Screen
	BlendOverlay    = blend.Overlay
	BlendDarken     = blend.Darken
	BlendLighten    = blend.Lighten
	BlendColorDodge = blend.ColorDodge
	BlendColorBurn  = blend.ColorBurn
	BlendHardLight  = blend.HardLight
	BlendSoftLight  = blend.SoftLight
	BlendDifference = blend.Difference
	BlendExclusion  = blend.Exclusion
	BlendHue        = blend.Hue
	BlendSaturation = blend.Saturation
	BlendColor      = blend.Color
	BlendLuminosity = blend.Luminosity
)

// CompositeImages blends src over dst in place using mode, at device
// offset (dx, dy) within dst. Both images must be FormatBGRA32. Pixels of
// src that fall outside dst's extents are silently clipped.
func CompositeImages(dst, src *Image, dx, dy int, mode BlendMode) {
	if dst == nil || src == nil || dst.Format() != FormatBGRA32 || src.Format() != FormatBGRA32 {
		return
	}
	de := dst.Extents()
	se := src.Extents()
	for y := 0; y < se.Height; y++ {
		ty := dy + y
		if ty < 0 || ty >= de.Height {
			continue
		}
		x0, n := clipRow(dx, se.Width, de.Width)
		if n <= 0 {
			continue
		}
		srcRow := src.row(y)[(x0-dx)*4:]
		dstRow := dst.row(ty)[x0*4:]
		blend.CompositeRow(dstRow, srcRow, n, mode)
	}
}

// CompositeImagesMasked is CompositeImages with each row's contribution
// additionally weighted by a clip stack's per-pixel coverage.
func CompositeImagesMasked(dst, src *Image, dx, dy int, mode BlendMode, clip *ClipStack) {
	if dst == nil || src == nil || clip == nil || dst.Format() != FormatBGRA32 || src.Format() != FormatBGRA32 {
		return
	}
	de := dst.Extents()
	se := src.Extents()
	maskRow := make([]byte, se.Width)
	for y := 0; y < se.Height; y++ {
		ty := dy + y
		if ty < 0 || ty >= de.Height {
			continue
		}
		x0, n := clipRow(dx, se.Width, de.Width)
		if n <= 0 {
			continue
		}
		for i := 0; i < n; i++ {
			maskRow[i] = clip.Coverage(float64(x0+i), float64(ty))
		}
		srcRow := src.row(y)[(x0-dx)*4:]
		dstRow := dst.row(ty)[x0*4:]
		blend.CompositeRowMasked(dstRow, srcRow, maskRow[:n], n, mode)
	}
}

// CompositePixel blends one premultiplied BGRA pixel (r,g,b,a) over dst at
// (x, y) using mode. Out-of-bounds coordinates are a no-op. It is the
// building block the paint engine uses for solid-color fills and gradient
// evaluation, where each pixel's color and coverage differ.
func CompositePixel(dst *Image, x, y int, r, g, b, a byte, mode BlendMode) {
	if dst == nil || dst.Format() != FormatBGRA32 {
		return
	}
	ext := dst.Extents()
	if x < 0 || y < 0 || x >= ext.Width || y >= ext.Height {
		return
	}
	row := dst.row(y)[x*4 : x*4+4]
	fn := blend.GetFunc(mode)
	rr, rg, rb, ra := fn(r, g, b, a, row[2], row[1], row[0], row[3])
	row[0], row[1], row[2], row[3] = rb, rg, rr, ra
}

// clipRow returns the visible [x0, x0+n) range of a source row placed at
// device x offset dx, against a destination of width dstWidth.
func clipRow(dx, srcWidth, dstWidth int) (x0, n int) {
	x0 = dx
	x1 := dx + srcWidth
	if x0 < 0 {
		x0 = 0
	}
	if x1 > dstWidth {
		x1 = dstWidth
	}
	return x0, x1 - x0
}
