package blend

import "math"

// lumR, lumG, lumB are the Rec. 601 luma coefficients PDF 1.7 §7.2.6
// specifies for the Lum() used by the non-separable HSL blend modes.
const (
	lumR = 0.299
	lumG = 0.587
	lumB = 0.114
)

func lum(c [3]float64) float64 {
	return lumR*c[0] + lumG*c[1] + lumB*c[2]
}

func clipColor(c [3]float64) [3]float64 {
	l := lum(c)
	n := math.Min(c[0], math.Min(c[1], c[2]))
	x := math.Max(c[0], math.Max(c[1], c[2]))
	if n < 0 {
		for i := range c {
			c[i] = l + (c[i]-l)*l/(l-n)
		}
	}
	if x > 1 {
		for i := range c {
			c[i] = l + (c[i]-l)*(1-l)/(x-l)
		}
	}
	return c
}

func setLum(c [3]float64, l float64) [3]float64 {
	d := l - lum(c)
	c[0] += d
	c[1] += d
	c[2] += d
	return clipColor(c)
}

func sat(c [3]float64) float64 {
	return math.Max(c[0], math.Max(c[1], c[2])) - math.Min(c[0], math.Min(c[1], c[2]))
}

// setSat sets c's saturation to s while preserving its ordering, per the
// PDF SetSat pseudocode: scale the mid and max channels relative to the
// min/max spread, leaving the min and max channels at 0 and s.
func setSat(c [3]float64, s float64) [3]float64 {
	type idxVal struct {
		i int
		v float64
	}
	vs := [3]idxVal{{0, c[0]}, {1, c[1]}, {2, c[2]}}
	if vs[0].v > vs[1].v {
		vs[0], vs[1] = vs[1], vs[0]
	}
	if vs[1].v > vs[2].v {
		vs[1], vs[2] = vs[2], vs[1]
	}
	if vs[0].v > vs[1].v {
		vs[0], vs[1] = vs[1], vs[0]
	}
	var out [3]float64
	if vs[2].v > vs[0].v {
		out[vs[1].i] = (vs[1].v - vs[0].v) * s / (vs[2].v - vs[0].v)
		out[vs[2].i] = s
	}
	out[vs[0].i] = 0
	return out
}

func hslBlendHue(cb, cs [3]float64) [3]float64 {
	return setLum(setSat(cs, sat(cb)), lum(cb))
}

func hslBlendSaturation(cb, cs [3]float64) [3]float64 {
	return setLum(setSat(cb, sat(cs)), lum(cb))
}

func hslBlendColor(cb, cs [3]float64) [3]float64 {
	return setLum(cs, lum(cb))
}

func hslBlendLuminosity(cb, cs [3]float64) [3]float64 {
	return setLum(cb, lum(cs))
}

type vecFunc func(cb, cs [3]float64) [3]float64

// nonSeparable lifts a 3-channel HSL blend function to a full premultiplied
// PixelFunc, using the same compositing formula as separable but computing
// all three channels together since Hue/Saturation/Color/Luminosity are not
// per-channel independent.
func nonSeparable(fn vecFunc) PixelFunc {
	return func(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
		as := float64(sa) / 255
		ab := float64(da) / 255
		csR, csG, csB := unpremultiply(sr, sg, sb, sa)
		cbR, cbG, cbB := unpremultiply(dr, dg, db, da)
		cs := [3]float64{csR, csG, csB}
		cb := [3]float64{cbR, cbG, cbB}
		b := fn(cb, cs)

		ao := as + ab - as*ab
		var out [3]float64
		for i := 0; i < 3; i++ {
			out[i] = as*(1-ab)*cs[i] + as*ab*b[i] + (1-as)*ab*cb[i]
		}
		return toByte(out[0]), toByte(out[1]), toByte(out[2]), toByte(ao)
	}
}
