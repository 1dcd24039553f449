package raster

import "math"

// Transform is a 2x3 affine transformation:
//
//	x' = xx*x + xy*y + x0
//	y' = yx*x + yy*y + y0
//
// Identity is the initial state of every draw or paint object.
type Transform struct {
	XX, YX float64
	XY, YY float64
	X0, Y0 float64
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{XX: 1, YY: 1}
}

// Translate returns a translation transform.
func Translate(x, y float64) Transform {
	return Transform{XX: 1, YY: 1, X0: x, Y0: y}
}

// Scale returns an axis-aligned scaling transform by x horizontally and y
// vertically.
func Scale(x, y float64) Transform {
	return Transform{XX: x, YY: y}
}

// Apply transforms the point (x, y) by t.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t.XX*x + t.XY*y + t.X0, t.YX*x + t.YY*y + t.Y0
}

// ApplyVector transforms (x, y) ignoring translation, for direction/normal
// vectors such as gradient axes.
func (t Transform) ApplyVector(x, y float64) (float64, float64) {
	return t.XX*x + t.XY*y, t.YX*x + t.YY*y
}

// Mul composes t then other: (t.Mul(other)).Apply(p) == other.Apply(t.Apply(p)).
func (t Transform) Mul(other Transform) Transform {
	return Transform{
		XX: other.XX*t.XX + other.XY*t.YX,
		YX: other.YX*t.XX + other.YY*t.YX,
		XY: other.XX*t.XY + other.XY*t.YY,
		YY: other.YX*t.XY + other.YY*t.YY,
		X0: other.XX*t.X0 + other.XY*t.Y0 + other.X0,
		Y0: other.YX*t.X0 + other.YY*t.Y0 + other.Y0,
	}
}

// Det returns the determinant of the linear part of t.
func (t Transform) Det() float64 {
	return t.XX*t.YY - t.XY*t.YX
}

// degenerateDet is the threshold below which a transform is treated as
// non-invertible; gradients and images short-circuit cleanly rather than
// dividing by a near-zero determinant.
const degenerateDet = 1e-10

// Invert returns the inverse of t and true, or the identity and false if t
// is numerically degenerate (|det| < 1e-10).
func (t Transform) Invert() (Transform, bool) {
	det := t.Det()
	if math.Abs(det) < degenerateDet {
		return Identity(), false
	}
	inv := 1 / det
	return Transform{
		XX: t.YY * inv,
		YX: -t.YX * inv,
		XY: -t.XY * inv,
		YY: t.XX * inv,
		X0: (t.XY*t.Y0 - t.X0*t.YY) * inv,
		Y0: (t.X0*t.YX - t.XX*t.Y0) * inv,
	}, true
}

// IsIdentity reports whether t is exactly the identity transform.
func (t Transform) IsIdentity() bool {
	return t.XX == 1 && t.YX == 0 && t.XY == 0 && t.YY == 1 && t.X0 == 0 && t.Y0 == 0
}

// IsAxisAligned reports whether t has no rotation or shear component
// (xy == 0 && yx == 0), the condition under which a rectangle clip stays a
// rectangle under the transform.
func (t Transform) IsAxisAligned() bool {
	return t.XY == 0 && t.YX == 0
}

// nearIdentityEpsilon is the tolerance the SVG emitter uses to skip
// emitting a wrapper <g transform=...> for a transform indistinguishable
// from identity.
const nearIdentityEpsilon = 1e-6

// IsNearIdentity reports whether every component of t is within
// nearIdentityEpsilon of the identity transform.
func (t Transform) IsNearIdentity() bool {
	return math.Abs(t.XX-1) < nearIdentityEpsilon &&
		math.Abs(t.YY-1) < nearIdentityEpsilon &&
		math.Abs(t.XY) < nearIdentityEpsilon &&
		math.Abs(t.YX) < nearIdentityEpsilon &&
		math.Abs(t.X0) < nearIdentityEpsilon &&
		math.Abs(t.Y0) < nearIdentityEpsilon
}
