//go:build forwarddiff

package raster

import "math"

// This file is the forward-differencing alternative to flatten.go's de
// Casteljau recursion, selected at build time with -tags forwarddiff. It
// emits a uniform number of segments per curve, derived from a closed-form
// error estimate instead of recursive subdivision, and is useful for hosts
// that want predictable segment counts per curve.

func flattenQuadratic(p0, p1, p2 point, emit func(point)) {
	dx := p0.X - 2*p1.X + p2.X
	dy := p0.Y - 2*p1.Y + p2.Y
	errSq := (dx*dx + dy*dy) / 16
	n := stepCountFromErrorSquared(errSq)
	forwardDifferenceQuadratic(p0, p1, p2, n, emit)
}

func flattenCubic(p0, p1, p2, p3 point, emit func(point)) {
	d1x, d1y := 6*(p0.X-2*p1.X+p2.X), 6*(p0.Y-2*p1.Y+p2.Y)
	d2x, d2y := 6*(p1.X-2*p2.X+p3.X), 6*(p1.Y-2*p2.Y+p3.Y)
	n1 := math.Hypot(d1x, d1y)
	n2 := math.Hypot(d2x, d2y)
	m := n1
	if n2 > m {
		m = n2
	}
	errSq := (m / 8) * (m / 8)
	n := stepCountFromErrorSquared(errSq)
	forwardDifferenceCubic(p0, p1, p2, p3, n, emit)
}

// stepCountFromErrorSquared derives n = ceil(log16(err^2 / T^2)), capped to
// maxFlattenDepth, and returns 2^n segments.
func stepCountFromErrorSquared(errSq float64) int {
	t2 := flattenTolerance * flattenTolerance
	if errSq <= t2 {
		return 1
	}
	n := int(math.Ceil(math.Log(errSq/t2) / math.Log(16)))
	if n < 0 {
		n = 0
	}
	if n > maxFlattenDepth {
		n = maxFlattenDepth
	}
	return 1 << uint(n)
}

func forwardDifferenceQuadratic(p0, p1, p2 point, n int, emit func(point)) {
	h := 1.0 / float64(n)
	x, y := p0.X, p0.Y
	dx := 2*(p1.X-p0.X)*h + (p0.X-2*p1.X+p2.X)*h*h
	dy := 2*(p1.Y-p0.Y)*h + (p0.Y-2*p1.Y+p2.Y)*h*h
	ddx := 2 * (p0.X - 2*p1.X + p2.X) * h * h
	ddy := 2 * (p0.Y - 2*p1.Y + p2.Y) * h * h
	for i := 1; i < n; i++ {
		x += dx
		y += dy
		dx += ddx
		dy += ddy
		emit(point{x, y})
	}
	emit(p2) // snap the last segment to the exact endpoint to cancel drift
}

func forwardDifferenceCubic(p0, p1, p2, p3 point, n int, emit func(point)) {
	h := 1.0 / float64(n)
	h2 := h * h
	h3 := h2 * h
	x, y := p0.X, p0.Y
	dddx := (-6*p0.X + 18*p1.X - 18*p2.X + 6*p3.X) * h3
	dddy := (-6*p0.Y + 18*p1.Y - 18*p2.Y + 6*p3.Y) * h3
	dx := 3*(p1.X-p0.X)*h + 3*(p0.X-2*p1.X+p2.X)*h2 + dddx/6
	dy := 3*(p1.Y-p0.Y)*h + 3*(p0.Y-2*p1.Y+p2.Y)*h2 + dddy/6
	ddx := (6*p0.X-12*p1.X+6*p2.X)*h2 + dddx
	ddy := (6*p0.Y-12*p1.Y+6*p2.Y)*h2 + dddy
	for i := 1; i < n; i++ {
		x += dx
		y += dy
		dx += ddx
		dy += ddy
		ddx += dddx
		ddy += dddy
		emit(point{x, y})
	}
	emit(p3)
}
