package raster

// maxFlattenDepth bounds recursive subdivision at 16 levels, i.e. at most
// 2^16 = 65536 segments per curve, regardless of how slowly the
// termination test converges.
const maxFlattenDepth = 16

// flattenTolerance is the maximum deviation, in pixels, the flattener
// tolerates between the flattened polyline and the true curve.
const flattenTolerance = 0.5

// flattenQuadratic emits line segments approximating the quadratic Bézier
// P0,P1,P2 by de Casteljau recursion, using FreeType's control-net
// termination test: stop subdividing once the control point's deviation
// from the chord is within flattenTolerance. emit is called once per
// segment endpoint (not including p0, which the caller already has as the
// current point).
func flattenQuadratic(p0, p1, p2 point, emit func(point)) {
	flattenQuadraticAt(p0, p1, p2, 0, emit)
}

func flattenQuadraticAt(p0, p1, p2 point, depth int, emit func(point)) {
	if depth >= maxFlattenDepth || quadraticIsFlat(p0, p1, p2) {
		emit(p2)
		return
	}
	p01 := mid(p0, p1)
	p12 := mid(p1, p2)
	p012 := mid(p01, p12)
	flattenQuadraticAt(p0, p01, p012, depth+1, emit)
	flattenQuadraticAt(p012, p12, p2, depth+1, emit)
}

// quadraticIsFlat implements |P0 + P2 - 2*P1|_inf <= 0.5.
func quadraticIsFlat(p0, p1, p2 point) bool {
	dx := p0.X + p2.X - 2*p1.X
	dy := p0.Y + p2.Y - 2*p1.Y
	return absMax2(dx, dy) <= flattenTolerance
}

// flattenCubic emits line segments approximating the cubic Bézier
// P0,P1,P2,P3 by de Casteljau recursion, using the triangular chord
// distance termination test.
func flattenCubic(p0, p1, p2, p3 point, emit func(point)) {
	flattenCubicAt(p0, p1, p2, p3, 0, emit)
}

func flattenCubicAt(p0, p1, p2, p3 point, depth int, emit func(point)) {
	if depth >= maxFlattenDepth || cubicIsFlat(p0, p1, p2, p3) {
		emit(p3)
		return
	}
	p01 := mid(p0, p1)
	p12 := mid(p1, p2)
	p23 := mid(p2, p3)
	p012 := mid(p01, p12)
	p123 := mid(p12, p23)
	p0123 := mid(p012, p123)
	flattenCubicAt(p0, p01, p012, p0123, depth+1, emit)
	flattenCubicAt(p0123, p123, p23, p3, depth+1, emit)
}

// cubicIsFlat implements max(|2P0-3P1+P3|_inf, |P0-3P2+2P3|_inf) <= 0.5.
func cubicIsFlat(p0, p1, p2, p3 point) bool {
	d1x := 2*p0.X - 3*p1.X + p3.X
	d1y := 2*p0.Y - 3*p1.Y + p3.Y
	d2x := p0.X - 3*p2.X + 2*p3.X
	d2y := p0.Y - 3*p2.Y + 2*p3.Y
	return absMax2(d1x, d1y) <= flattenTolerance && absMax2(d2x, d2y) <= flattenTolerance
}
