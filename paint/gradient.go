package paint

import "math"

// applyExtend maps a gradient parameter t, which may fall outside [0,1],
// back into [0,1] according to mode.
func applyExtend(t float64, mode ExtendMode) float64 {
	switch mode {
	case ExtendRepeat:
		f := t - math.Floor(t)
		return f
	case ExtendReflect:
		at := math.Abs(t)
		period := math.Floor(at)
		frac := at - period
		if int64(period)%2 != 0 {
			return 1 - frac
		}
		return frac
	default: // ExtendPad
		if t < 0 {
			return 0
		}
		if t > 1 {
			return 1
		}
		return t
	}
}

// sampleColorLine evaluates line at parameter t (already extended into
// [0,1] by applyExtend), linearly interpolating between the stops that
// bracket it.
func sampleColorLine(line ColorLine, t float64) Color {
	stops := line.Stops()
	if len(stops) == 0 {
		return Color{}
	}
	if len(stops) == 1 || t <= stops[0].Offset {
		return stops[0].Color
	}
	last := stops[len(stops)-1]
	if t >= last.Offset {
		return last.Color
	}
	lo, hi := 0, len(stops)-1
	for lo+1 < hi {
		mid := (lo + hi) / 2
		if stops[mid].Offset <= t {
			lo = mid
		} else {
			hi = mid
		}
	}
	a, b := stops[lo], stops[hi]
	if b.Offset == a.Offset {
		return b.Color
	}
	localT := (t - a.Offset) / (b.Offset - a.Offset)
	return lerpColor(a.Color, b.Color, localT)
}

func lerpColor(a, b Color, t float64) Color {
	return Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}

func colorAt(line ColorLine, t float64) Color {
	return sampleColorLine(line, applyExtend(t, line.Extend()))
}

// ReduceLinearAxis reduces a COLRv1-style three-anchor linear gradient
// (p0, p1, p2) to the two-point axis (p0, p1') linearT expects, by
// projecting p1 onto the axis perpendicular to p2-p0. p2 rotates that
// perpendicular axis, which is how a skewed gradient is expressed without
// a fourth parameter. When p2 coincides with p0 (the common case for a
// simple, unskewed gradient) the reduction is a no-op and p1' == p1.
func ReduceLinearAxis(x0, y0, x1, y1, x2, y2 float64) (rx1, ry1 float64) {
	dx2, dy2 := x2-x0, y2-y0
	if dx2 == 0 && dy2 == 0 {
		return x1, y1
	}
	// Rotate (p2-p0) by 90 degrees to get the axis p1 projects onto.
	px, py := -dy2, dx2
	denom := px*px + py*py
	dx1, dy1 := x1-x0, y1-y0
	s := (dx1*px + dy1*py) / denom
	return x0 + s*px, y0 + s*py
}

// linearT projects point (x, y) onto the two-point gradient axis p0->p1,
// returning the fraction of the way from p0 to p1 (may be outside [0,1]).
// Callers reduce a three-anchor (p0, p1, p2) gradient to this axis first,
// via ReduceLinearAxis.
func linearT(x, y, x0, y0, x1, y1 float64) (float64, bool) {
	dx, dy := x1-x0, y1-y0
	denom := dx*dx + dy*dy
	if denom == 0 {
		return 0, false
	}
	return ((x-x0)*dx + (y-y0)*dy) / denom, true
}

// radialT solves the two-circle radial gradient for t such that (x,y)
// lies on the circle interpolated between (c0,r0) and (c1,r1), preferring
// the larger root with a non-negative radius.
func radialT(x, y, cx0, cy0, r0, cx1, cy1, r1 float64) (float64, bool) {
	dcx, dcy := cx1-cx0, cy1-cy0
	dr := r1 - r0
	px, py := x-cx0, y-cy0

	a := dcx*dcx + dcy*dcy - dr*dr
	b := 2 * (px*dcx + py*dcy + r0*dr)
	c := px*px + py*py - r0*r0

	radiusAt := func(t float64) float64 { return r0 + t*dr }

	if math.Abs(a) < 1e-12 {
		if math.Abs(b) < 1e-12 {
			return 0, false
		}
		t := c / b
		if radiusAt(t) < 0 {
			return 0, false
		}
		return t, true
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t1 := (b + sq) / (2 * a)
	t2 := (b - sq) / (2 * a)
	if t1 < t2 {
		t1, t2 = t2, t1
	}
	if radiusAt(t1) >= 0 {
		return t1, true
	}
	if radiusAt(t2) >= 0 {
		return t2, true
	}
	return 0, false
}

// sweepT returns the fraction of the way around [startAngle,endAngle)
// (radians) that (x,y) falls at, measured from center (cx,cy).
func sweepT(x, y, cx, cy, startAngle, endAngle float64) (float64, bool) {
	if endAngle == startAngle {
		return 0, false
	}
	angle := math.Atan2(y-cy, x-cx)
	for angle < startAngle {
		angle += 2 * math.Pi
	}
	for angle >= startAngle+2*math.Pi {
		angle -= 2 * math.Pi
	}
	return (angle - startAngle) / (endAngle - startAngle), true
}
