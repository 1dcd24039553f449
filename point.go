package raster

import "math"

// point is a 2-D coordinate in the flattener's working space (already
// transformed by the current Transform).
type point struct {
	X, Y float64
}

func mid(p, q point) point {
	return point{(p.X + q.X) * 0.5, (p.Y + q.Y) * 0.5}
}

// absMax2 returns the L-infinity norm of the 2-D vector (a, b).
func absMax2(a, b float64) float64 {
	a = math.Abs(a)
	b = math.Abs(b)
	if a < b {
		return b
	}
	return a
}
