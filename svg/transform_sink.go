package svg

import "github.com/harfbuzz/hb-raster-go"

// transformingSink applies xform to every point before forwarding to dst,
// letting a DrawFuncs consumer accept outline callbacks in font units while
// building a path already in device space.
type transformingSink struct {
	dst   raster.DrawFuncs
	xform raster.Transform
}

func (s transformingSink) MoveTo(x, y float64) {
	x, y = s.xform.Apply(x, y)
	s.dst.MoveTo(x, y)
}

func (s transformingSink) LineTo(x, y float64) {
	x, y = s.xform.Apply(x, y)
	s.dst.LineTo(x, y)
}

func (s transformingSink) QuadTo(cx, cy, x, y float64) {
	cx, cy = s.xform.Apply(cx, cy)
	x, y = s.xform.Apply(x, y)
	s.dst.QuadTo(cx, cy, x, y)
}

func (s transformingSink) CubeTo(c1x, c1y, c2x, c2y, x, y float64) {
	c1x, c1y = s.xform.Apply(c1x, c1y)
	c2x, c2y = s.xform.Apply(c2x, c2y)
	x, y = s.xform.Apply(x, y)
	s.dst.CubeTo(c1x, c1y, c2x, c2y, x, y)
}

func (s transformingSink) ClosePath() { s.dst.ClosePath() }
