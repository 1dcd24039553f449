package svg

import (
	"strings"

	"golang.org/x/text/language"
)

// pathBuilder implements raster.DrawFuncs, translating outline callbacks
// into an SVG path data string and tracking the untransformed bounding box
// of every point it sees.
type pathBuilder struct {
	precision int
	locale    language.Tag

	d    strings.Builder
	last byte // last command letter written, to coalesce repeats

	haveBBox               bool
	minX, minY, maxX, maxY float64
}

func (p *pathBuilder) reset() {
	p.d.Reset()
	p.last = 0
	p.haveBBox = false
	p.minX, p.minY, p.maxX, p.maxY = 0, 0, 0, 0
}

func (p *pathBuilder) num(v float64) string { return formatNumber(v, p.precision, p.locale) }

func (p *pathBuilder) updateBBox(x, y float64) {
	if !p.haveBBox {
		p.minX, p.minY, p.maxX, p.maxY = x, y, x, y
		p.haveBBox = true
		return
	}
	if x < p.minX {
		p.minX = x
	}
	if x > p.maxX {
		p.maxX = x
	}
	if y < p.minY {
		p.minY = y
	}
	if y > p.maxY {
		p.maxY = y
	}
}

func (p *pathBuilder) cmd(letter byte, coords ...float64) {
	if letter != p.last {
		p.d.WriteByte(letter)
		p.last = letter
	} else {
		p.d.WriteByte(' ')
	}
	for i, c := range coords {
		if i > 0 {
			p.d.WriteByte(' ')
		}
		p.d.WriteString(p.num(c))
	}
}

func (p *pathBuilder) MoveTo(x, y float64) {
	p.cmd('M', x, y)
	p.last = 0 // a bare coordinate pair after M is an implicit LineTo, never reused
	p.updateBBox(x, y)
}

func (p *pathBuilder) LineTo(x, y float64) {
	p.cmd('L', x, y)
	p.updateBBox(x, y)
}

func (p *pathBuilder) QuadTo(cx, cy, x, y float64) {
	p.cmd('Q', cx, cy, x, y)
	p.updateBBox(cx, cy)
	p.updateBBox(x, y)
}

func (p *pathBuilder) CubeTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.cmd('C', c1x, c1y, c2x, c2y, x, y)
	p.updateBBox(c1x, c1y)
	p.updateBBox(c2x, c2y)
	p.updateBBox(x, y)
}

func (p *pathBuilder) ClosePath() {
	p.d.WriteByte('Z')
	p.last = 'Z'
}

func (p *pathBuilder) String() string { return p.d.String() }
