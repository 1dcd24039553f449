package paint

import "github.com/harfbuzz/hb-raster-go"

// Color is a straight (non-premultiplied) RGBA color with components in
// [0,1]. IsForeground marks a color(is_foreground, color) operation: R/G/B
// are ignored and A is read as the alpha to multiply with the current
// foreground's own alpha; ResolveColor performs the substitution.
type Color struct {
	R, G, B, A   float64
	IsForeground bool
}

// ResolveColor substitutes foreground for c when c.IsForeground is set, per
// the color(is_foreground, color) substitution rule: the resolved color is
// foreground's RGB with foreground's own alpha multiplied by c's alpha (the
// originally-authored alpha, carried as c.A). Non-foreground colors pass
// through unchanged.
func ResolveColor(c Color, foreground Color) Color {
	if !c.IsForeground {
		return c
	}
	return Color{R: foreground.R, G: foreground.G, B: foreground.B, A: foreground.A * c.A}
}

// ColorStop is one stop of a gradient color line.
type ColorStop struct {
	Offset float64
	Color  Color
}

// ExtendMode selects how a gradient behaves outside its defined [0,1]
// parameter range.
type ExtendMode int

const (
	ExtendPad ExtendMode = iota
	ExtendRepeat
	ExtendReflect
)

// ColorLine is a sequence of color stops plus how it extends outside
// [0,1], as supplied by a font's color table.
type ColorLine interface {
	Stops() []ColorStop
	Extend() ExtendMode
}

// staticColorLine is the ColorLine a caller gets from NewColorLine.
type staticColorLine struct {
	stops  []ColorStop
	extend ExtendMode
}

// NewColorLine returns a ColorLine over a fixed set of stops, sorted by
// offset.
func NewColorLine(stops []ColorStop, extend ExtendMode) ColorLine {
	sorted := append([]ColorStop(nil), stops...)
	sortStops(sorted)
	return staticColorLine{sorted, extend}
}

func (c staticColorLine) Stops() []ColorStop  { return c.stops }
func (c staticColorLine) Extend() ExtendMode  { return c.extend }

func sortStops(stops []ColorStop) {
	for i := 1; i < len(stops); i++ {
		for j := i; j > 0 && stops[j].Offset < stops[j-1].Offset; j-- {
			stops[j], stops[j-1] = stops[j-1], stops[j]
		}
	}
}

// FontFace is the collaborator a color font implements to drive an Engine:
// given a glyph id, it feeds the glyph's paint tree into the PaintFuncs
// the Engine passes it, and separately exposes the glyph's plain outline
// for clip-glyph operations.
type FontFace interface {
	// GetGlyphOutline feeds glyph id's outline into sink, in font units.
	GetGlyphOutline(gid uint32, sink raster.DrawFuncs)
	// PaintColorGlyph feeds glyph id's color paint tree into funcs. It
	// returns false if the glyph has no color paint tree (the caller
	// should fall back to GetGlyphOutline with the current foreground
	// color).
	PaintColorGlyph(gid uint32, palette []Color, foreground Color, funcs PaintFuncs) bool
}
