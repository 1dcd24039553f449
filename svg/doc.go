// Package svg renders glyph outlines and color-glyph paint trees as
// resolution-independent SVG documents. DrawEmitter handles the outline
// (draw) protocol; PaintEmitter handles the color paint protocol, both
// driven by the same raster.DrawFuncs/paint.PaintFuncs callback shapes the
// rest of the module uses for rasterizing.
package svg
