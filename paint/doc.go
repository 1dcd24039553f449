// Package paint implements the color-glyph paint engine: a stack machine
// of transforms, clips and compositing surfaces driven by a font's color
// glyph paint tree, producing a premultiplied BGRA32 image.
//
// A font face drives an Engine the way a font's outline drives a
// raster.Rasterizer: the face calls Engine's PaintFuncs methods (PushGroup,
// PaintLinearGradient, PushClipGlyph, and so on) to describe the paint
// tree, and the Engine composites directly into its target image as it
// goes, rather than building an intermediate scene graph.
package paint
