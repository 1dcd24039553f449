// Package svgsubset extracts the minimal self-contained snippet of an
// embedded SVG document needed to render one glyph, with every id rewritten
// under a per-invocation prefix so that repeated invocations against the
// same host document never collide.
package svgsubset
