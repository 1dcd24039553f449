// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package raster implements the glyph rendering core: an outline
// accumulator with two interchangeable antialiasing back-ends, a
// premultiplied-BGRA32 compositor and a clip stack. The paint-tree
// engine, the SVG draw/paint serializer and the embedded-SVG glyph
// subsetter live in the paint, svg and svgsubset subpackages.
//
// The package turns a stream of contour-drawing callbacks (move/line/
// quadratic/cubic/close) into either an alpha-coverage raster image or,
// via the paint tree protocol in the paint subpackage, a full
// premultiplied BGRA32 composite. Font parsing, shaping, variation
// interpolation and subsetting are out of scope: callers that want to
// render a face's glyph supply outlines and paint trees through the
// FontFace contract in paint.FontFace.
package raster
