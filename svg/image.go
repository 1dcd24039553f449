package svg

import (
	"bytes"
	"encoding/base64"
	stdimage "image"
	"image/color"
	"image/png"

	"github.com/harfbuzz/hb-raster-go"
)

// imageDataURI unpremultiplies img (premultiplied BGRA32) into a PNG and
// returns it as a data: URI, for inlining a raster image paint directly
// into the SVG document.
func imageDataURI(img *raster.Image) (string, bool) {
	if img == nil || img.Format() != raster.FormatBGRA32 {
		return "", false
	}
	ext := img.Extents()
	if ext.Width <= 0 || ext.Height <= 0 {
		return "", false
	}
	buf := img.Buffer()

	out := stdimage.NewNRGBA(stdimage.Rect(0, 0, ext.Width, ext.Height))
	for y := 0; y < ext.Height; y++ {
		row := buf[y*ext.Stride:]
		for x := 0; x < ext.Width; x++ {
			b, g, r, a := row[x*4], row[x*4+1], row[x*4+2], row[x*4+3]
			out.Set(x, y, unpremultiplyByte(r, g, b, a))
		}
	}

	var encoded bytes.Buffer
	if err := png.Encode(&encoded, out); err != nil {
		return "", false
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(encoded.Bytes()), true
}

func unpremultiplyByte(r, g, b, a byte) color.NRGBA {
	if a == 0 {
		return color.NRGBA{}
	}
	un := func(c byte) uint8 {
		v := (uint32(c)*255 + uint32(a)/2) / uint32(a)
		if v > 255 {
			v = 255
		}
		return uint8(v)
	}
	return color.NRGBA{R: un(r), G: un(g), B: un(b), A: a}
}
