package raster

import "sync/atomic"

// Extents describes an image's placement and layout: origin in pixel
// coordinates, pixel dimensions and row stride in bytes. A zero Stride
// means "auto-compute" on input (see Format.DefaultStride) and is always
// filled in on output.
type Extents struct {
	X, Y          int
	Width, Height int
	Stride        int
}

// Image owns a pixel buffer of a fixed extent and format. Images are
// reference-counted: Destroy on the last reference frees the buffer.
// A single released Image may be recycled by a Rasterizer or paint engine,
// reusing its backing allocation for the next render.
type Image struct {
	refs    atomic.Int32
	extents Extents
	format  Format
	buf     []byte

	userData any
}

// NewImage allocates a new, zero-initialized image with the given extents
// and format. It returns nil (an "out of memory" / invalid-argument safe
// value) if the format is unrecognized or the stride is too small for the
// requested width.
func NewImage(extents Extents, format Format) *Image {
	bpp := format.BytesPerPixel()
	if bpp == 0 {
		return nil
	}
	if extents.Stride == 0 {
		extents.Stride = format.DefaultStride(extents.Width)
	}
	if extents.Width < 0 || extents.Height < 0 || extents.Stride < extents.Width*bpp {
		return nil
	}
	img := &Image{extents: extents, format: format}
	img.refs.Store(1)
	img.buf = make([]byte, extents.Stride*extents.Height)
	return img
}

// reuse resizes img in place for reuse by a recycling caller, reallocating
// the backing buffer only when the existing one is too small. It is the Go
// analogue of reusing a single recycled image's allocation across renders.
func (img *Image) reuse(extents Extents, format Format) {
	bpp := format.BytesPerPixel()
	if extents.Stride == 0 {
		extents.Stride = format.DefaultStride(extents.Width)
	}
	need := extents.Stride * extents.Height
	if cap(img.buf) < need {
		img.buf = make([]byte, need)
	} else {
		img.buf = img.buf[:need]
		for i := range img.buf {
			img.buf[i] = 0
		}
	}
	img.extents = extents
	img.format = format
	img.userData = nil
	_ = bpp
}

// Reference increments img's reference count and returns img. Calling
// Reference on a nil image is a safe no-op that returns nil.
func (img *Image) Reference() *Image {
	if img == nil {
		return nil
	}
	img.refs.Add(1)
	return img
}

// Destroy decrements img's reference count, freeing the buffer when the
// count reaches zero. Destroy on a nil image is a safe no-op.
func (img *Image) Destroy() {
	if img == nil {
		return
	}
	if img.refs.Add(-1) == 0 {
		img.buf = nil
	}
}

// Buffer returns the raw pixel bytes, exactly Stride*Height long. A nil
// image returns nil.
func (img *Image) Buffer() []byte {
	if img == nil {
		return nil
	}
	return img.buf
}

// Extents returns img's placement and layout. A nil image returns the zero
// value.
func (img *Image) Extents() Extents {
	if img == nil {
		return Extents{}
	}
	return img.extents
}

// Format returns img's pixel format. A nil image returns FormatA8, the
// zero value of Format.
func (img *Image) Format() Format {
	if img == nil {
		return FormatA8
	}
	return img.format
}

// SetUserData attaches an opaque value to img. A nil image is a no-op.
func (img *Image) SetUserData(v any) {
	if img == nil {
		return
	}
	img.userData = v
}

// UserData returns the value previously attached with SetUserData, or nil.
func (img *Image) UserData() any {
	if img == nil {
		return nil
	}
	return img.userData
}

// row returns the byte slice for pixel row y.
func (img *Image) row(y int) []byte {
	start := y * img.extents.Stride
	return img.buf[start : start+img.extents.Stride]
}
