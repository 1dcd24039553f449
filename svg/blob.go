package svg

import "sync/atomic"

// Blob owns the serialized text of a rendered SVG document. It is
// reference-counted like raster.Image so a single emitter can recycle the
// backing buffer of its most recently rendered output.
type Blob struct {
	refs atomic.Int32
	data []byte

	// inReplace is set while an emitter is reassigning its recycled blob
	// to a fresh render, guarding against the backing array being freed
	// out from under the blob that is being replaced.
	inReplace bool
}

// NewBlob wraps data (taking ownership of the slice) in a fresh, single-
// reference Blob.
func NewBlob(data []byte) *Blob {
	b := &Blob{data: data}
	b.refs.Store(1)
	return b
}

// Reference increments b's reference count and returns b. A nil Blob is a
// safe no-op that returns nil.
func (b *Blob) Reference() *Blob {
	if b == nil {
		return nil
	}
	b.refs.Add(1)
	return b
}

// Destroy decrements b's reference count, releasing the backing buffer
// once it reaches zero unless a replace is in progress. A nil Blob is a
// safe no-op.
func (b *Blob) Destroy() {
	if b == nil {
		return
	}
	if b.refs.Add(-1) == 0 && !b.inReplace {
		b.data = nil
	}
}

// Data returns the blob's bytes, or nil for a nil Blob.
func (b *Blob) Data() []byte {
	if b == nil {
		return nil
	}
	return b.data
}

// String returns the blob's bytes as a string, or "" for a nil Blob.
func (b *Blob) String() string {
	if b == nil {
		return ""
	}
	return string(b.data)
}

// recycledBlob holds at most one retired blob's backing array so the next
// render can reuse its allocation instead of growing a fresh one.
type recycledBlob struct {
	buf []byte
}

// take returns the recycled buffer (truncated to zero length) if one is
// available, else nil.
func (r *recycledBlob) take() []byte {
	if r.buf == nil {
		return nil
	}
	buf := r.buf[:0]
	r.buf = nil
	return buf
}

// recycle reclaims b's backing array for reuse, guarding the hand-off with
// inReplace so destroying the old blob does not discard the array the new
// blob is about to take over.
func (r *recycledBlob) recycle(b *Blob) {
	if b == nil {
		return
	}
	b.inReplace = true
	r.buf = b.data
	b.data = nil
	b.inReplace = false
}
