package blend

// CompositeRow blends n BGRA32 pixels of src over dst in place, using mode.
// Both src and dst must be at least 4*n bytes of interleaved B,G,R,A
// premultiplied bytes. Clear, Src, Dst and Plus take whole-row fast paths
// instead of calling the generic per-pixel function.
func CompositeRow(dst, src []byte, n int, mode Mode) {
	switch mode {
	case Clear:
		row := dst[:4*n]
		for i := range row {
			row[i] = 0
		}
		return
	case Src:
		copy(dst[:4*n], src[:4*n])
		return
	case Dst:
		return
	case Plus:
		for i := 0; i < 4*n; i++ {
			dst[i] = clampAddByte(dst[i], src[i])
		}
		return
	}

	fn := GetFunc(mode)
	for i := 0; i < n; i++ {
		o := i * 4
		sb, sg, sr, sa := src[o], src[o+1], src[o+2], src[o+3]
		db, dg, dr, da := dst[o], dst[o+1], dst[o+2], dst[o+3]
		rr, rg, rb, ra := fn(sr, sg, sb, sa, dr, dg, db, da)
		dst[o], dst[o+1], dst[o+2], dst[o+3] = rb, rg, rr, ra
	}
}

// CompositeRowMasked is CompositeRow with each source pixel's contribution
// additionally scaled by a per-pixel A8 coverage mask, as produced by the
// clip stack. Since src is premultiplied, scaling all four channels by
// mask/255 is equivalent to reducing the source alpha at that pixel.
func CompositeRowMasked(dst, src, mask []byte, n int, mode Mode) {
	fn := GetFunc(mode)
	for i := 0; i < n; i++ {
		m := mask[i]
		o := i * 4
		var sb, sg, sr, sa byte
		if m == 255 {
			sb, sg, sr, sa = src[o], src[o+1], src[o+2], src[o+3]
		} else if m != 0 {
			sb = mulDiv255(src[o], m)
			sg = mulDiv255(src[o+1], m)
			sr = mulDiv255(src[o+2], m)
			sa = mulDiv255(src[o+3], m)
		} else {
			continue
		}
		db, dg, dr, da := dst[o], dst[o+1], dst[o+2], dst[o+3]
		rr, rg, rb, ra := fn(sr, sg, sb, sa, dr, dg, db, da)
		dst[o], dst[o+1], dst[o+2], dst[o+3] = rb, rg, rr, ra
	}
}
