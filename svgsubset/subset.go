package svgsubset

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Face is the collaborator a font face implements to expose its embedded
// SVG table: one or more documents, each covering a contiguous glyph-id
// range, addressed by a document index.
type Face interface {
	// SVGDocumentCount returns the number of SVG documents in the face's
	// SVG table.
	SVGDocumentCount() int
	// SVGDocumentData returns the raw bytes of the document at docIndex.
	SVGDocumentData(docIndex int) []byte
	// SVGDocumentGlyphRange returns the inclusive glyph-id range covered
	// by the document at docIndex.
	SVGDocumentGlyphRange(docIndex int) (start, end uint32, ok bool)
	// GlyphSVGDocumentIndex returns which document, if any, covers gid.
	GlyphSVGDocumentIndex(gid uint32) (docIndex int, ok bool)
}

// docCache is the parsed index of one SVG document: every <defs> entry and
// every glyph{n}-tagged element's outer-XML span, keyed by gid.
type docCache struct {
	svg        string
	defs       []defsEntry
	startGlyph uint32
	endGlyph   uint32
	spans      []glyphSpan // indexed by gid - startGlyph; zero-value end==0 means absent
}

func (d *docCache) spanFor(gid uint32) (glyphSpan, bool) {
	if gid < d.startGlyph || gid > d.endGlyph {
		return glyphSpan{}, false
	}
	s := d.spans[gid-d.startGlyph]
	if s.end == 0 {
		return glyphSpan{}, false
	}
	return s, true
}

func makeDocCache(svg string, startGlyph, endGlyph uint32) (*docCache, bool) {
	if endGlyph < startGlyph {
		return nil, false
	}
	defs, glyphs, ok := parseDocument(svg)
	if !ok {
		return nil, false
	}
	count := endGlyph - startGlyph + 1
	spans := make([]glyphSpan, count)
	for gid, span := range glyphs {
		if gid < startGlyph || gid > endGlyph {
			continue
		}
		spans[gid-startGlyph] = span
	}
	return &docCache{svg: svg, defs: defs, startGlyph: startGlyph, endGlyph: endGlyph, spans: spans}, true
}

// FaceCache holds one lazily-populated, lock-free parse cache slot per SVG
// document index of a face. A racing writer may parse and discard a
// duplicate cache entry; the first one installed via compare-and-swap wins.
// Construct one FaceCache per font face and keep it alongside the face for
// its lifetime.
type FaceCache struct {
	slots []atomic.Pointer[docCache]
}

// NewFaceCache allocates an empty cache with one slot per SVG document the
// face exposes.
func NewFaceCache(face Face) *FaceCache {
	return &FaceCache{slots: make([]atomic.Pointer[docCache], face.SVGDocumentCount())}
}

func (c *FaceCache) getOrMake(face Face, docIndex int) (*docCache, bool) {
	if docIndex < 0 || docIndex >= len(c.slots) {
		return nil, false
	}
	slot := &c.slots[docIndex]
	if d := slot.Load(); d != nil {
		return d, true
	}

	data := face.SVGDocumentData(docIndex)
	if len(data) == 0 {
		return nil, false
	}
	start, end, ok := face.SVGDocumentGlyphRange(docIndex)
	if !ok {
		return nil, false
	}
	fresh, ok := makeDocCache(string(data), start, end)
	if !ok {
		return nil, false
	}

	if slot.CompareAndSwap(nil, fresh) {
		return fresh, true
	}
	// Lost the race; another writer's cache is authoritative, ours is
	// simply discarded (nothing references it).
	return slot.Load(), true
}

// SubsetGlyphImage extracts the smallest self-contained SVG snippet that
// renders gid, with every id prefixed by a prefix unique to this call so
// that concatenating results from repeated calls never collides. counter is
// the emitter-wide monotone invocation count, owned by the caller; a
// successful call uses *counter as its prefix number and then increments
// it, so one per-emitter counter serves every call.
//
// It returns the chosen <defs> dependency closure (defsOut) and the glyph's
// own content (bodyOut), both with ids rewritten, or ok=false if the face
// has no SVG document covering gid.
func SubsetGlyphImage(face Face, cache *FaceCache, gid uint32, counter *uint32) (defsOut, bodyOut string, ok bool) {
	docIndex, ok := face.GlyphSVGDocumentIndex(gid)
	if !ok {
		return "", "", false
	}
	doc, ok := cache.getOrMake(face, docIndex)
	if !ok {
		return "", "", false
	}
	span, ok := doc.spanFor(gid)
	if !ok {
		return "", "", false
	}
	glyphText := doc.svg[span.start:span.end]

	needed := collectRefs(glyphText)
	var chosen []int
	chosenSet := map[int]bool{}
	for qi := 0; qi < len(needed); qi++ {
		want := needed[qi]
		for i, e := range doc.defs {
			if e.id != want || chosenSet[i] {
				continue
			}
			chosenSet[i] = true
			chosen = append(chosen, i)
			needed = append(needed, collectRefs(doc.svg[e.start:e.end])...)
			break
		}
	}

	prefix := fmt.Sprintf("hbimg%d_", *counter)
	*counter++

	var defsB, bodyB strings.Builder
	for _, i := range chosen {
		e := doc.defs[i]
		appendWithPrefix(&defsB, doc.svg[e.start:e.end], prefix)
		defsB.WriteByte('\n')
	}
	appendWithPrefix(&bodyB, glyphText, prefix)

	return defsB.String(), bodyB.String(), true
}
