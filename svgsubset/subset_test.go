package svgsubset

import (
	"strings"
	"testing"
)

type stubFace struct {
	docs        []string
	starts      []uint32
	ends        []uint32
	docForGlyph map[uint32]int
}

func (f *stubFace) SVGDocumentCount() int { return len(f.docs) }

func (f *stubFace) SVGDocumentData(docIndex int) []byte { return []byte(f.docs[docIndex]) }

func (f *stubFace) SVGDocumentGlyphRange(docIndex int) (uint32, uint32, bool) {
	return f.starts[docIndex], f.ends[docIndex], true
}

func (f *stubFace) GlyphSVGDocumentIndex(gid uint32) (int, bool) {
	idx, ok := f.docForGlyph[gid]
	return idx, ok
}

func singleDocFace(svg string, start, end uint32) *stubFace {
	df := map[uint32]int{}
	for g := start; g <= end; g++ {
		df[g] = 0
	}
	return &stubFace{docs: []string{svg}, starts: []uint32{start}, ends: []uint32{end}, docForGlyph: df}
}

const sampleDoc = `<svg xmlns="http://www.w3.org/2000/svg">
<defs>
<linearGradient id="grad1"><stop offset="0" stop-color="red"/></linearGradient>
<path id="shared" d="M0 0L1 1"/>
</defs>
<g id="glyph3"><rect fill="url(#grad1)" width="10" height="10"/><use href="#shared"/></g>
<g id="glyph4"><circle r="5"/></g>
</svg>`

func TestSubsetGlyphImageExtractsGlyphSpan(t *testing.T) {
	face := singleDocFace(sampleDoc, 3, 4)
	cache := NewFaceCache(face)
	var counter uint32

	_, body, ok := SubsetGlyphImage(face, cache, 3, &counter)
	if !ok {
		t.Fatal("expected glyph 3 to be found")
	}
	if !strings.Contains(body, `<g id="hbimg0_glyph3">`) {
		t.Fatalf("expected the glyph's own element with a rewritten id, got: %s", body)
	}
	if strings.Contains(body, "glyph4") {
		t.Fatalf("did not expect the sibling glyph's content, got: %s", body)
	}
}

func TestSubsetGlyphImageCollectsDependencyClosure(t *testing.T) {
	face := singleDocFace(sampleDoc, 3, 4)
	cache := NewFaceCache(face)
	var counter uint32

	defs, _, ok := SubsetGlyphImage(face, cache, 3, &counter)
	if !ok {
		t.Fatal("expected glyph 3 to be found")
	}
	if !strings.Contains(defs, `id="hbimg0_grad1"`) {
		t.Fatalf("expected the referenced gradient def, got: %s", defs)
	}
	if !strings.Contains(defs, `id="hbimg0_shared"`) {
		t.Fatalf("expected the href-referenced path def, got: %s", defs)
	}
}

func TestSubsetGlyphImageMissingGlyphFails(t *testing.T) {
	face := singleDocFace(sampleDoc, 3, 4)
	cache := NewFaceCache(face)
	var counter uint32

	if _, _, ok := SubsetGlyphImage(face, cache, 99, &counter); ok {
		t.Fatal("expected a glyph outside any document's range to fail")
	}
}

func TestSubsetGlyphImagePrefixIncrementsPerCall(t *testing.T) {
	face := singleDocFace(sampleDoc, 3, 4)
	cache := NewFaceCache(face)
	var counter uint32

	_, body1, _ := SubsetGlyphImage(face, cache, 3, &counter)
	_, body2, _ := SubsetGlyphImage(face, cache, 4, &counter)
	if !strings.Contains(body1, "hbimg0_") {
		t.Fatalf("expected the first call to use prefix hbimg0_, got: %s", body1)
	}
	if !strings.Contains(body2, "hbimg1_") {
		t.Fatalf("expected the second call to use prefix hbimg1_, got: %s", body2)
	}
}

func TestSubsetGlyphImageRewritesStyleAttributeURLReference(t *testing.T) {
	doc := `<svg><defs><linearGradient id="g1"/></defs>` +
		`<path id="glyph1" style="fill:url(#g1)" d="M0 0"/></svg>`
	face := singleDocFace(doc, 1, 1)
	cache := NewFaceCache(face)
	var counter uint32

	_, body, ok := SubsetGlyphImage(face, cache, 1, &counter)
	if !ok {
		t.Fatal("expected glyph 1 to be found")
	}
	if !strings.Contains(body, `style="fill:url(#hbimg0_g1)"`) {
		t.Fatalf("expected the style attribute's url() reference to be rewritten, got: %s", body)
	}
}

func TestSubsetGlyphImagePreservesSingleQuoting(t *testing.T) {
	doc := `<svg><defs><path id='g1' d='M0 0'/></defs>` +
		`<g id='glyph1'><use href='#g1'/></g></svg>`
	face := singleDocFace(doc, 1, 1)
	cache := NewFaceCache(face)
	var counter uint32

	defs, body, ok := SubsetGlyphImage(face, cache, 1, &counter)
	if !ok {
		t.Fatal("expected glyph 1 to be found")
	}
	if !strings.Contains(defs, `id='hbimg0_g1'`) {
		t.Fatalf("expected single-quoted id to be rewritten preserving quote style, got: %s", defs)
	}
	if !strings.Contains(body, `href='#hbimg0_g1'`) {
		t.Fatalf("expected single-quoted href to be rewritten preserving quote style, got: %s", body)
	}
}

func TestSubsetGlyphImageCachesParseAcrossCalls(t *testing.T) {
	face := singleDocFace(sampleDoc, 3, 4)
	cache := NewFaceCache(face)
	var counter uint32

	if _, _, ok := SubsetGlyphImage(face, cache, 3, &counter); !ok {
		t.Fatal("expected first call to succeed")
	}
	if cache.slots[0].Load() == nil {
		t.Fatal("expected the doc cache slot to be populated after first use")
	}
	cached := cache.slots[0].Load()
	if _, _, ok := SubsetGlyphImage(face, cache, 4, &counter); !ok {
		t.Fatal("expected second call to succeed")
	}
	if cache.slots[0].Load() != cached {
		t.Fatal("expected the same cached doc pointer to be reused across calls")
	}
}

func TestParseDocumentHandlesSelfClosingSiblingBeforeGlyph(t *testing.T) {
	doc := `<svg><defs><rect id="a"/><path id="glyph1" d="M0 0"/></defs></svg>`
	defs, glyphs, ok := parseDocument(doc)
	if !ok {
		t.Fatal("expected successful parse")
	}
	span, found := glyphs[1]
	if !found {
		t.Fatal("expected glyph1's span to be recorded")
	}
	glyphText := doc[span.start:span.end]
	if !strings.Contains(glyphText, `id="glyph1"`) || strings.Contains(glyphText, `rect id="a"`) {
		t.Fatalf("expected glyph1's span to cover only its own element, got: %q", glyphText)
	}
	found = false
	for _, e := range defs {
		if e.id == "a" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the self-closing sibling to still be indexed as a defs entry")
	}
}
