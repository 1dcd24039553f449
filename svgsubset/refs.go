package svgsubset

import "strings"

// hrefPrefixes and hrefPrefixesSingle are the double- and single-quoted
// href/xlink:href sequences that introduce an id reference; the referenced
// id runs up to the matching quote character.
//
// url(#x) is matched verbatim wherever it appears in the source text, so a
// CSS reference inside a style="fill:url(#x)" attribute is collected by the
// exact same scan as a presentation fill="url(#x)" attribute — the style
// attribute needs no special casing, here or in appendWithPrefix below.
var hrefPrefixes = []string{`href="#`, `xlink:href="#`}
var hrefPrefixesSingle = []string{`href='#`, `xlink:href='#`}

// collectRefs scans s for every #id reference (href, xlink:href, and url(),
// each in single- and double-quoted / unquoted-parenthesis form) and returns
// the referenced ids, deduplicated and in first-seen order.
func collectRefs(s string) []string {
	seen := map[string]bool{}
	var ids []string
	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}

	n := len(s)
	i := 0
	for i < n {
		if matched, id, next := matchQuotedHref(s, i, n, '"'); matched {
			add(id)
			i = next
			continue
		}
		if matched, id, next := matchQuotedHref(s, i, n, '\''); matched {
			add(id)
			i = next
			continue
		}
		if strings.HasPrefix(s[i:], "url(#") {
			b := i + len("url(#")
			e := b
			for e < n && s[e] != ')' {
				e++
			}
			if e > b {
				add(s[b:e])
			}
			i = e
			continue
		}
		if strings.HasPrefix(s[i:], `url("#`) {
			b := i + len(`url("#`)
			e := b
			for e < n && s[e] != '"' {
				e++
			}
			if e > b {
				add(s[b:e])
			}
			i = e
			continue
		}
		if strings.HasPrefix(s[i:], "url('#") {
			b := i + len("url('#")
			e := b
			for e < n && s[e] != '\'' {
				e++
			}
			if e > b {
				add(s[b:e])
			}
			i = e
			continue
		}
		i++
	}
	return ids
}

func matchQuotedHref(s string, i, n int, quote byte) (bool, string, int) {
	var prefixes []string
	if quote == '"' {
		prefixes = hrefPrefixes
	} else {
		prefixes = hrefPrefixesSingle
	}
	for _, p := range prefixes {
		if strings.HasPrefix(s[i:], p) {
			b := i + len(p)
			e := b
			for e < n && s[e] != quote {
				e++
			}
			if e > b {
				return true, s[b:e], e
			}
			return true, "", e
		}
	}
	return false, "", i
}

// appendWithPrefix copies s to dst, prepending prefix to every id-bearing
// reference: id="..", id='..', href="#..", href='#..', xlink:href="#..",
// xlink:href='#.., url(#..), url("#..), url('#... The url(#...) forms match
// regardless of surrounding attribute, so style="fill:url(#x)" is rewritten
// by the same pass as a plain fill="url(#x)" attribute.
func appendWithPrefix(dst *strings.Builder, s, prefix string) {
	n := len(s)
	i := 0
	for i < n {
		switch {
		case hasPrefixAt(s, i, `id="`):
			i = copyRewritten(dst, s, i, `id="`, prefix, '"')
		case hasPrefixAt(s, i, "id='"):
			i = copyRewritten(dst, s, i, "id='", prefix, '\'')
		case hasPrefixAt(s, i, `href="#`):
			i = copyRewritten(dst, s, i, `href="#`, prefix, '"')
		case hasPrefixAt(s, i, "href='#"):
			i = copyRewritten(dst, s, i, "href='#", prefix, '\'')
		case hasPrefixAt(s, i, `xlink:href="#`):
			i = copyRewritten(dst, s, i, `xlink:href="#`, prefix, '"')
		case hasPrefixAt(s, i, "xlink:href='#"):
			i = copyRewritten(dst, s, i, "xlink:href='#", prefix, '\'')
		case hasPrefixAt(s, i, "url(#"):
			i = copyRewritten(dst, s, i, "url(#", prefix, ')')
		case hasPrefixAt(s, i, `url("#`):
			i = copyRewritten(dst, s, i, `url("#`, prefix, '"')
		case hasPrefixAt(s, i, "url('#"):
			i = copyRewritten(dst, s, i, "url('#", prefix, '\'')
		default:
			dst.WriteByte(s[i])
			i++
		}
	}
}

func hasPrefixAt(s string, i int, prefix string) bool {
	return i+len(prefix) <= len(s) && s[i:i+len(prefix)] == prefix
}

// copyRewritten writes lead (the matched prefix) then prefix, then copies
// bytes verbatim up to (not including) term, returning the index just past
// the referenced value (term itself is left for the next loop iteration so
// it's copied unmodified).
func copyRewritten(dst *strings.Builder, s string, i int, lead, prefix string, term byte) int {
	dst.WriteString(lead)
	i += len(lead)
	dst.WriteString(prefix)
	n := len(s)
	for i < n && s[i] != term {
		dst.WriteByte(s[i])
		i++
	}
	return i
}
