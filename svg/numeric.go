package svg

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// defaultPrecision is the number of fractional digits a newly constructed
// emitter formats coordinates with, before any caller override.
const defaultPrecision = 2

// maxPrecision bounds the emitters' Precision field (see clampPrecision); beyond this the trailing-zero-stripped
// output no longer buys any visual fidelity and only bloats the document.
const maxPrecision = 12

// clampPrecision normalizes a caller-supplied precision into [0, maxPrecision].
func clampPrecision(p int) int {
	if p < 0 {
		return 0
	}
	if p > maxPrecision {
		return maxPrecision
	}
	return p
}

// decimalSeparator reports the digit-group decimal separator conventional
// for tag, for rewriting a strconv-formatted (always-'.') number into the
// caller's locale. Go's standard library has no locale-aware float
// formatter; this covers the common European comma-decimal family and
// otherwise defers to '.', which covers the overwhelming majority of
// locales including the default (und).
func decimalSeparator(tag language.Tag) byte {
	base, conf := tag.Base()
	if conf == language.No {
		return '.'
	}
	switch base.String() {
	case "de", "fr", "es", "it", "pt", "nl", "pl", "ru", "tr", "sv", "fi", "da", "nb", "nn", "cs", "sk", "ro", "el", "uk":
		return ','
	default:
		return '.'
	}
}

// formatNumber renders v with precision fractional digits, strips trailing
// zeros (and then a bare trailing decimal point), rounds |v| below half a
// unit in the last place to exactly "0", and rewrites the decimal
// separator for tag.
func formatNumber(v float64, precision int, tag language.Tag) string {
	precision = clampPrecision(precision)

	threshold := 0.5
	for i := 0; i < precision; i++ {
		threshold /= 10
	}
	if v < 0 && -v < threshold {
		v = 0
	} else if v >= 0 && v < threshold {
		v = 0
	}

	s := strconv.AppendFloat(nil, v, 'f', precision, 64)
	out := string(s)

	if precision > 0 && strings.ContainsRune(out, '.') {
		out = strings.TrimRight(out, "0")
		out = strings.TrimSuffix(out, ".")
		if out == "" || out == "-" {
			out = "0"
		}
	}

	if sep := decimalSeparator(tag); sep != '.' {
		out = strings.Replace(out, ".", string(sep), 1)
	}
	return out
}
