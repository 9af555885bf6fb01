package textutil

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer decomposes to NFD, drops combining marks, and recomposes,
// which strips diacritics ("Maracujá" -> "Maracuja").
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// stripPolicy removes every HTML element and attribute, leaving text only.
var stripPolicy = bluemonday.StrictPolicy()

// Fold canonicalises free text for comparison: diacritics stripped, lower
// cased, inner whitespace collapsed to single spaces, outer whitespace
// trimmed. Every catalog lookup and enum comparison goes through this one
// primitive so "PIX", "Pix" and "pix " resolve identically.
func Fold(value string) string {
	folded, _, err := transform.String(foldTransformer, value)
	if err != nil {
		folded = value
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// Sanitize prepares untrusted free text (customer name, address) for
// rendering and persistence: markup is stripped, control and invisible
// format runes are removed, whitespace is collapsed, and the result is
// clipped to limit runes (no clipping when limit is zero). Accents are
// preserved. Control runes go before the whitespace pass, so a tab joins
// its neighbours instead of separating them.
func Sanitize(value string, limit int) string {
	cleaned := html.UnescapeString(stripPolicy.Sanitize(value))

	var b strings.Builder
	b.Grow(len(cleaned))
	for _, r := range cleaned {
		if unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			continue
		}
		b.WriteRune(r)
	}

	out := strings.Join(strings.Fields(b.String()), " ")
	if limit > 0 {
		if asRunes := []rune(out); len(asRunes) > limit {
			out = strings.TrimSpace(string(asRunes[:limit]))
		}
	}
	return out
}
