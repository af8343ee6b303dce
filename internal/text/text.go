// Package text normalizes free-text header values for indexing and
// lookup: titles arrive with mixed case and diacritics ("Sí Bheag, Sí
// Mhór") but searches rarely spell them that way.
package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold strips combining marks: "Sí" becomes "Si". Transformers carry
// state, so the chain is built per call.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Tokenize lowercases, folds, and splits into alphanumeric terms.
func Tokenize(s string) []string {
	folded := strings.ToLower(Fold(s))
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
