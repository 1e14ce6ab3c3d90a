// Package textutils provides the text normalization helpers used by the
// entity classifier and the batch override pass. Payer names arrive with
// inconsistent casing, trailing spaces and accents, so every comparison in
// the engine goes through the same normalization.
package textutils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold removes diacritics: "CRÉDITO" becomes "CREDITO". Lists such as the
// corporate-suffix table are stored unaccented, so folding both sides makes
// the containment checks accent-insensitive.
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeKey upper-cases, trims and folds a name so it can be compared
// against allow-lists and suffix tables.
func NormalizeKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(Fold(s)))
}

// Truncate cuts a string to at most n runes. Payer names on ledger
// complements are bounded to 40 characters to match the accounting import.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// IsUpper reports whether the string has at least one letter and every
// letter is upper-case. All-caps multi-word names are one of the classifier
// heuristics for company names.
func IsUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
