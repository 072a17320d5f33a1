package classifier

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// accentStripper removes combining diacritical marks so "Café" and
// "Cafe" tokenize identically.
var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// tokenize normalizes a description into the terms fed to the model:
// lower-cased, accents stripped, split on non-alphanumeric runes, with
// single-character tokens and common English stop-words removed.
func tokenize(text string) []string {
	lowered := strings.ToLower(text)
	if stripped, _, err := transform.String(accentStripper, lowered); err == nil {
		lowered = stripped
	}

	fields := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 || stopWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
