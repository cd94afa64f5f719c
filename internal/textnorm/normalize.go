// Package textnorm normalizes ingredient names and queries into lookup keys.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripAccents removes combining diacritical marks ("Crème" -> "Creme").
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Name returns the canonical key form of an ingredient name:
// accents stripped, lowercased, trimmed, inner whitespace collapsed.
func Name(s string) string {
	s = strings.ToLower(StripAccents(s))
	return strings.Join(strings.Fields(s), " ")
}

// Query returns the cache-key form of a free-text query (lowercase, trimmed).
func Query(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
