package scoring

import (
	"strings"

	"github.com/jonathan/cocktail-advisor/internal/types"
)

const (
	// ShortQueryTokens is the token count from which a query is used as is.
	ShortQueryTokens = 5
	maxEnrichPhrases = 3
)

// EnrichShortQuery appends preference descriptors to queries shorter than
// ShortQueryTokens words. Strong preferences come first, then mitigating ones
// for low ratings, each in catalog order.
func EnrichShortQuery(query string, prefs types.Preferences) string {
	if len(strings.Fields(query)) >= ShortQueryTokens {
		return query
	}

	var parts []string
	for _, b := range blocks {
		if prefs.Rating(b.Name) >= 4 {
			parts = append(parts, b.positive)
		}
	}
	for _, b := range blocks {
		if prefs.Rating(b.Name) <= 2 {
			parts = append(parts, b.mitigating)
		}
	}
	if len(parts) == 0 {
		return query
	}
	if len(parts) > maxEnrichPhrases {
		parts = parts[:maxEnrichPhrases]
	}
	return query + ", " + strings.Join(parts, ", ")
}
