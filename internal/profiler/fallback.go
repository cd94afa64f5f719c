package profiler

import (
	"strings"

	"github.com/jonathan/cocktail-advisor/internal/textnorm"
	"github.com/jonathan/cocktail-advisor/internal/types"
)

type fallbackRule struct {
	keywords []string
	category types.Category
	// sweetness, acidity, bitterness, strength, freshness
	values [5]float64
}

// fallbackRules are evaluated in order; the first rule with a keyword
// contained in the name wins.
var fallbackRules = []fallbackRule{
	{[]string{"juice", "jus", "nectar", "puree"}, types.CategoryMixer, [5]float64{3.0, 2.5, 1.5, 1.5, 3.5}},
	{[]string{"syrup", "sirop", "honey", "miel", "sugar", "sucre"}, types.CategoryModifier, [5]float64{5.0, 1.5, 1.5, 1.5, 2.0}},
	{[]string{"liqueur", "cream", "creme"}, types.CategoryModifier, [5]float64{4.0, 1.5, 2.0, 2.5, 2.0}},
	{[]string{"vodka", "gin", "rum", "rhum", "whisky", "whiskey", "tequila", "cognac", "brandy"}, types.CategorySpirit, [5]float64{1.5, 1.5, 2.0, 4.0, 2.0}},
}

var garnishValues = [5]float64{2.0, 2.0, 2.0, 1.5, 2.5}

func matchRule(name string) (types.Category, [5]float64) {
	key := textnorm.Name(name)
	for _, r := range fallbackRules {
		for _, kw := range r.keywords {
			if strings.Contains(key, kw) {
				return r.category, r.values
			}
		}
	}
	return types.CategoryGarnish, garnishValues
}

// Categorize guesses an ingredient category from keywords in its name.
func Categorize(name string) types.Category {
	c, _ := matchRule(name)
	return c
}

// FallbackProfile returns the category default profile for name.
func FallbackProfile(name string) types.FlavorProfile {
	c, v := matchRule(name)
	return types.FlavorProfile{
		Sweetness:  v[0],
		Acidity:    v[1],
		Bitterness: v[2],
		Strength:   v[3],
		Freshness:  v[4],
		Category:   c,
		Source:     types.SourceFallback,
	}
}
