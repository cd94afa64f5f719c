package profiler

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/cocktail-advisor/internal/types"
)

// DefaultQuantityML is the weight given to an ingredient line without a
// recognizable quantity.
const DefaultQuantityML = 30.0

// neutralFlavor is reported for a cocktail with no usable ingredients.
const neutralFlavor = 2.5

// unitML converts a unit to millilitres.
var unitML = map[string]float64{
	"ml":     1,
	"cl":     10,
	"oz":     30,
	"cup":    240,
	"cups":   240,
	"tsp":    5,
	"tbsp":   15,
	"dash":   1,
	"dashes": 1,
	"splash": 5,
}

// quantityRe matches a leading amount ("4", "1.5", "1,5", "1/2", "1 1/2")
// followed by an optional unit.
var quantityRe = regexp.MustCompile(`(?i)^\s*(\d+\s+\d+/\d+|\d+/\d+|\d+(?:[.,]\d+)?)\s*(ml|cl|oz|cups?|tsp|tbsp|dash(?:es)?|splash)?\b\.?\s*(?:de\s+|d'|of\s+)?`)

// IngredientLine is one parsed recipe ingredient.
type IngredientLine struct {
	Raw        string  `json:"raw"`
	Name       string  `json:"name"`
	QuantityML float64 `json:"quantity_ml"`
	// Measured is false when the default quantity was used.
	Measured bool `json:"measured"`
}

// ParseIngredientLine splits "4 cl rhum blanc" into a quantity in millilitres
// and an ingredient name. A count without a unit ("3 feuilles de menthe") is
// stripped from the name but weighted with DefaultQuantityML.
func ParseIngredientLine(line string) IngredientLine {
	out := IngredientLine{Raw: line, Name: strings.TrimSpace(line), QuantityML: DefaultQuantityML}

	m := quantityRe.FindStringSubmatchIndex(line)
	if m == nil {
		return out
	}
	amount, ok := parseAmount(line[m[2]:m[3]])
	if !ok {
		return out
	}
	name := strings.TrimSpace(line[m[1]:])
	if name == "" {
		return out
	}
	out.Name = name
	if m[4] >= 0 {
		out.QuantityML = amount * unitML[strings.ToLower(line[m[4]:m[5]])]
		out.Measured = true
	}
	return out
}

func parseAmount(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	total := 0.0
	for _, part := range strings.Fields(s) {
		if num, den, isFrac := strings.Cut(part, "/"); isFrac {
			n, err1 := strconv.ParseFloat(num, 64)
			d, err2 := strconv.ParseFloat(den, 64)
			if err1 != nil || err2 != nil || d == 0 {
				return 0, false
			}
			total += n / d
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0, false
		}
		total += v
	}
	return total, true
}

// CocktailFlavor is the quantity-weighted flavor of a whole drink.
type CocktailFlavor struct {
	Douceur     float64        `json:"Douceur"`
	Acidite     float64        `json:"Acidite"`
	Amertume    float64        `json:"Amertume"`
	Force       float64        `json:"Force"`
	Fraicheur   float64        `json:"Fraicheur"`
	Ingredients []ResolvedLine `json:"ingredients"`
}

// ResolvedLine is a parsed ingredient line with its resolved profile.
type ResolvedLine struct {
	IngredientLine
	Profile types.FlavorProfile `json:"profile"`
}

// CocktailProfile resolves every ingredient line and averages the profiles
// weighted by quantity. Values are rounded to one decimal and kept in the
// flavor range.
func (p *Profiler) CocktailProfile(ctx context.Context, lines []string) (CocktailFlavor, error) {
	parsed := make([]IngredientLine, 0, len(lines))
	names := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		il := ParseIngredientLine(l)
		parsed = append(parsed, il)
		names = append(names, il.Name)
	}

	out := CocktailFlavor{
		Douceur: neutralFlavor, Acidite: neutralFlavor, Amertume: neutralFlavor,
		Force: neutralFlavor, Fraicheur: neutralFlavor,
		Ingredients: []ResolvedLine{},
	}
	if len(parsed) == 0 {
		return out, nil
	}

	profiles, err := p.ProfileBatch(ctx, names)
	if err != nil {
		return CocktailFlavor{}, err
	}

	total := 0.0
	for _, il := range parsed {
		total += il.QuantityML
	}
	var sums [5]float64
	for i, il := range parsed {
		w := 1.0 / float64(len(parsed))
		if total > 0 {
			w = il.QuantityML / total
		}
		for d, v := range profiles[i].Profile.Values() {
			sums[d] += v * w
		}
		out.Ingredients = append(out.Ingredients, ResolvedLine{IngredientLine: il, Profile: profiles[i].Profile})
	}

	out.Douceur = roundFlavor(sums[0])
	out.Acidite = roundFlavor(sums[1])
	out.Amertume = roundFlavor(sums[2])
	out.Force = roundFlavor(sums[3])
	out.Fraicheur = roundFlavor(sums[4])
	return out, nil
}

func roundFlavor(v float64) float64 {
	return types.ClampFlavor(math.Round(v*10) / 10)
}
