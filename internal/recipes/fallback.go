package recipes

import (
	"strings"
	"time"

	"github.com/jonathan/cocktail-advisor/internal/scoring"
	"github.com/jonathan/cocktail-advisor/internal/textnorm"
	"github.com/jonathan/cocktail-advisor/internal/types"
)

var tasteOrder = scoring.BlockNames()

type fallbackStyle struct {
	keywords []string
	name     string
	spirit   string
	mixer    string
	garnish  string
	// Douceur, Acidite, Amertume, Force, Fraicheur, Complexite, Exotisme
	taste [7]float64
}

// fallbackStyles are matched in order against the normalized query.
var fallbackStyles = []fallbackStyle{
	{
		keywords: []string{"tropical", "exotique", "tiki", "coco", "ananas", "mangue", "passion"},
		name:     "Le Tiki du Speakeasy",
		spirit:   "Rhum blanc",
		mixer:    "Jus d'ananas",
		garnish:  "Quartier d'ananas",
		taste:    [7]float64{4.0, 2.5, 1.5, 3.0, 4.0, 2.5, 4.5},
	},
	{
		keywords: []string{"frais", "fresh", "rafraichissant", "ete", "menthe"},
		name:     "La Brise du Speakeasy",
		spirit:   "Vodka",
		mixer:    "Jus de citron vert",
		garnish:  "Feuilles de menthe",
		taste:    [7]float64{3.0, 3.5, 1.5, 3.0, 4.5, 2.0, 2.0},
	},
	{
		keywords: []string{"fort", "strong", "whisky", "bourbon", "puissant"},
		name:     "Le Secret du Speakeasy",
		spirit:   "Whisky bourbon",
		mixer:    "Jus de citron jaune",
		garnish:  "Zeste d'orange",
		taste:    [7]float64{2.5, 2.0, 3.0, 4.5, 2.0, 3.5, 1.5},
	},
	{
		keywords: []string{"amer", "bitter", "negroni", "campari"},
		name:     "L'Amer du Speakeasy",
		spirit:   "Gin",
		mixer:    "Campari",
		garnish:  "Zeste d'orange",
		taste:    [7]float64{2.0, 2.0, 4.5, 4.0, 2.5, 3.5, 1.5},
	},
	{
		keywords: []string{"doux", "sucre", "sweet", "fruit", "gourmand"},
		name:     "La Douceur du Speakeasy",
		spirit:   "Rhum ambre",
		mixer:    "Jus d'orange",
		garnish:  "Cerise",
		taste:    [7]float64{4.5, 2.0, 1.5, 3.0, 3.0, 2.0, 2.5},
	},
}

var signatureStyle = fallbackStyle{
	name:    "Signature du Barman",
	spirit:  "Gin",
	mixer:   "Jus de citron jaune",
	garnish: "Zeste de citron",
	taste:   [7]float64{3.0, 3.0, 2.5, 3.5, 3.5, 2.5, 2.0},
}

func pickStyle(query string) fallbackStyle {
	q := textnorm.Name(query)
	for _, st := range fallbackStyles {
		for _, kw := range st.keywords {
			if strings.Contains(q, kw) {
				return st
			}
		}
	}
	return signatureStyle
}

// FallbackRecipe builds a classic sour-style recipe themed on keywords in the
// query. It is used when no model can answer.
func FallbackRecipe(query string, now time.Time) *types.Recipe {
	st := pickStyle(query)
	taste := make(map[string]float64, len(st.taste))
	for i, name := range tasteOrder {
		taste[name] = st.taste[i]
	}
	return &types.Recipe{
		Name:        st.name,
		Description: "Une creation maison du barman, en attendant l'inspiration.",
		Ingredients: []string{
			"5 cl " + st.spirit,
			"2.5 cl " + st.mixer,
			"2 cl Sirop simple",
			st.garnish,
		},
		Instructions: []string{
			"Verser tous les ingredients dans un shaker rempli de glace.",
			"Shaker vigoureusement pendant 15 secondes.",
			"Filtrer dans un verre coupe refroidi.",
			"Garnir et servir.",
		},
		Glass:        "Coupe",
		Garnish:      st.garnish,
		TasteProfile: taste,
		Query:        query,
		Source:       types.RecipeSourceFallback,
		CreatedAt:    now.UTC(),
	}
}
