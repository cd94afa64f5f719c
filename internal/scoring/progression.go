package scoring

import (
	"fmt"
	"strings"

	"github.com/jonathan/cocktail-advisor/internal/types"
)

const (
	strengthScore   = 60.0
	affinityScore   = 50.0
	discoveryScore  = 30.0
	defaultCocktail = "ce cocktail"
)

// discoveries suggests classics for under-covered dimensions.
var discoveries = map[string]string{
	Amertume:   "Negroni ou Aperol Spritz pour decouvrir l'amertume",
	Exotisme:   "Mai Tai ou Pina Colada pour le cote tropical",
	Fraicheur:  "Mojito ou Moscow Mule pour la fraicheur",
	Complexite: "Old Fashioned ou Manhattan pour la complexite",
}

// Plan is a discovery path suggested after a cocktail.
type Plan struct {
	Cocktail    string   `json:"cocktail"`
	Strengths   []string `json:"strengths"`
	NextSteps   []string `json:"next_steps"`
	Suggestions []string `json:"suggestions"`
}

// ProgressionPlan derives a discovery plan from a scoring result.
func ProgressionPlan(cocktail string, res types.ScoringResult) Plan {
	if strings.TrimSpace(cocktail) == "" {
		cocktail = defaultCocktail
	}
	p := Plan{
		Cocktail:    cocktail,
		Strengths:   []string{},
		NextSteps:   append([]string{}, res.Recommendations...),
		Suggestions: []string{},
	}
	for _, b := range blocks {
		if res.BlockScores[b.Name] > strengthScore {
			p.Strengths = append(p.Strengths, b.Name)
		}
	}
	for _, name := range weakest(res.BlockScores, 2) {
		if s, ok := discoveries[name]; ok && res.BlockScores[name] < discoveryScore {
			p.Suggestions = append(p.Suggestions, s)
		}
	}
	return p
}

func (p Plan) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Plan de decouverte apres %s\n", p.Cocktail)
	if len(p.Strengths) > 0 {
		fmt.Fprintf(&sb, "- Points forts: %s\n", strings.Join(p.Strengths, ", "))
	}
	sb.WriteString("\nProchaines explorations:\n")
	for i, step := range p.NextSteps {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, step)
	}
	if len(p.Suggestions) > 0 {
		sb.WriteString("\nCocktails a essayer:\n")
		for _, s := range p.Suggestions {
			fmt.Fprintf(&sb, "- %s\n", s)
		}
	}
	return sb.String()
}

// Bio is a short portrait of a user's palate.
type Bio struct {
	Palate      string   `json:"palate"`
	Description string   `json:"description"`
	Affinities  []string `json:"affinities"`
}

// TasteBio classifies the palate from preferences and lists the dimensions
// the latest query covered well.
func TasteBio(prefs types.Preferences, blockScores map[string]float64) Bio {
	var b Bio
	switch {
	case prefs.Rating(Douceur) >= 4 && prefs.Rating(Force) <= 2:
		b.Palate = "Amateur de douceur"
		b.Description = "Vous appreciez les cocktails doux et accessibles, avec des saveurs fruitees et sucrees."
	case prefs.Rating(Amertume) >= 4 && prefs.Rating(Force) >= 4:
		b.Palate = "Connaisseur averti"
		b.Description = "Vous avez un palais raffine qui apprecie la complexite et les saveurs intenses."
	case prefs.Rating(Fraicheur) >= 4 && prefs.Rating(Acidite) >= 4:
		b.Palate = "Esprit frais"
		b.Description = "Vous recherchez la fraicheur et le peps, avec une preference pour les notes acidulees."
	case prefs.Rating(Exotisme) >= 4:
		b.Palate = "Explorateur tropical"
		b.Description = "Le depaysement vous attire, avec une affection pour les cocktails exotiques et colores."
	default:
		b.Palate = "Eclectique equilibre"
		b.Description = "Votre palais est versatile et apprecie une variete de profils gustatifs."
	}

	b.Affinities = []string{}
	for _, blk := range blocks {
		if blockScores[blk.Name] > affinityScore {
			b.Affinities = append(b.Affinities, blk.Name)
		}
	}
	return b
}

func (b Bio) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n%s\n", b.Palate, b.Description)
	if len(b.Affinities) > 0 {
		fmt.Fprintf(&sb, "\nAffinites detectees: %s\n", strings.Join(b.Affinities, ", "))
	}
	return sb.String()
}
