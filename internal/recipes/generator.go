package recipes

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jonathan/cocktail-advisor/internal/llm"
	"github.com/jonathan/cocktail-advisor/internal/prompts"
	"github.com/jonathan/cocktail-advisor/internal/schemas"
	"github.com/jonathan/cocktail-advisor/internal/scoring"
	"github.com/jonathan/cocktail-advisor/internal/types"
)

// DefaultTasteValue fills taste dimensions a model left out.
const DefaultTasteValue = 3.0

// Generator asks a generative model for a recipe, trying each model in turn.
type Generator struct {
	client llm.Client
	models []string
	now    func() time.Time
}

// NewGenerator returns a generator over the given model chain.
func NewGenerator(client llm.Client, models []string) *Generator {
	return &Generator{client: client, models: models, now: time.Now}
}

// steps accepts instructions as one string or a list.
type steps []string

func (s *steps) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("instructions must be a string or a list of strings")
	}
	*s = SplitSteps(text)
	return nil
}

type generatedRecipe struct {
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Ingredients  []string           `json:"ingredients"`
	Instructions steps              `json:"instructions"`
	Glass        string             `json:"glass"`
	Garnish      string             `json:"garnish"`
	TasteProfile map[string]float64 `json:"taste_profile"`
}

func acceptRecipe(text string) error {
	return schemas.Validate(schemas.Recipe, []byte(llm.CleanJSONBlock(text)))
}

// Generate produces a recipe for query. Every model failing yields an
// *llm.ExhaustedError.
func (g *Generator) Generate(ctx context.Context, query string, prefs types.Preferences) (*types.Recipe, error) {
	prompt, err := prompts.Render("recipes.json", "generate-recipe", map[string]string{
		"Query":       query,
		"Preferences": formatPreferences(prefs),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe prompt: %w", err)
	}

	res, err := llm.GenerateJSONWithFallback(ctx, g.client, prompt, g.models, acceptRecipe)
	if err != nil {
		return nil, err
	}

	var gen generatedRecipe
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(res.Text)), &gen); err != nil {
		return nil, &llm.ParseError{Model: res.Model, Message: "failed to decode recipe", Cause: err}
	}

	return &types.Recipe{
		Name:         strings.TrimSpace(gen.Name),
		Description:  gen.Description,
		Ingredients:  gen.Ingredients,
		Instructions: []string(gen.Instructions),
		Glass:        gen.Glass,
		Garnish:      gen.Garnish,
		TasteProfile: NormalizeTasteProfile(gen.TasteProfile),
		Query:        query,
		Source:       types.RecipeSourceGemini,
		Model:        res.Model,
		CreatedAt:    g.now().UTC(),
	}, nil
}

// NormalizeTasteProfile keeps the taste block dimensions, clamped to the
// flavor range, and fills missing ones with DefaultTasteValue.
func NormalizeTasteProfile(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(scoring.BlockNames()))
	for _, name := range scoring.BlockNames() {
		v, ok := in[name]
		if !ok {
			v = DefaultTasteValue
		}
		out[name] = types.ClampFlavor(v)
	}
	return out
}

func formatPreferences(prefs types.Preferences) string {
	var sb strings.Builder
	for _, name := range scoring.BlockNames() {
		fmt.Fprintf(&sb, "- %s : %d\n", name, prefs.Rating(name))
	}
	return strings.TrimRight(sb.String(), "\n")
}

var stepMarker = regexp.MustCompile(`(?:^|\s)\d+[.)]\s+`)

// SplitSteps breaks "1. Shaker. 2. Filtrer." into separate steps. Text
// without numbering becomes a single step.
func SplitSteps(text string) []string {
	parts := stepMarker.Split(strings.TrimSpace(text), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
