package types

import "time"

// RecipeSource records how a recipe was produced.
type RecipeSource string

// Recipe sources.
const (
	RecipeSourceGemini   RecipeSource = "gemini"
	RecipeSourceFallback RecipeSource = "fallback"
)

// Recipe is a generated cocktail recipe as stored in the recipe cache.
type Recipe struct {
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	Ingredients  []string           `json:"ingredients"`
	Instructions []string           `json:"instructions"`
	Glass        string             `json:"glass,omitempty"`
	Garnish      string             `json:"garnish,omitempty"`
	TasteProfile map[string]float64 `json:"taste_profile"`
	Query        string             `json:"query"`
	Source       RecipeSource       `json:"source,omitempty"`
	Model        string             `json:"model,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}
