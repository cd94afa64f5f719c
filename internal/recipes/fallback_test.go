package recipes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/cocktail-advisor/internal/scoring"
	"github.com/jonathan/cocktail-advisor/internal/types"
)

func TestFallbackRecipe_Styles(t *testing.T) {
	tests := []struct {
		query  string
		name   string
		spirit string
	}{
		{"un cocktail tropical", "Le Tiki du Speakeasy", "5 cl Rhum blanc"},
		{"quelque chose de Frais", "La Brise du Speakeasy", "5 cl Vodka"},
		{"un whisky bien fort", "Le Secret du Speakeasy", "5 cl Whisky bourbon"},
		{"un negroni", "L'Amer du Speakeasy", "5 cl Gin"},
		{"un cocktail doux", "La Douceur du Speakeasy", "5 cl Rhum ambre"},
		{"surprends-moi", "Signature du Barman", "5 cl Gin"},
	}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := FallbackRecipe(tt.query, now)
			assert.Equal(t, tt.name, r.Name)
			assert.Equal(t, tt.spirit, r.Ingredients[0])
			assert.Equal(t, types.RecipeSourceFallback, r.Source)
			assert.Equal(t, tt.query, r.Query)
			assert.Equal(t, now, r.CreatedAt)
			assert.Len(t, r.TasteProfile, len(scoring.BlockNames()))
			assert.NotEmpty(t, r.Instructions)
		})
	}
}
