package profiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIngredientLine(t *testing.T) {
	tests := []struct {
		line     string
		name     string
		ml       float64
		measured bool
	}{
		{"4 cl rhum blanc", "rhum blanc", 40, true},
		{"60ml Vodka", "Vodka", 60, true},
		{"2 oz gin", "gin", 60, true},
		{"1/2 oz lime juice", "lime juice", 15, true},
		{"1 1/2 oz bourbon", "bourbon", 45, true},
		{"1,5 cl sirop simple", "sirop simple", 15, true},
		{"2 cl de sirop de sucre", "sirop de sucre", 20, true},
		{"1 cup pineapple juice", "pineapple juice", 240, true},
		{"2 tsp sugar", "sugar", 10, true},
		{"1 tbsp honey", "honey", 15, true},
		{"2 dashes angostura", "angostura", 2, true},
		{"3 feuilles de menthe", "feuilles de menthe", DefaultQuantityML, false},
		{"Menthe fraiche", "Menthe fraiche", DefaultQuantityML, false},
		{"  soda  ", "soda", DefaultQuantityML, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := ParseIngredientLine(tt.line)
			assert.Equal(t, tt.name, got.Name)
			assert.InDelta(t, tt.ml, got.QuantityML, 1e-9)
			assert.Equal(t, tt.measured, got.Measured)
			assert.Equal(t, tt.line, got.Raw)
		})
	}
}

func TestCocktailProfile_QuantityWeighted(t *testing.T) {
	p := New(loadKB(t), nil, Options{})

	got, err := p.CocktailProfile(context.Background(), []string{"4 cl vodka", "2 cl sirop simple", ""})
	require.NoError(t, err)

	assert.Equal(t, 2.7, got.Douceur)
	assert.Equal(t, 1.5, got.Acidite)
	assert.Equal(t, 2.0, got.Amertume)
	assert.Equal(t, 3.5, got.Force)
	assert.Equal(t, 2.0, got.Fraicheur)
	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, "vodka", got.Ingredients[0].Name)
	assert.Equal(t, 40.0, got.Ingredients[0].QuantityML)
}

func TestCocktailProfile_Empty(t *testing.T) {
	p := New(loadKB(t), nil, Options{})

	got, err := p.CocktailProfile(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2.5, got.Douceur)
	assert.Equal(t, 2.5, got.Force)
	assert.Empty(t, got.Ingredients)
}
