package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/cocktail-advisor/internal/types"
)

func TestEnrichShortQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		prefs types.Preferences
		want  string
	}{
		{
			name:  "strong then mitigating",
			query: "mojito",
			prefs: types.Preferences{Douceur: 5, Force: 1, Fraicheur: 4},
			want:  "mojito, doux et sucre, rafraichissant, leger en alcool",
		},
		{
			name:  "capped at three phrases",
			query: "un cocktail",
			prefs: types.Preferences{Douceur: 5, Acidite: 4, Amertume: 4, Exotisme: 5},
			want:  "un cocktail, doux et sucre, acidule et frais, avec une touche amere",
		},
		{
			name:  "mitigating for every block",
			query: "spritz",
			prefs: types.Preferences{Complexite: 1, Exotisme: 2},
			want:  "spritz, simple et direct, classique",
		},
		{
			name:  "neutral preferences leave query alone",
			query: "mojito",
			prefs: types.Preferences{},
			want:  "mojito",
		},
		{
			name:  "five tokens pass through",
			query: "un mojito bien frais svp",
			prefs: types.Preferences{Douceur: 5},
			want:  "un mojito bien frais svp",
		},
		{
			name:  "four tokens are enriched",
			query: "un mojito bien frais",
			prefs: types.Preferences{Amertume: 5},
			want:  "un mojito bien frais, avec une touche amere",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EnrichShortQuery(tt.query, tt.prefs))
		})
	}
}
