package types

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampFlavor(t *testing.T) {
	assert.Equal(t, 1.5, ClampFlavor(0))
	assert.Equal(t, 1.5, ClampFlavor(-3))
	assert.Equal(t, 5.0, ClampFlavor(9.9))
	assert.Equal(t, 3.2, ClampFlavor(3.2))
	assert.Equal(t, 1.5, ClampFlavor(math.NaN()))
}

func TestFlavorProfile_Clamp(t *testing.T) {
	p := FlavorProfile{Sweetness: 7, Acidity: 1.0, Bitterness: 2, Strength: 4.5, Freshness: 5}
	assert.True(t, p.Clamp())
	assert.Equal(t, [5]float64{5, 1.5, 2, 4.5, 5}, p.Values())
	assert.False(t, p.Clamp())
}

func TestFlavorProfile_WithSourceCopies(t *testing.T) {
	score := 0.8
	p := FlavorProfile{Sweetness: 2, NameEN: []string{"vodka"}, SimilarityScore: &score, Source: SourceKnown}
	c := p.WithSource(SourceCache)

	c.NameEN[0] = "changed"
	*c.SimilarityScore = 0.1

	assert.Equal(t, SourceCache, c.Source)
	assert.Equal(t, SourceKnown, p.Source)
	assert.Equal(t, "vodka", p.NameEN[0])
	assert.Equal(t, 0.8, *p.SimilarityScore)
	assert.True(t, p.SameValues(c))
}

func TestFlavorProfile_JSONOmitsOptional(t *testing.T) {
	data, err := json.Marshal(FlavorProfile{Sweetness: 2, Category: CategoryGarnish, Source: SourceFallback})
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, `"category":"garnish"`)
	assert.NotContains(t, s, "similarity_score")
	assert.NotContains(t, s, "timestamp")
}

func TestCategory_Valid(t *testing.T) {
	assert.True(t, CategorySpirit.Valid())
	assert.False(t, Category("garnishes").Valid())
}

func TestPreferences_Rating(t *testing.T) {
	p := Preferences{"Douceur": 5, "Force": 0, "Amertume": 9}
	assert.Equal(t, 5, p.Rating("Douceur"))
	assert.Equal(t, 1, p.Rating("Force"))
	assert.Equal(t, 5, p.Rating("Amertume"))
	assert.Equal(t, Neutral, p.Rating("Exotisme"))
	assert.Equal(t, Neutral, Preferences(nil).Rating("Douceur"))
}
