package knowledge

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cocktail-advisor/internal/schemas"
	"github.com/jonathan/cocktail-advisor/internal/types"
)

func TestDefault_Loads(t *testing.T) {
	kb, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 60, kb.Len())
	assert.Equal(t, EmbeddedPath, kb.Path())
	assert.Equal(t, kb.Len(), kb.Metadata().TotalIngredients)

	counts := kb.CountByCategory()
	assert.Equal(t, 15, counts[types.CategorySpirit])
	assert.Equal(t, 25, counts[types.CategoryMixer])
	assert.Equal(t, 20, counts[types.CategoryModifier])
}

func TestDefault_Vodka(t *testing.T) {
	kb, err := Default()
	require.NoError(t, err)

	key, p, ok := kb.Lookup("Vodka")
	require.True(t, ok)
	assert.Equal(t, "vodka", key)
	assert.Equal(t, 4.5, p.Strength)
	assert.Equal(t, types.SourceKnown, p.Source)
	assert.Equal(t, types.CategorySpirit, p.Category)
}

func TestDefault_ValuesInRange(t *testing.T) {
	kb, err := Default()
	require.NoError(t, err)

	for _, k := range kb.Keys() {
		p, ok := kb.Get(k)
		require.True(t, ok)
		for _, v := range p.Values() {
			assert.GreaterOrEqual(t, v, types.MinFlavor, k)
			assert.LessOrEqual(t, v, types.MaxFlavor, k)
		}
	}
}

func TestLookup_AccentsAndAliases(t *testing.T) {
	kb, err := Default()
	require.NoError(t, err)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"accent folded", "Crème de Menthe", "creme de menthe"},
		{"extra whitespace", "  jus   d'orange ", "jus d'orange"},
		{"english alias", "Lime Juice", "jus de citron vert"},
		{"shared alias", "coffee liqueur", "kahlua"},
		{"tequila alias", "tequila", "tequila blanco"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, _, ok := kb.Lookup(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, key)
		})
	}

	_, _, ok := kb.Lookup("XYZ Unknown Ingredient")
	assert.False(t, ok)
	assert.False(t, kb.Contains("pizza"))
}

func TestKeys_Sorted(t *testing.T) {
	kb, err := Default()
	require.NoError(t, err)
	keys := kb.Keys()
	for i := 1; i < len(keys); i++ {
		assert.Less(t, keys[i-1], keys[i])
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	kb, err := Default()
	require.NoError(t, err)

	p, ok := kb.Get("jus de citron vert")
	require.True(t, ok)
	require.NotEmpty(t, p.NameEN)
	p.NameEN[0] = "mutated"
	p.Sweetness = 99

	again, _ := kb.Get("jus de citron vert")
	assert.NotEqual(t, "mutated", again.NameEN[0])
	assert.NotEqual(t, 99.0, again.Sweetness)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, loadErr.Error(), "failed to read file")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_SchemaViolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"spirits": {"gin": {"strength": 4}}, "mixers": {}, "modifiers": {}}`), 0o644))

	_, err := Load(path)
	require.Error(t, err)

	var verr *schemas.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestLoad_ClampsAndNormalizesKeys(t *testing.T) {
	doc := `{
	  "spirits": {"Rhum Agricole": {"sweetness": 0.5, "acidity": 1.0, "bitterness": 2, "strength": 6, "freshness": 2, "category": "spirit", "name_en": ["rhum agricole", "agricole rum"]}},
	  "mixers": {},
	  "modifiers": {"Sirop": {"sweetness": 5, "acidity": 1.5, "bitterness": 1.5, "strength": 1.5, "freshness": 2, "category": "modifier", "name_en": null}}
	}`
	path := filepath.Join(t.TempDir(), "kb.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	kb, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, kb.Len())

	p, ok := kb.Get("rhum agricole")
	require.True(t, ok)
	assert.Equal(t, 1.5, p.Sweetness)
	assert.Equal(t, 1.5, p.Acidity)
	assert.Equal(t, 5.0, p.Strength)

	key, _, ok := kb.Lookup("Agricole Rum")
	require.True(t, ok)
	assert.Equal(t, "rhum agricole", key)
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse("mem", []byte(`{"spirits": {}, "mixers": {}, "modifiers": {}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no ingredients defined")
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := Parse("mem", []byte(`{"spirits": `))
	require.Error(t, err)
	var loadErr *LoadError
	assert.True(t, errors.As(err, &loadErr))
}
