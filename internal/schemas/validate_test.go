package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSchemas_AreValidJSON(t *testing.T) {
	for _, name := range []string{KnownIngredients, InferredProfile, Recipe} {
		t.Run(name, func(t *testing.T) {
			data, err := schemaFiles.ReadFile(name)
			require.NoError(t, err)
			var v map[string]any
			assert.NoError(t, json.Unmarshal(data, &v))
		})
	}
}

func TestValidate_InferredProfile(t *testing.T) {
	valid := `{"sweetness": 2, "acidity": 1.5, "bitterness": 3, "strength": 4, "freshness": 2, "category": "spirit"}`
	assert.NoError(t, Validate(InferredProfile, []byte(valid)))

	err := Validate(InferredProfile, []byte(`{"sweetness": "high", "category": "spirit"}`))
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.GreaterOrEqual(t, len(verr.Errors), 2)
}

func TestValidate_Recipe(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		valid bool
	}{
		{"array instructions", `{"name": "Mojito", "ingredients": ["menthe"], "instructions": ["piler"]}`, true},
		{"string instructions", `{"name": "Mojito", "ingredients": ["menthe"], "instructions": "piler"}`, true},
		{"empty ingredients", `{"name": "Mojito", "ingredients": [], "instructions": "piler"}`, false},
		{"missing name", `{"ingredients": ["menthe"], "instructions": "piler"}`, false},
		{"non numeric taste", `{"name": "M", "ingredients": ["a"], "instructions": "b", "taste_profile": {"Douceur": "haut"}}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Recipe, []byte(tt.doc))
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_KnownIngredients(t *testing.T) {
	doc := `{
		"spirits": {"vodka": {"name_fr": "Vodka", "name_en": ["vodka"], "sweetness": 1.5, "acidity": 1.5, "bitterness": 2, "strength": 4.5, "freshness": 2, "type": "neutral", "category": "spirit"}},
		"mixers": {},
		"modifiers": {"sirop simple": {"name_en": null, "sweetness": 5, "acidity": 1.5, "bitterness": 1.5, "strength": 1.5, "freshness": 2, "category": "modifier"}},
		"metadata": {"version": "1.0", "total_ingredients": 2}
	}`
	assert.NoError(t, Validate(KnownIngredients, []byte(doc)))

	bad := `{"spirits": {"vodka": {"sweetness": 1.5, "category": "liquid"}}, "mixers": {}}`
	assert.Error(t, Validate(KnownIngredients, []byte(bad)))
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("nope.schema.json", []byte(`{}`))
	var lerr *SchemaLoadError
	assert.ErrorAs(t, err, &lerr)
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := Validate(Recipe, []byte(`{"name": `))
	var lerr *SchemaLoadError
	assert.ErrorAs(t, err, &lerr)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{{Field: "name", Message: "required"}}}
	assert.Contains(t, err.Error(), "1. name: required")
}
