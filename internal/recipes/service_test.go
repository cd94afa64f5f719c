package recipes

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cocktail-advisor/internal/embedding"
	"github.com/jonathan/cocktail-advisor/internal/guardrail"
	"github.com/jonathan/cocktail-advisor/internal/llm/llmtest"
	"github.com/jonathan/cocktail-advisor/internal/scoring"
	"github.com/jonathan/cocktail-advisor/internal/types"
)

// keywordGate accepts queries containing "cocktail" or a spirit name.
type keywordGate struct {
	err error
}

func (g keywordGate) Check(_ context.Context, text string) (types.RelevanceResult, error) {
	if g.err != nil {
		return types.RelevanceResult{}, g.err
	}
	for _, w := range []string{"cocktail", "gin", "rhum", "mojito"} {
		if strings.Contains(strings.ToLower(text), w) {
			return types.RelevanceResult{Status: types.RelevanceOK, Similarity: 0.8}, nil
		}
	}
	return types.RelevanceResult{Status: types.RelevanceError, Similarity: 0.1, Message: guardrail.RefusalMessage}, nil
}

type failingStore struct{}

func (failingStore) GetRecipe(context.Context, string) (*types.Recipe, error) {
	return nil, errors.New("disk gone")
}
func (failingStore) PutRecipe(context.Context, string, *types.Recipe) error {
	return errors.New("disk gone")
}
func (failingStore) CountRecipes(context.Context) (int, error) { return 0, errors.New("disk gone") }

func newService(t *testing.T, fake *llmtest.Fake, store Store) *Service {
	t.Helper()
	var gen *Generator
	if fake != nil {
		gen = NewGenerator(fake, recipeModels)
	}
	return NewService(Options{
		Guardrail:         keywordGate{},
		Generator:         gen,
		Store:             store,
		StoreName:         "file",
		Scorer:            scoring.New(embedding.NewLexicalProvider(128)),
		GenerationTimeout: time.Second,
	})
}

func TestRecipe_RejectsOffTopic(t *testing.T) {
	fake := llmtest.New(map[string]string{"flash": validRecipe})
	s := newService(t, fake, nil)

	res, err := s.Recipe(context.Background(), "pizza 4 fromages", nil)
	require.NoError(t, err)
	assert.Equal(t, types.RelevanceError, res.Status)
	assert.Equal(t, guardrail.RefusalMessage, res.Message)
	assert.Nil(t, res.Recipe)
	assert.Empty(t, fake.Calls())
}

func TestRecipe_GeneratesThenServesFromCache(t *testing.T) {
	fake := llmtest.New(map[string]string{"flash": validRecipe})
	store := NewFileStore(filepath.Join(t.TempDir(), "recipes.json"), 10)
	s := newService(t, fake, store)
	ctx := context.Background()

	first, err := s.Recipe(ctx, "Un cocktail au gin", types.Preferences{scoring.Acidite: 5})
	require.NoError(t, err)
	require.NotNil(t, first.Recipe)
	assert.False(t, first.Cached)
	assert.Equal(t, "Le Jardin Secret", first.Recipe.Name)
	require.NotNil(t, first.Scoring)
	require.NotNil(t, first.ProgressionPlan)
	require.NotNil(t, first.TasteBio)
	assert.Equal(t, "Le Jardin Secret", first.ProgressionPlan.Cocktail)

	second, err := s.Recipe(ctx, "  un cocktail au GIN ", types.Preferences{scoring.Acidite: 5})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Recipe.Name, second.Recipe.Name)
	assert.Len(t, fake.Calls(), 1)

	n, err := s.CountCached(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecipe_EnrichesShortQueries(t *testing.T) {
	fake := llmtest.New(map[string]string{"flash": validRecipe})
	store := NewFileStore(filepath.Join(t.TempDir(), "recipes.json"), 0)
	s := newService(t, fake, store)
	ctx := context.Background()
	prefs := types.Preferences{scoring.Douceur: 5, scoring.Force: 1}

	res, err := s.Recipe(ctx, "mojito", prefs)
	require.NoError(t, err)
	require.NotNil(t, res.Scoring)
	assert.Equal(t, "mojito, doux et sucre, leger en alcool", res.Scoring.EnrichedQuery)
	assert.Contains(t, fake.LastPrompt(), "mojito, doux et sucre, leger en alcool")

	cached, err := store.GetRecipe(ctx, CacheKey("mojito, doux et sucre, leger en alcool"))
	require.NoError(t, err)
	assert.NotNil(t, cached)

	plain, err := s.Recipe(ctx, "mojito", nil)
	require.NoError(t, err)
	assert.False(t, plain.Cached)
	assert.Equal(t, "mojito", plain.Scoring.EnrichedQuery)
}

func TestRecipe_LongQueriesAreNotEnriched(t *testing.T) {
	s := newService(t, nil, nil)

	query := "un cocktail au rhum bien frais"
	res, err := s.Recipe(context.Background(), query, types.Preferences{scoring.Douceur: 5})
	require.NoError(t, err)
	assert.Equal(t, query, res.Scoring.EnrichedQuery)
	assert.Equal(t, query, res.Recipe.Query)
}

func TestRecipe_FallbackIgnoresMitigatingDescriptors(t *testing.T) {
	s := newService(t, nil, nil)

	res, err := s.Recipe(context.Background(), "un cocktail", types.Preferences{scoring.Douceur: 1})
	require.NoError(t, err)
	assert.Equal(t, "Signature du Barman", res.Recipe.Name)
	assert.Equal(t, "un cocktail, peu sucre", res.Recipe.Query)
}

func TestRecipe_FallbackWhenModelsFail(t *testing.T) {
	fake := llmtest.New(nil)
	fake.Errs = map[string]error{"flash": errors.New("quota"), "lite": errors.New("quota"), "pro": errors.New("quota")}
	store := NewFileStore(filepath.Join(t.TempDir(), "recipes.json"), 0)
	s := newService(t, fake, store)

	res, err := s.Recipe(context.Background(), "un cocktail tropical au rhum", nil)
	require.NoError(t, err)
	require.NotNil(t, res.Recipe)
	assert.Equal(t, types.RecipeSourceFallback, res.Recipe.Source)
	assert.Equal(t, "Le Tiki du Speakeasy", res.Recipe.Name)

	cached, err := store.GetRecipe(context.Background(), CacheKey("un cocktail tropical au rhum"))
	require.NoError(t, err)
	assert.NotNil(t, cached)
}

func TestRecipe_GenerationTimeout(t *testing.T) {
	fake := llmtest.New(nil)
	fake.Block = true
	s := newService(t, fake, nil)
	s.opts.GenerationTimeout = 20 * time.Millisecond

	start := time.Now()
	res, err := s.Recipe(context.Background(), "un mojito", nil)
	require.NoError(t, err)
	assert.Equal(t, types.RecipeSourceFallback, res.Recipe.Source)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRecipe_NoGeneratorUsesFallback(t *testing.T) {
	s := newService(t, nil, nil)

	res, err := s.Recipe(context.Background(), "un cocktail", nil)
	require.NoError(t, err)
	assert.Equal(t, "Signature du Barman", res.Recipe.Name)
	assert.False(t, res.Cached)
}

func TestRecipe_StoreFailuresDegrade(t *testing.T) {
	fake := llmtest.New(map[string]string{"flash": validRecipe})
	s := newService(t, fake, failingStore{})

	res, err := s.Recipe(context.Background(), "un gin tonic", nil)
	require.NoError(t, err)
	require.NotNil(t, res.Recipe)
	assert.False(t, res.Cached)
	assert.Equal(t, types.RecipeSourceGemini, res.Recipe.Source)
}

func TestRecipe_GuardrailErrorIsReturned(t *testing.T) {
	s := NewService(Options{Guardrail: keywordGate{err: errors.New("embedding offline")}})

	_, err := s.Recipe(context.Background(), "un mojito", nil)
	assert.ErrorContains(t, err, "embedding offline")
}
