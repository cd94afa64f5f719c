package recipes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cocktail-advisor/internal/types"
)

func TestCacheKey(t *testing.T) {
	assert.Equal(t, CacheKey("Un Mojito"), CacheKey("  un mojito "))
	assert.NotEqual(t, CacheKey("un mojito"), CacheKey("un negroni"))
	assert.Len(t, CacheKey("x"), 64)
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "recipes.json")
	s := NewFileStore(path, 0)

	miss, err := s.GetRecipe(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, miss)

	r := &types.Recipe{Name: "Daiquiri", Ingredients: []string{"5 cl rhum"}, Query: "daiquiri", CreatedAt: time.Unix(10, 0).UTC()}
	require.NoError(t, s.PutRecipe(ctx, "k", r))

	// A fresh instance reads what the first one wrote.
	got, err := NewFileStore(path, 0).GetRecipe(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Daiquiri", got.Name)

	n, err := s.CountRecipes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFileStore_EvictsOldest(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "recipes.json"), 2)

	for i := 1; i <= 3; i++ {
		r := &types.Recipe{Name: fmt.Sprintf("r%d", i), CreatedAt: time.Unix(int64(i), 0)}
		require.NoError(t, s.PutRecipe(ctx, fmt.Sprintf("k%d", i), r))
	}

	n, err := s.CountRecipes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	oldest, err := s.GetRecipe(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, oldest)
}

func TestFileStore_CorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "recipes.json")
	require.NoError(t, os.WriteFile(path, []byte("[broken"), 0o644))
	s := NewFileStore(path, 0)

	_, err := s.GetRecipe(ctx, "k")
	assert.Error(t, err)

	require.NoError(t, s.PutRecipe(ctx, "k", &types.Recipe{Name: "Spritz"}))
	got, err := NewFileStore(path, 0).GetRecipe(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Spritz", got.Name)
}

func TestFileStore_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "recipes.json"), 0)
	require.NoError(t, s.PutRecipe(ctx, "k", &types.Recipe{Name: "Gimlet"}))

	got, _ := s.GetRecipe(ctx, "k")
	got.Name = "changed"

	again, _ := s.GetRecipe(ctx, "k")
	assert.Equal(t, "Gimlet", again.Name)
}
