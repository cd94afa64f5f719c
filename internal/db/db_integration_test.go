//go:build integration
// +build integration

package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cocktail-advisor/internal/types"
)

func setupTestDB(t *testing.T, maxRecipes int) *DB {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := Connect(ctx, dbURL, maxRecipes)
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to DB: %v", err)
	}
	require.NoError(t, db.EnsureSchema(ctx))
	return db
}

func testRecipe(name string, at time.Time) *types.Recipe {
	return &types.Recipe{
		Name:         name,
		Ingredients:  []string{"5 cl Gin"},
		Instructions: []string{"Verser."},
		TasteProfile: map[string]float64{"Douceur": 2},
		Query:        name,
		Source:       types.RecipeSourceFallback,
		CreatedAt:    at.UTC().Truncate(time.Millisecond),
	}
}

func TestRecipeRoundTrip_Integration(t *testing.T) {
	db := setupTestDB(t, 0)
	defer db.Close()
	ctx := context.Background()

	key := "it-" + uuid.NewString()
	defer func() { _ = db.DeleteRecipe(ctx, key) }()

	miss, err := db.GetRecipe(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, miss)

	want := testRecipe("Gin Fizz", time.Now())
	require.NoError(t, db.PutRecipe(ctx, key, want))

	got, err := db.GetRecipe(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Ingredients, got.Ingredients)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))

	// Upsert replaces.
	want.Name = "Gin Fizz Royal"
	require.NoError(t, db.PutRecipe(ctx, key, want))
	got, err = db.GetRecipe(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "Gin Fizz Royal", got.Name)
}

func TestPutRecipe_Prunes_Integration(t *testing.T) {
	db := setupTestDB(t, 2)
	defer db.Close()
	ctx := context.Background()

	base := time.Now().Add(time.Hour)
	keys := make([]string, 3)
	for i := range keys {
		keys[i] = "it-" + uuid.NewString()
		require.NoError(t, db.PutRecipe(ctx, keys[i], testRecipe(keys[i], base.Add(time.Duration(i)*time.Minute))))
	}
	defer func() {
		for _, k := range keys {
			_ = db.DeleteRecipe(ctx, k)
		}
	}()

	n, err := db.CountRecipes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	oldest, err := db.GetRecipe(ctx, keys[0])
	require.NoError(t, err)
	assert.Nil(t, oldest)
}
