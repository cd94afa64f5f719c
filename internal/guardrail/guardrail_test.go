package guardrail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cocktail-advisor/internal/embedding"
	"github.com/jonathan/cocktail-advisor/internal/embedding/embeddingtest"
	"github.com/jonathan/cocktail-advisor/internal/types"
)

// drinkSpace puts every keyword on the x axis; text on the y axis is off-topic.
func drinkSpace() *embeddingtest.Static {
	vecs := map[string]embedding.Vector{
		"un mojito bien frais":    {0.9, 0.1},
		"pizza 4 fromages":        {0.05, 1},
		"quelque chose de fruite": {0.5, 0.8},
	}
	for _, k := range Keywords {
		vecs[k] = embedding.Vector{1, 0}
	}
	return embeddingtest.New(vecs, embedding.Vector{0, 1})
}

func TestCheck_AcceptsDrinkQuery(t *testing.T) {
	g := New(drinkSpace())

	res, err := g.Check(context.Background(), "un mojito bien frais")
	require.NoError(t, err)
	assert.True(t, res.Accepted())
	assert.Equal(t, types.RelevanceOK, res.Status)
	assert.Greater(t, res.Similarity, 0.9)
	assert.Empty(t, res.Message)
}

func TestCheck_RejectsPizza(t *testing.T) {
	g := New(drinkSpace())

	res, err := g.Check(context.Background(), "pizza 4 fromages")
	require.NoError(t, err)
	assert.False(t, res.Accepted())
	assert.Equal(t, RefusalMessage, res.Message)
	assert.Less(t, res.Similarity, Threshold)
}

func TestCheck_ThresholdBoundary(t *testing.T) {
	g := New(drinkSpace())

	// cos((0.5, 0.8), (1, 0)) ~ 0.53
	res, err := g.Check(context.Background(), "quelque chose de fruite")
	require.NoError(t, err)
	assert.True(t, res.Accepted())
}

func TestCheck_EmptyQueryRejected(t *testing.T) {
	emb := drinkSpace()
	g := New(emb)

	res, err := g.Check(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, types.RelevanceError, res.Status)
	assert.Equal(t, 0, emb.Batches())
}

func TestCheck_Deterministic(t *testing.T) {
	g := New(drinkSpace())

	first, err := g.Check(context.Background(), "pizza 4 fromages")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := g.Check(context.Background(), "pizza 4 fromages")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCheck_KeywordsEncodedOnce(t *testing.T) {
	emb := drinkSpace()
	g := New(emb)

	for i := 0; i < 3; i++ {
		_, err := g.Check(context.Background(), "un mojito bien frais")
		require.NoError(t, err)
	}
	assert.Equal(t, len(Keywords)+3, emb.Texts())
}

func TestCheck_EmbeddingFailureIsAnError(t *testing.T) {
	g := New(&embeddingtest.Static{Err: errors.New("backend down")})

	_, err := g.Check(context.Background(), "un mojito")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend down")
}

func TestCheck_WithLexicalProvider(t *testing.T) {
	g := New(embedding.NewLexicalProvider(256))

	res, err := g.Check(context.Background(), "negroni")
	require.NoError(t, err)
	assert.True(t, res.Accepted())
	assert.InDelta(t, 1.0, res.Similarity, 1e-6)
}

func TestKeywordCatalog(t *testing.T) {
	assert.Len(t, Keywords, 22)
}
