package embedding

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b Vector
		want float64
	}{
		{"identical", Vector{1, 2, 3}, Vector{1, 2, 3}, 1},
		{"orthogonal", Vector{1, 0}, Vector{0, 1}, 0},
		{"opposite", Vector{1, 0}, Vector{-1, 0}, -1},
		{"scaled", Vector{1, 1}, Vector{3, 3}, 1},
		{"zero vector", Vector{0, 0}, Vector{1, 1}, 0},
		{"length mismatch", Vector{1}, Vector{1, 1}, 0},
		{"empty", Vector{}, Vector{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestCosineRowAndMax(t *testing.T) {
	sims := CosineRow(Vector{1, 0}, []Vector{{0, 1}, {1, 1}, {1, 0}})
	require.Len(t, sims, 3)

	idx, best := Max(sims)
	assert.Equal(t, 2, idx)
	assert.InDelta(t, 1.0, best, 1e-9)

	idx, _ = Max(nil)
	assert.Equal(t, -1, idx)
}

func TestMax_TieKeepsFirst(t *testing.T) {
	idx, v := Max([]float64{0.5, 0.9, 0.9})
	assert.Equal(t, 1, idx)
	assert.Equal(t, 0.9, v)
}

func TestTopKMean(t *testing.T) {
	assert.InDelta(t, 0.8, TopKMean([]float64{0.1, 0.9, 0.7, 0.8}, 3), 1e-9)
	assert.InDelta(t, 0.5, TopKMean([]float64{0.4, 0.6}, 3), 1e-9)
	assert.Equal(t, 0.0, TopKMean(nil, 3))
}

func TestNormalize(t *testing.T) {
	v := Normalize(Vector{3, 4})
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)
	assert.Equal(t, Vector{0, 0}, Normalize(Vector{0, 0}))
}

func TestLexicalProvider_Deterministic(t *testing.T) {
	p := NewLexicalProvider(128)
	ctx := context.Background()

	a, err := p.Encode(ctx, "Rhum Blanc")
	require.NoError(t, err)
	b, err := p.Encode(ctx, "rhum blanc")
	require.NoError(t, err)

	assert.Len(t, a, 128)
	assert.InDelta(t, 1.0, Cosine(a, b), 1e-6)
	assert.Equal(t, "lexical-128", p.Model())
}

func TestLexicalProvider_SharedWordsAreClose(t *testing.T) {
	p := NewLexicalProvider(512)
	ctx := context.Background()

	vecs, err := p.EncodeBatch(ctx, []string{"jus de citron vert", "jus citron vert", "whisky bourbon"})
	require.NoError(t, err)

	close := Cosine(vecs[0], vecs[1])
	far := Cosine(vecs[0], vecs[2])
	assert.Greater(t, close, 0.75)
	assert.Greater(t, close, far)
}

func TestLexicalProvider_ShortTypoIsNearButBelowThreshold(t *testing.T) {
	p := NewLexicalProvider(256)
	ctx := context.Background()

	vecs, err := p.EncodeBatch(ctx, []string{"vodkaa", "vodka", "tequila"})
	require.NoError(t, err)

	typo := Cosine(vecs[0], vecs[1])
	assert.Greater(t, typo, Cosine(vecs[0], vecs[2]))
	assert.Less(t, typo, 0.75)
}

func TestLexicalProvider_UnitLength(t *testing.T) {
	v, err := NewLexicalProvider(64).Encode(context.Background(), "sirop de grenadine")
	require.NoError(t, err)
	var n float64
	for _, x := range v {
		n += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(n), 1e-5)
}

// countingProvider records which texts reach the backend.
type countingProvider struct {
	seen [][]string
	err  error
}

func (c *countingProvider) Model() string { return "counting" }

func (c *countingProvider) Encode(ctx context.Context, text string) (Vector, error) {
	v, err := c.EncodeBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return v[0], nil
}

func (c *countingProvider) EncodeBatch(_ context.Context, texts []string) ([]Vector, error) {
	c.seen = append(c.seen, append([]string(nil), texts...))
	if c.err != nil {
		return nil, c.err
	}
	out := make([]Vector, len(texts))
	for i, t := range texts {
		out[i] = Vector{float32(len(t)), 1}
	}
	return out, nil
}

type memStore struct {
	data   map[string]Vector
	getErr error
	puts   int
}

func (m *memStore) GetVectors(_ context.Context, model string, texts []string) (map[string]Vector, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := map[string]Vector{}
	for _, t := range texts {
		if v, ok := m.data[model+"|"+t]; ok {
			out[t] = v
		}
	}
	return out, nil
}

func (m *memStore) PutVectors(_ context.Context, model string, vectors map[string]Vector) error {
	m.puts++
	for t, v := range vectors {
		m.data[model+"|"+t] = v
	}
	return nil
}

func TestCachedProvider_MemoizesAndDedups(t *testing.T) {
	inner := &countingProvider{}
	c := NewCachedProvider(inner, nil)
	ctx := context.Background()

	vecs, err := c.EncodeBatch(ctx, []string{"gin", "tonic", "gin"})
	require.NoError(t, err)
	assert.Equal(t, vecs[0], vecs[2])
	assert.Equal(t, [][]string{{"gin", "tonic"}}, inner.seen)

	_, err = c.EncodeBatch(ctx, []string{"tonic", "lime"})
	require.NoError(t, err)
	assert.Equal(t, []string{"lime"}, inner.seen[1])
	assert.Equal(t, 3, c.Len())
}

func TestCachedProvider_UsesStore(t *testing.T) {
	store := &memStore{data: map[string]Vector{"counting|gin": {9, 9}}}
	inner := &countingProvider{}
	c := NewCachedProvider(inner, store)

	vecs, err := c.EncodeBatch(context.Background(), []string{"gin", "vodka"})
	require.NoError(t, err)

	assert.Equal(t, Vector{9, 9}, vecs[0])
	assert.Equal(t, [][]string{{"vodka"}}, inner.seen)
	assert.Contains(t, store.data, "counting|vodka")
	assert.Equal(t, 1, store.puts)
}

func TestCachedProvider_StoreFailureIsAMiss(t *testing.T) {
	store := &memStore{data: map[string]Vector{}, getErr: errors.New("disk gone")}
	inner := &countingProvider{}
	c := NewCachedProvider(inner, store)

	v, err := c.Encode(context.Background(), "gin")
	require.NoError(t, err)
	assert.Equal(t, Vector{3, 1}, v)
}

func TestCachedProvider_InnerErrorPropagates(t *testing.T) {
	c := NewCachedProvider(&countingProvider{err: errors.New("boom")}, nil)
	_, err := c.Encode(context.Background(), "gin")
	assert.EqualError(t, err, "boom")
	assert.Equal(t, 0, c.Len())
}

type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) EmbeddingModel() string { return "text-embedding-004" }

func (f *fakeEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i), 1}
	}
	return out, nil
}

func TestGeminiProvider_ChunksBatches(t *testing.T) {
	f := &fakeEmbedder{}
	p := NewGeminiProvider(f)

	texts := make([]string, 250)
	for i := range texts {
		texts[i] = "t"
	}
	vecs, err := p.EncodeBatch(context.Background(), texts)
	require.NoError(t, err)
	assert.Len(t, vecs, 250)
	assert.Equal(t, 3, f.calls)
	assert.Equal(t, "gemini:text-embedding-004", p.Model())
}
