package rag

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapEmbedder assigns fixed vectors to known texts, so nearest-neighbor
// results are fully predictable.
type mapEmbedder struct {
	vectors map[string][]float32
}

func (m *mapEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vec, ok := m.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no vector for %q", text)
	}
	return vec, nil
}

func (m *mapEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, ok := m.vectors[text]
		if !ok {
			return nil, fmt.Errorf("no vector for %q", text)
		}
		out[i] = vec
	}
	return out, nil
}

func newTestEmbedder() *mapEmbedder {
	return &mapEmbedder{vectors: map[string][]float32{
		"pricing starts at $19":    {1, 0, 0},
		"captions in 30 languages": {0, 1, 0},
		"publishes on a schedule":  {0, 0, 1},
		"how much does it cost?":   {0.9, 0.1, 0},
		"can it do subtitles?":     {0.1, 0.9, 0.05},
	}}
}

func TestIndexSearchRanksByCosine(t *testing.T) {
	embedder := newTestEmbedder()
	index, err := BuildIndex(context.Background(), embedder, []string{
		"pricing starts at $19",
		"captions in 30 languages",
		"publishes on a schedule",
	})
	require.NoError(t, err)
	require.Equal(t, 3, index.Len())

	query, err := embedder.EmbedQuery(context.Background(), "how much does it cost?")
	require.NoError(t, err)

	hits := index.Search(query, 2)
	require.Len(t, hits, 2)
	assert.Equal(t, "pricing starts at $19", hits[0])
	assert.Equal(t, "captions in 30 languages", hits[1])
}

func TestIndexSearchBounds(t *testing.T) {
	embedder := newTestEmbedder()
	index, err := BuildIndex(context.Background(), embedder, []string{"pricing starts at $19"})
	require.NoError(t, err)

	query := []float32{1, 0, 0}
	assert.Len(t, index.Search(query, 10), 1, "k larger than the index returns everything")
	assert.Nil(t, index.Search(query, 0))
	assert.Nil(t, index.Search(nil, 2))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Zero(t, cosineSimilarity([]float32{1, 0}, []float32{1}), "dimension mismatch scores zero")
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 0}), "zero vector scores zero")
}

func TestRetrieverFormatsContext(t *testing.T) {
	embedder := newTestEmbedder()
	index, err := BuildIndex(context.Background(), embedder, []string{
		"pricing starts at $19",
		"captions in 30 languages",
		"publishes on a schedule",
	})
	require.NoError(t, err)

	r := NewRetriever(index, embedder, 2, "AutoStream")
	got, err := r.Context(context.Background(), "can it do subtitles?")
	require.NoError(t, err)

	assert.Equal(t, "AutoStream info:\n1. captions in 30 languages\n2. pricing starts at $19\n", got)
}

func TestRetrieverEmptyIndexReturnsSentinel(t *testing.T) {
	embedder := newTestEmbedder()
	index, err := BuildIndex(context.Background(), embedder, nil)
	require.NoError(t, err)

	r := NewRetriever(index, embedder, 2, "AutoStream")
	got, err := r.Context(context.Background(), "how much does it cost?")
	require.NoError(t, err)
	assert.Equal(t, NoInfoFound, got)
}

func TestRetrieverEmbedErrorPropagates(t *testing.T) {
	embedder := newTestEmbedder()
	index, err := BuildIndex(context.Background(), embedder, []string{"pricing starts at $19"})
	require.NoError(t, err)

	r := NewRetriever(index, embedder, 2, "AutoStream")
	_, err = r.Context(context.Background(), "text with no vector")
	assert.Error(t, err)
}
