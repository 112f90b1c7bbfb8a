package rag

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// Index is an immutable in-memory vector index over corpus chunks. Built once
// at process start; Search holds no locks because nothing mutates after
// BuildIndex returns.
type Index struct {
	texts   []string
	vectors [][]float32
}

// BuildIndex embeds the chunk texts and assembles the index.
func BuildIndex(ctx context.Context, embedder Embedder, chunks []string) (*Index, error) {
	vectors, err := embedder.EmbedDocuments(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embed corpus: %d vectors for %d chunks", len(vectors), len(chunks))
	}
	return &Index{texts: chunks, vectors: vectors}, nil
}

// Len returns the number of indexed chunks.
func (ix *Index) Len() int {
	return len(ix.texts)
}

// Search returns up to k chunk texts nearest to the query vector by cosine
// similarity, best first.
func (ix *Index) Search(query []float32, k int) []string {
	if ix == nil || len(ix.texts) == 0 || len(query) == 0 || k <= 0 {
		return nil
	}

	type hit struct {
		idx   int
		score float64
	}
	hits := make([]hit, 0, len(ix.texts))
	for i, vec := range ix.vectors {
		hits = append(hits, hit{idx: i, score: cosineSimilarity(query, vec)})
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	if k > len(hits) {
		k = len(hits)
	}
	results := make([]string, 0, k)
	for _, h := range hits[:k] {
		results = append(results, ix.texts[h.idx])
	}
	return results
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
