package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/model"
	logx "github.com/JayanthSrinivas06/autostream-agent/pkg/logger"
)

// NoInfoFound is the sentinel context returned when the index yields nothing.
const NoInfoFound = "No info found."

// ContextProvider is what the turn graph consumes to ground inquiry answers.
type ContextProvider interface {
	Context(ctx context.Context, query string) (string, error)
}

// Retriever answers queries against the semantic index and formats the hits
// into a context block for the response prompt.
type Retriever struct {
	index    *Index
	embedder Embedder
	topK     int
	header   string
}

// NewRetriever wires an index and embedder; header names the business whose
// facts the corpus holds.
func NewRetriever(index *Index, embedder Embedder, topK int, businessName string) *Retriever {
	if topK <= 0 {
		topK = 2
	}
	return &Retriever{
		index:    index,
		embedder: embedder,
		topK:     topK,
		header:   fmt.Sprintf("%s info:", businessName),
	}
}

// Context embeds the query, collects the top-k nearest chunks, and formats
// them as a numbered list under the header. Deterministic for a fixed index.
func (r *Retriever) Context(ctx context.Context, query string) (string, error) {
	vec, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}

	hits := r.index.Search(vec, r.topK)
	if len(hits) == 0 {
		return NoInfoFound, nil
	}

	var b strings.Builder
	b.WriteString(r.header)
	b.WriteString("\n")
	for i, hit := range hits {
		fmt.Fprintf(&b, "%d. %s\n", i+1, hit)
	}

	logx.Debug().Int("hits", len(hits)).Msg("Knowledge retrieved")
	return b.String(), nil
}

var _ ContextProvider = (*Retriever)(nil)

// BuildIndexFromFile loads, flattens, chunks and embeds a knowledge corpus.
func BuildIndexFromFile(ctx context.Context, embedder Embedder, cfg model.RetrieverConfig) (*Index, error) {
	corpus, err := LoadCorpus(cfg.KnowledgeBasePath)
	if err != nil {
		return nil, err
	}
	docs := Flatten(corpus)
	chunks := ChunkAll(docs, cfg.ChunkSize, cfg.ChunkOverlap)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("knowledge base %q produced no chunks", cfg.KnowledgeBasePath)
	}

	index, err := BuildIndex(ctx, embedder, chunks)
	if err != nil {
		return nil, err
	}
	logx.Info().Int("documents", len(docs)).Int("chunks", index.Len()).Msg("Knowledge index built")
	return index, nil
}
