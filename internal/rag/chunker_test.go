package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTextShortTextSingleChunk(t *testing.T) {
	chunks := ChunkText("AutoStream edits clips automatically.", 300, 30)
	assert.Equal(t, []string{"AutoStream edits clips automatically."}, chunks)
}

func TestChunkTextEmpty(t *testing.T) {
	assert.Nil(t, ChunkText("", 300, 30))
	assert.Nil(t, ChunkText("   \n\t ", 300, 30))
}

func TestChunkTextRespectsSizeAndCovers(t *testing.T) {
	words := make([]string, 120)
	for i := range words {
		words[i] = "word"
	}
	text := strings.Join(words, " ")

	chunks := ChunkText(text, 100, 20)
	require.Greater(t, len(chunks), 1)

	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 100)
		assert.NotEmpty(t, strings.TrimSpace(c))
	}

	// Whitespace-preferred cuts keep words intact.
	for _, c := range chunks {
		for _, w := range strings.Fields(c) {
			assert.Equal(t, "word", w)
		}
	}
}

func TestChunkTextOverlapCarriesTail(t *testing.T) {
	words := make([]string, 60)
	for i := range words {
		words[i] = "word"
	}
	chunks := ChunkText(strings.Join(words, " "), 100, 20)
	require.Greater(t, len(chunks), 1)

	// The tail of one chunk reappears at the head of the next.
	for i := 1; i < len(chunks); i++ {
		head := strings.Fields(chunks[i])[0]
		assert.True(t, strings.HasSuffix(chunks[i-1], head), "chunk %d should overlap its predecessor", i)
	}
}

func TestChunkTextTerminatesOnDegenerateOverlap(t *testing.T) {
	// No whitespace at all plus overlap close to size is the worst case for
	// the advance step; the chunker must still make progress.
	text := strings.Repeat("x", 500)
	chunks := ChunkText(text, 100, 99)
	require.NotEmpty(t, chunks)

	var total int
	for _, c := range chunks {
		total += len(c)
	}
	assert.GreaterOrEqual(t, total, 500)
}

func TestChunkAll(t *testing.T) {
	docs := []string{"first doc", "", "second doc"}
	chunks := ChunkAll(docs, 300, 30)
	assert.Equal(t, []string{"first doc", "second doc"}, chunks)
}
