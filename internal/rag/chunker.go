package rag

import (
	"strings"
	"unicode"
)

const (
	defaultChunkSize    = 300
	defaultChunkOverlap = 30
)

// ChunkText splits a document into chunks of at most size runes with the
// requested overlap between consecutive chunks. Cuts prefer whitespace
// boundaries in the back half of the window so words stay intact.
func ChunkText(text string, size, overlap int) []string {
	if size <= 0 {
		size = defaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = defaultChunkOverlap % size
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	runes := []rune(trimmed)
	if len(runes) <= size {
		return []string{trimmed}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			if c := strings.TrimSpace(string(runes[start:])); c != "" {
				chunks = append(chunks, c)
			}
			break
		}

		cut := end
		for i := end; i > start+size/2; i-- {
			if unicode.IsSpace(runes[i-1]) {
				cut = i
				break
			}
		}

		if c := strings.TrimSpace(string(runes[start:cut])); c != "" {
			chunks = append(chunks, c)
		}

		next := cut - overlap
		if next <= start {
			next = cut
		}
		start = next
	}

	return chunks
}

// ChunkAll flattens per-document chunking over a whole corpus.
func ChunkAll(docs []string, size, overlap int) []string {
	var out []string
	for _, doc := range docs {
		out = append(out, ChunkText(doc, size, overlap)...)
	}
	return out
}
