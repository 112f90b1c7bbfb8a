// Package rag builds and queries the read-only semantic index over the
// product knowledge corpus. The index is built once at process start and is
// safe for concurrent reads.
package rag

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// LoadCorpus reads a knowledge corpus from a JSON file of nested key/value
// entries.
func LoadCorpus(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}
	return data, nil
}

// Flatten converts nested corpus entries into short "path > key: value"
// documents, one per leaf value. Map keys are visited in sorted order so the
// document set is deterministic for a given corpus.
func Flatten(data any) []string {
	return flatten(data, "")
}

func flatten(data any, prefix string) []string {
	var docs []string

	switch v := data.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			current := k
			if prefix != "" {
				current = prefix + " > " + k
			}
			switch child := v[k].(type) {
			case map[string]any, []any:
				docs = append(docs, flatten(child, current)...)
			default:
				docs = append(docs, fmt.Sprintf("%s: %v", current, child))
			}
		}

	case []any:
		for _, item := range v {
			switch child := item.(type) {
			case map[string]any, []any:
				docs = append(docs, flatten(child, prefix)...)
			default:
				docs = append(docs, fmt.Sprintf("%s: %v", prefix, child))
			}
		}
	}

	return docs
}
