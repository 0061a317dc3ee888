// Package embedtest provides a deterministic in-process embedder for
// tests: a hashed bag-of-words vector. Identical texts map to
// identical vectors and shared vocabulary raises cosine similarity,
// which is enough to exercise the retrieval stack without a model
// server.
package embedtest

import (
	"context"
	"hash/fnv"
	"strings"
)

// Dim is the dimension of every vector the test embedder produces.
const Dim = 64

type Embedder struct {
	Err   error // returned from CreateEmbedding when set
	Calls int
}

func (e *Embedder) CreateEmbedding(_ context.Context, texts []string) ([][]float32, error) {
	e.Calls++
	if e.Err != nil {
		return nil, e.Err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, Dim)
		for _, word := range strings.Fields(strings.ToLower(text)) {
			h := fnv.New32a()
			h.Write([]byte(word))
			v[h.Sum32()%Dim]++
		}
		out[i] = v
	}
	return out, nil
}
