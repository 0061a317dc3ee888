// Package index provides an exact in-memory inner-product
// nearest-neighbor index. Vectors and their payloads are stored in
// lock-step: position i of the vector storage always refers to
// position i of the payload storage.
package index

import (
	"fmt"
	"sort"
)

// ConsistencyError reports an Add call that would break the positional
// alignment between vectors and items. The index is left unchanged.
type ConsistencyError struct {
	Reason string
}

func (e *ConsistencyError) Error() string {
	return "index: " + e.Reason
}

// Hit is a single search result: the inner-product score of a stored
// vector against the query, and the vector's insertion position.
type Hit struct {
	Score    float32
	Position int
}

// Flat is a brute-force inner-product index. Callers must L2-normalize
// vectors before Add and Search so that inner product equals cosine
// similarity; the index itself performs no normalization.
type Flat[T any] struct {
	dim     int
	vectors [][]float32
	items   []T
}

func NewFlat[T any](dim int) *Flat[T] {
	return &Flat[T]{dim: dim}
}

// Add appends vectors and items in lock-step. Both slices must have
// the same length and every vector must match the index dimension;
// otherwise a ConsistencyError is returned and nothing is appended.
func (f *Flat[T]) Add(vectors [][]float32, items []T) error {
	if len(vectors) != len(items) {
		return &ConsistencyError{
			Reason: fmt.Sprintf("got %d vectors for %d items", len(vectors), len(items)),
		}
	}
	for i, v := range vectors {
		if len(v) != f.dim {
			return &ConsistencyError{
				Reason: fmt.Sprintf("vector %d has dimension %d, index expects %d", i, len(v), f.dim),
			}
		}
	}
	f.vectors = append(f.vectors, vectors...)
	f.items = append(f.items, items...)
	return nil
}

// Search returns up to k hits sorted by descending score. Exact ties
// keep ascending insertion order. Searching an empty index, or with
// k <= 0, yields an empty result.
func (f *Flat[T]) Search(query []float32, k int) []Hit {
	if k <= 0 || len(f.vectors) == 0 {
		return nil
	}
	hits := make([]Hit, len(f.vectors))
	for i, v := range f.vectors {
		hits[i] = Hit{Score: dot(query, v), Position: i}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits
}

// At returns the item stored at an insertion position.
func (f *Flat[T]) At(pos int) T {
	return f.items[pos]
}

func (f *Flat[T]) Len() int {
	return len(f.items)
}

func (f *Flat[T]) Dim() int {
	return f.dim
}

func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
