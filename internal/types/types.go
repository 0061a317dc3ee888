package types

import "context"

// Embedder maps a batch of texts to fixed-dimension dense vectors.
// Implementations must preserve input order and be deterministic for
// identical input. *ollama.LLM satisfies this directly.
type Embedder interface {
	CreateEmbedding(ctx context.Context, inputTexts []string) ([][]float32, error)
}
