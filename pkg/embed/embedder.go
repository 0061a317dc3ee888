// Package embed wraps the Ollama embedding model and carries the
// vector math shared by the ingestion and query paths.
package embed

import (
	"fmt"

	"github.com/tmc/langchaingo/llms/ollama"
)

type Config struct {
	Model   string
	BaseURL string // Ollama server URL
}

// NewOllama returns an Ollama-backed embedding model. The returned
// *ollama.LLM satisfies types.Embedder.
func NewOllama(config Config) (*ollama.LLM, error) {
	if config.Model == "" {
		config.Model = "nomic-embed-text:latest"
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}

	llm, err := ollama.New(
		ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}
	return llm, nil
}
