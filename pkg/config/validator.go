package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if c.LLM.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "Ollama base URL is required",
		})
	} else if _, err := url.Parse(c.LLM.BaseURL); err != nil {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "invalid Ollama base URL",
		})
	}

	if c.LLM.MaxTokens < 1 || c.LLM.MaxTokens > 4096 {
		errors = append(errors, ValidationError{
			Field:   "llm.max_tokens",
			Message: "max_tokens must be between 1 and 4096",
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 1 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 1",
		})
	}

	if c.Retriever.CSVPath == "" {
		errors = append(errors, ValidationError{
			Field:   "retriever.csv_path",
			Message: "path to the transcript CSV is required",
		})
	}

	if c.Retriever.TopK < 1 {
		errors = append(errors, ValidationError{
			Field:   "retriever.top_k",
			Message: "top_k must be positive",
		})
	}

	if t := c.Retriever.SimilarityThreshold; t == nil || *t < -1 || *t > 1 {
		errors = append(errors, ValidationError{
			Field:   "retriever.similarity_threshold",
			Message: "similarity_threshold must be between -1 and 1",
		})
	}

	if c.Retriever.BatchSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "retriever.batch_size",
			Message: "batch_size must be positive",
		})
	}

	if c.Documents.ChunkSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "documents.chunk_size",
			Message: "chunk_size must be positive",
		})
	}

	if c.Documents.ChunkOverlap < 0 || c.Documents.ChunkOverlap >= c.Documents.ChunkSize {
		errors = append(errors, ValidationError{
			Field:   "documents.chunk_overlap",
			Message: "chunk_overlap must be non-negative and less than chunk_size",
		})
	}

	if c.Documents.ChunksPerPage < 1 {
		errors = append(errors, ValidationError{
			Field:   "documents.chunks_per_page",
			Message: "chunks_per_page must be positive",
		})
	}

	if c.Search.MaxResults < 1 {
		errors = append(errors, ValidationError{
			Field:   "search.max_results",
			Message: "max_results must be positive",
		})
	}

	if c.Search.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "search.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	return errors
}
