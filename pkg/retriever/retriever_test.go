package retriever_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atreyee-m/medTranscript-QA-agent/internal/models"
	"github.com/atreyee-m/medTranscript-QA-agent/pkg/index"
	"github.com/atreyee-m/medTranscript-QA-agent/pkg/retriever"
)

// stubEmbedder returns a preset vector per exact input text.
type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (s *stubEmbedder) CreateEmbedding(_ context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, ok := s.vectors[text]
		if !ok {
			return nil, errors.New("unexpected text: " + text)
		}
		out[i] = v
	}
	return out, nil
}

// unitAt returns a 2D unit vector whose inner product with (1, 0)
// equals score.
func unitAt(score float64) []float32 {
	return []float32{float32(score), float32(math.Sqrt(1 - score*score))}
}

// scoredIndex holds five records whose similarities to the question
// vector are 0.9, 0.5, 0.3, 0.1 and 0.05.
func scoredIndex(t *testing.T) *index.Flat[models.Record] {
	t.Helper()
	idx := index.NewFlat[models.Record](2)
	scores := []float64{0.9, 0.5, 0.3, 0.1, 0.05}
	vectors := make([][]float32, len(scores))
	records := make([]models.Record, len(scores))
	for i, s := range scores {
		vectors[i] = unitAt(s)
		records[i] = models.Record{
			Text:       "transcript body",
			Specialty:  "Surgery",
			SampleName: "Sample",
		}
	}
	require.NoError(t, idx.Add(vectors, records))
	return idx
}

func questionEmbedder() *stubEmbedder {
	return &stubEmbedder{vectors: map[string][]float32{
		"what was the diagnosis?": {1, 0},
	}}
}

func TestRetrieveThresholdAndTopK(t *testing.T) {
	r := &retriever.Retriever{
		Index:     scoredIndex(t),
		Embedder:  questionEmbedder(),
		TopK:      3,
		Threshold: 0.2,
	}

	result, err := r.Retrieve(context.Background(), "what was the diagnosis?")
	require.NoError(t, err)

	// three candidates clear the 0.2 threshold
	assert.Contains(t, result, "[Document 1] (Score: 0.90")
	assert.Contains(t, result, "[Document 2] (Score: 0.50")
	assert.Contains(t, result, "[Document 3] (Score: 0.30")
	assert.NotContains(t, result, "[Document 4]")
	assert.NotContains(t, result, "0.10")
	assert.Equal(t, 3, strings.Count(result, "[Document "))
}

func TestRetrieveRendering(t *testing.T) {
	r := &retriever.Retriever{
		Index:     scoredIndex(t),
		Embedder:  questionEmbedder(),
		TopK:      1,
		Threshold: 0.2,
	}

	result, err := r.Retrieve(context.Background(), "what was the diagnosis?")
	require.NoError(t, err)
	assert.Contains(t, result, "Specialty: Surgery")
	assert.Contains(t, result, "Sample: Sample")
	assert.Contains(t, result, "transcript body")
}

func TestRetrieveAllBelowThreshold(t *testing.T) {
	r := &retriever.Retriever{
		Index:     scoredIndex(t),
		Embedder:  questionEmbedder(),
		TopK:      3,
		Threshold: 0.95,
	}

	result, err := r.Retrieve(context.Background(), "what was the diagnosis?")
	require.NoError(t, err)
	assert.Equal(t, retriever.NoResults, result)
}

func TestRetrieveEmptyIndex(t *testing.T) {
	r := &retriever.Retriever{
		Index:     index.NewFlat[models.Record](2),
		Embedder:  questionEmbedder(),
		TopK:      3,
		Threshold: 0.2,
	}

	result, err := r.Retrieve(context.Background(), "what was the diagnosis?")
	require.NoError(t, err)
	assert.Equal(t, retriever.NoResults, result)
}

func TestRetrieveEmbeddingFailure(t *testing.T) {
	r := &retriever.Retriever{
		Index:     scoredIndex(t),
		Embedder:  &stubEmbedder{err: errors.New("connection refused")},
		TopK:      3,
		Threshold: 0.2,
	}

	_, err := r.Retrieve(context.Background(), "what was the diagnosis?")
	require.Error(t, err)

	var queryErr *retriever.QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, "embedding", queryErr.Stage)
}

func TestRetrieveMissingMetadata(t *testing.T) {
	idx := index.NewFlat[models.Record](2)
	require.NoError(t, idx.Add(
		[][]float32{{1, 0}},
		[]models.Record{{Text: "no metadata here"}},
	))

	r := retriever.New(idx, questionEmbedder())
	result, err := r.Retrieve(context.Background(), "what was the diagnosis?")
	require.NoError(t, err)
	assert.Contains(t, result, "Specialty: Unknown")
	assert.Contains(t, result, "Sample: Unknown")
}
