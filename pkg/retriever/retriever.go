// Package retriever answers questions against the transcript index.
package retriever

import (
	"context"
	"fmt"
	"strings"

	"github.com/atreyee-m/medTranscript-QA-agent/internal/models"
	"github.com/atreyee-m/medTranscript-QA-agent/internal/types"
	"github.com/atreyee-m/medTranscript-QA-agent/pkg/embed"
	"github.com/atreyee-m/medTranscript-QA-agent/pkg/index"
)

// NoResults is returned when every candidate falls below the
// similarity threshold. Callers treat it as a valid outcome, not an
// error.
const NoResults = "No relevant documents found for this query."

// QueryError reports a retrieval-subsystem failure (embedding or
// search), as opposed to an empty result.
type QueryError struct {
	Stage string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("retrieval failed during %s: %v", e.Stage, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Retriever serves top-k transcript passages with score thresholding
// and citation metadata. It reads the index without mutating it, so
// concurrent Retrieve calls are safe once the build has completed.
type Retriever struct {
	Index     *index.Flat[models.Record]
	Embedder  types.Embedder
	TopK      int
	Threshold float32
}

func New(idx *index.Flat[models.Record], embedder types.Embedder) *Retriever {
	return &Retriever{
		Index:     idx,
		Embedder:  embedder,
		TopK:      3,
		Threshold: 0.2,
	}
}

// Retrieve embeds the question and renders the top matches as numbered
// citation blocks. The question is deliberately not passed through
// processor.Normalize; only corpus text is cleaned, at ingestion.
func (r *Retriever) Retrieve(ctx context.Context, question string) (string, error) {
	vectors, err := r.Embedder.CreateEmbedding(ctx, []string{question})
	if err != nil {
		return "", &QueryError{Stage: "embedding", Err: err}
	}
	if len(vectors) == 0 {
		return "", &QueryError{Stage: "embedding", Err: fmt.Errorf("embedder returned no vectors")}
	}
	query := vectors[0]
	embed.NormalizeL2(query)

	// Over-fetch so threshold filtering does not starve the result set.
	k := r.TopK * 2
	if n := r.Index.Len(); k > n {
		k = n
	}
	hits := r.Index.Search(query, k)

	var blocks []string
	for _, hit := range hits {
		if len(blocks) >= r.TopK {
			break
		}
		// hits are sorted by descending score, so nothing after the
		// first sub-threshold candidate can qualify
		if hit.Score < r.Threshold {
			break
		}
		record := r.Index.At(hit.Position)
		blocks = append(blocks, fmt.Sprintf(
			"[Document %d] (Score: %.2f, Specialty: %s, Sample: %s)\n\n%s",
			len(blocks)+1, hit.Score,
			orUnknown(record.Specialty), orUnknown(record.SampleName),
			record.Text,
		))
	}
	if len(blocks) == 0 {
		return NoResults, nil
	}

	separator := "\n\n" + strings.Repeat("-", 80) + "\n\n"
	return strings.Join(blocks, separator), nil
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
