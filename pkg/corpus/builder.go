package corpus

import (
	"context"
	"fmt"

	"github.com/atreyee-m/medTranscript-QA-agent/internal/models"
	"github.com/atreyee-m/medTranscript-QA-agent/internal/types"
	"github.com/atreyee-m/medTranscript-QA-agent/pkg/embed"
	"github.com/atreyee-m/medTranscript-QA-agent/pkg/index"
	"github.com/atreyee-m/medTranscript-QA-agent/pkg/processor"
)

// BuildError reports an embedding failure during corpus construction.
// Offset is the row offset of the batch that failed.
type BuildError struct {
	Offset int
	Err    error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("corpus build failed at batch offset %d: %v", e.Offset, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Builder turns CSV rows into a populated vector index.
type Builder struct {
	Embedder  types.Embedder
	Dim       int // inferred from the first batch when zero
	BatchSize int // rows per embedding call, default 8

	// OnProgress, when set, is called after each stored batch with the
	// number of rows indexed so far and the total.
	OnProgress func(done, total int)
}

// Build normalizes, embeds and indexes rows in fixed-size batches,
// preserving row order so that index positions stay aligned with their
// records. A failed batch aborts the whole build: a partially
// populated index is never returned.
func (b *Builder) Build(ctx context.Context, rows []Row) (*index.Flat[models.Record], error) {
	batchSize := b.BatchSize
	if batchSize <= 0 {
		batchSize = 8
	}

	texts := make([]string, len(rows))
	records := make([]models.Record, len(rows))
	for i, row := range rows {
		text := processor.Normalize(row.Transcription)
		texts[i] = text
		records[i] = models.Record{
			Text:       text,
			Specialty:  row.Specialty,
			SampleName: row.SampleName,
		}
	}

	var idx *index.Flat[models.Record]
	for off := 0; off < len(texts); off += batchSize {
		end := min(off+batchSize, len(texts))

		vectors, err := b.Embedder.CreateEmbedding(ctx, texts[off:end])
		if err != nil {
			return nil, &BuildError{Offset: off, Err: err}
		}
		if len(vectors) != end-off {
			return nil, &BuildError{
				Offset: off,
				Err:    fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), end-off),
			}
		}
		embed.NormalizeAll(vectors)

		if idx == nil {
			dim := b.Dim
			if dim == 0 {
				dim = len(vectors[0])
			}
			idx = index.NewFlat[models.Record](dim)
		}
		if err := idx.Add(vectors, records[off:end]); err != nil {
			return nil, &BuildError{Offset: off, Err: err}
		}
		if b.OnProgress != nil {
			b.OnProgress(end, len(texts))
		}
	}

	if idx == nil {
		idx = index.NewFlat[models.Record](b.Dim)
	}
	return idx, nil
}
