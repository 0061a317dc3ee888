// Package docstore ingests uploaded documents and serves per-document
// vector search, mirroring the transcript pipeline for free text.
package docstore

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/atreyee-m/medTranscript-QA-agent/internal/models"
	"github.com/atreyee-m/medTranscript-QA-agent/internal/types"
	"github.com/atreyee-m/medTranscript-QA-agent/pkg/embed"
	"github.com/atreyee-m/medTranscript-QA-agent/pkg/index"
)

const (
	// NoDocuments is returned when search runs before any ingestion.
	NoDocuments = "No PDF documents have been loaded yet."
	// NoMatches is returned when a search finds nothing.
	NoMatches = "No relevant information found in the PDF documents."
)

// Store owns one vector index per ingested document. Ingestion fully
// completes before the document becomes searchable; the mutex only
// guards the document map, not individual indexes.
type Store struct {
	Embedder      types.Embedder
	ChunkSize     int // max characters per chunk, default 1500
	ChunkOverlap  int // characters shared between consecutive chunks, default 150
	ChunksPerPage int // consecutive chunks grouped under one synthetic page label, default 3
	BatchSize     int // chunks per embedding call, default 8

	mu      sync.Mutex
	indexes map[string]*index.Flat[models.Chunk]
	order   []string // document IDs in ingestion order
}

func New(embedder types.Embedder) *Store {
	return &Store{
		Embedder:      embedder,
		ChunkSize:     1500,
		ChunkOverlap:  150,
		ChunksPerPage: 3,
		BatchSize:     8,
		indexes:       make(map[string]*index.Flat[models.Chunk]),
	}
}

// DocID derives a document identifier from a file name: the base name
// up to the first dot.
func DocID(name string) string {
	return strings.SplitN(filepath.Base(name), ".", 2)[0]
}

// IngestPDF extracts the document text and indexes it under an ID
// derived from the file name. Extraction is delegated to the
// langchaingo PDF loader; page boundaries are not preserved beyond the
// synthetic grouping applied during chunking.
func (s *Store) IngestPDF(ctx context.Context, name string, r io.ReaderAt, size int64) (string, error) {
	docs, err := documentloaders.NewPDF(r, size).Load(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF %s: %w", name, err)
	}

	var sb strings.Builder
	for _, doc := range docs {
		sb.WriteString(doc.PageContent)
		sb.WriteString("\n")
	}
	return s.IngestText(ctx, name, sb.String())
}

// IngestText chunks and indexes pre-extracted text. Re-ingesting the
// same name replaces the previous index for that document.
func (s *Store) IngestText(ctx context.Context, name, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("document %s contains no extractable text", name)
	}
	docID := DocID(name)

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(s.chunkSize()),
		textsplitter.WithChunkOverlap(s.chunkOverlap()),
	)
	parts, err := splitter.SplitText(text)
	if err != nil {
		return "", fmt.Errorf("failed to split document %s: %w", name, err)
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("document %s produced no chunks", name)
	}

	texts := make([]string, len(parts))
	chunks := make([]models.Chunk, len(parts))
	for i, part := range parts {
		page := i / s.chunksPerPage()
		texts[i] = part
		chunks[i] = models.Chunk{
			DocID:  docID,
			Source: fmt.Sprintf("%s_page_%d", docID, page),
			Text:   part,
		}
	}

	idx, err := s.buildIndex(ctx, texts, chunks)
	if err != nil {
		return "", fmt.Errorf("failed to index document %s: %w", name, err)
	}

	s.mu.Lock()
	if s.indexes == nil {
		s.indexes = make(map[string]*index.Flat[models.Chunk])
	}
	if _, exists := s.indexes[docID]; !exists {
		s.order = append(s.order, docID)
	}
	s.indexes[docID] = idx
	s.mu.Unlock()

	return docID, nil
}

func (s *Store) buildIndex(ctx context.Context, texts []string, chunks []models.Chunk) (*index.Flat[models.Chunk], error) {
	batchSize := s.batchSize()
	var idx *index.Flat[models.Chunk]

	for off := 0; off < len(texts); off += batchSize {
		end := min(off+batchSize, len(texts))

		vectors, err := s.Embedder.CreateEmbedding(ctx, texts[off:end])
		if err != nil {
			return nil, err
		}
		embed.NormalizeAll(vectors)

		if idx == nil {
			if len(vectors) == 0 {
				return nil, fmt.Errorf("embedder returned no vectors")
			}
			idx = index.NewFlat[models.Chunk](len(vectors[0]))
		}
		if err := idx.Add(vectors, chunks[off:end]); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// Documents returns the IDs of all loaded documents in ingestion
// order.
func (s *Store) Documents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

// Search queries one document, or every loaded document when docID is
// empty. Multi-document results are concatenated in ingestion order
// and truncated to k after merging, so a document with many strong
// matches can crowd out the others. Missing documents and an empty
// store are reported as sentinel strings, not errors.
func (s *Store) Search(ctx context.Context, query, docID string, k int) (string, error) {
	if k <= 0 {
		k = 4
	}

	s.mu.Lock()
	var ids []string
	if docID != "" {
		if _, ok := s.indexes[docID]; ok {
			ids = []string{docID}
		}
	} else {
		ids = append(ids, s.order...)
	}
	indexes := make([]*index.Flat[models.Chunk], len(ids))
	for i, id := range ids {
		indexes[i] = s.indexes[id]
	}
	empty := len(s.indexes) == 0
	s.mu.Unlock()

	if empty {
		return NoDocuments, nil
	}
	if docID != "" && len(ids) == 0 {
		return fmt.Sprintf("Document with ID %s not found.", docID), nil
	}

	vectors, err := s.Embedder.CreateEmbedding(ctx, []string{query})
	if err != nil {
		return "", fmt.Errorf("failed to embed document query: %w", err)
	}
	if len(vectors) == 0 {
		return "", fmt.Errorf("embedder returned no vectors")
	}
	q := vectors[0]
	embed.NormalizeL2(q)

	var matched []models.Chunk
	for _, idx := range indexes {
		kk := k
		if kk > idx.Len() {
			kk = idx.Len()
		}
		for _, hit := range idx.Search(q, kk) {
			matched = append(matched, idx.At(hit.Position))
		}
	}
	if len(indexes) > 1 && len(matched) > k {
		matched = matched[:k]
	}

	if len(matched) == 0 {
		return NoMatches, nil
	}

	blocks := make([]string, len(matched))
	for i, chunk := range matched {
		blocks[i] = fmt.Sprintf("[PDF-%d] %s:\n%s\n", i+1, chunk.Source, strings.TrimSpace(chunk.Text))
	}
	return strings.Join(blocks, "\n"), nil
}

func (s *Store) chunkSize() int {
	if s.ChunkSize <= 0 {
		return 1500
	}
	return s.ChunkSize
}

func (s *Store) chunkOverlap() int {
	if s.ChunkOverlap < 0 {
		return 150
	}
	return s.ChunkOverlap
}

func (s *Store) chunksPerPage() int {
	if s.ChunksPerPage <= 0 {
		return 3
	}
	return s.ChunksPerPage
}

func (s *Store) batchSize() int {
	if s.BatchSize <= 0 {
		return 8
	}
	return s.BatchSize
}
