package ingest

import (
	"context"

	"github.com/filescout/filescout-backend/internal/entity"
	"github.com/filescout/filescout-backend/internal/extractor"
)

// Extractor turns an uploaded file into normalized text blocks or a
// typed skip.
type Extractor interface {
	Extract(ctx context.Context, file entity.FileData) (extractor.Result, error)
}

// Embedder produces fixed-dimension vectors for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	Dimension() int
}

// VectorIndex is the write side of the vector store used by ingestion.
// Collections are created at startup, so ingestion only ever upserts.
type VectorIndex interface {
	Upsert(ctx context.Context, collection string, chunks []entity.Chunk, vectors [][]float64) error
}
