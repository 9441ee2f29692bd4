package export

import (
	"context"

	"github.com/filescout/filescout-backend/internal/entity"
)

// VectorIndex is the read-only slice of the vector store exports need.
type VectorIndex interface {
	Scroll(ctx context.Context, collection string, filter entity.SearchFilter) ([]entity.Chunk, error)
}
