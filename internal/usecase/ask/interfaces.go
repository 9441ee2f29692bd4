package ask

import (
	"context"

	"github.com/filescout/filescout-backend/internal/entity"
)

// Embedder produces the query vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// VectorIndex is the read side of the vector store used by retrieval.
type VectorIndex interface {
	Search(ctx context.Context, collection string, vector []float64, k int, filter entity.SearchFilter) ([]entity.Hit, error)
}

// Generator synthesizes prose answers. Reachable is probed before any
// generation attempt; an unreachable model degrades the answer, it
// never fails the request.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Reachable(ctx context.Context) bool
}
