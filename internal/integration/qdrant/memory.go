package qdrant

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/filescout/filescout-backend/internal/entity"
	"go.uber.org/zap"
)

// Memory is an in-process vector index with the same semantics as the
// Qdrant connector: idempotent upsert keyed by point ID, exact-match
// filters, cosine similarity and stable ID-ordered scroll. It backs
// mock mode and tests.
type Memory struct {
	mu     sync.RWMutex
	logger *zap.Logger

	collections map[string]*memoryCollection
}

type memoryCollection struct {
	dimension int
	points    map[string]memoryPoint
	nextSeq   int
}

type memoryPoint struct {
	chunk  entity.Chunk
	vector []float64
	seq    int
}

func NewMemory(logger *zap.Logger) *Memory {
	return &Memory{
		logger:      logger,
		collections: make(map[string]*memoryCollection),
	}
}

func (m *Memory) EnsureCollection(_ context.Context, collection string, dimension int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.collections[collection]
	if !ok {
		m.collections[collection] = &memoryCollection{
			dimension: dimension,
			points:    make(map[string]memoryPoint),
		}
		return nil
	}
	if col.dimension != dimension {
		return fmt.Errorf("%w: collection %q has dimension %d, expected %d",
			entity.ErrSchemaMismatch, collection, col.dimension, dimension)
	}
	return nil
}

func (m *Memory) Upsert(_ context.Context, collection string, chunks []entity.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("upsert: %d chunks but %d vectors", len(chunks), len(vectors))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.collections[collection]
	if !ok {
		return fmt.Errorf("collection %q does not exist", collection)
	}

	for i, ch := range chunks {
		if len(vectors[i]) != col.dimension {
			return fmt.Errorf("%w: vector for chunk %s has %d dimensions, collection %q expects %d",
				entity.ErrDimensionMismatch, ch.ID, len(vectors[i]), collection, col.dimension)
		}
		seq := col.nextSeq
		if existing, ok := col.points[ch.ID]; ok {
			// Overwrite in place, keep the original insertion order.
			seq = existing.seq
		} else {
			col.nextSeq++
		}
		col.points[ch.ID] = memoryPoint{chunk: ch, vector: vectors[i], seq: seq}
	}
	return nil
}

func matchesFilter(ch entity.Chunk, f entity.SearchFilter) bool {
	if f.DocumentID != "" && ch.DocumentID != f.DocumentID {
		return false
	}
	if f.Kind != "" && ch.Kind != f.Kind {
		return false
	}
	if f.Path != "" && ch.Path != f.Path {
		return false
	}
	return true
}

func (m *Memory) Search(_ context.Context, collection string, vector []float64, k int, filter entity.SearchFilter) ([]entity.Hit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	col, ok := m.collections[collection]
	if !ok {
		return nil, fmt.Errorf("collection %q does not exist", collection)
	}

	type scored struct {
		hit entity.Hit
		seq int
	}
	var results []scored
	for _, p := range col.points {
		if !matchesFilter(p.chunk, filter) {
			continue
		}
		results = append(results, scored{
			hit: entity.Hit{
				ChunkID:    p.chunk.ID,
				DocumentID: p.chunk.DocumentID,
				Score:      cosine(vector, p.vector),
				Text:       p.chunk.Text,
				Path:       p.chunk.Path,
				Kind:       p.chunk.Kind,
				Idx:        p.chunk.Idx,
			},
			seq: p.seq,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].hit.Score != results[j].hit.Score {
			return results[i].hit.Score > results[j].hit.Score
		}
		return results[i].seq < results[j].seq
	})

	if k > 0 && len(results) > k {
		results = results[:k]
	}
	hits := make([]entity.Hit, 0, len(results))
	for _, r := range results {
		hits = append(hits, r.hit)
	}
	return hits, nil
}

func (m *Memory) Scroll(_ context.Context, collection string, filter entity.SearchFilter) ([]entity.Chunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	col, ok := m.collections[collection]
	if !ok {
		return nil, fmt.Errorf("collection %q does not exist", collection)
	}

	var chunks []entity.Chunk
	for _, p := range col.points {
		if matchesFilter(p.chunk, filter) {
			chunks = append(chunks, p.chunk)
		}
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].ID < chunks[j].ID })
	return chunks, nil
}

func (m *Memory) Count(_ context.Context, collection string, filter entity.SearchFilter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	col, ok := m.collections[collection]
	if !ok {
		return 0, fmt.Errorf("collection %q does not exist", collection)
	}

	count := 0
	for _, p := range col.points {
		if matchesFilter(p.chunk, filter) {
			count++
		}
	}
	return count, nil
}

func (m *Memory) DeleteByDocument(_ context.Context, collection string, documentID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.collections[collection]
	if !ok {
		return 0, fmt.Errorf("collection %q does not exist", collection)
	}

	deleted := 0
	for id, p := range col.points {
		if p.chunk.DocumentID == documentID {
			delete(col.points, id)
			deleted++
		}
	}
	return deleted, nil
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
