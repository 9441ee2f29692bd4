package qdrant

import (
	"context"
	"testing"

	"github.com/filescout/filescout-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMemoryWithCollection(t *testing.T, dim int) *Memory {
	t.Helper()
	m := NewMemory(zap.NewNop())
	require.NoError(t, m.EnsureCollection(context.Background(), "chunks", dim))
	return m
}

func TestMemoryUpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := newMemoryWithCollection(t, 2)

	chunk := entity.Chunk{ID: "c1", DocumentID: "d1", Idx: 0, Text: "hello", Kind: entity.KindText}
	vec := [][]float64{{1, 0}}

	require.NoError(t, m.Upsert(ctx, "chunks", []entity.Chunk{chunk}, vec))
	require.NoError(t, m.Upsert(ctx, "chunks", []entity.Chunk{chunk}, vec))

	count, err := m.Count(ctx, "chunks", entity.SearchFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, count, "repeated upsert must not create duplicates")
}

func TestMemoryEnsureCollectionSchemaMismatch(t *testing.T) {
	ctx := context.Background()
	m := newMemoryWithCollection(t, 4)

	err := m.EnsureCollection(ctx, "chunks", 8)
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrSchemaMismatch)
}

func TestMemoryUpsertRejectsWrongDimension(t *testing.T) {
	ctx := context.Background()
	m := newMemoryWithCollection(t, 3)

	err := m.Upsert(ctx, "chunks",
		[]entity.Chunk{{ID: "c1", DocumentID: "d1"}},
		[][]float64{{1, 0}},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrDimensionMismatch)
}

func TestMemorySearchRanksByCosine(t *testing.T) {
	ctx := context.Background()
	m := newMemoryWithCollection(t, 2)

	chunks := []entity.Chunk{
		{ID: "far", DocumentID: "d1", Idx: 0, Text: "far", Kind: entity.KindText},
		{ID: "near", DocumentID: "d1", Idx: 1, Text: "near", Kind: entity.KindText},
	}
	vectors := [][]float64{{0, 1}, {1, 0.1}}
	require.NoError(t, m.Upsert(ctx, "chunks", chunks, vectors))

	hits, err := m.Search(ctx, "chunks", []float64{1, 0}, 10, entity.SearchFilter{})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "near", hits[0].ChunkID)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestMemorySearchAppliesExactFilters(t *testing.T) {
	ctx := context.Background()
	m := newMemoryWithCollection(t, 2)

	chunks := []entity.Chunk{
		{ID: "a", DocumentID: "d1", Kind: entity.KindText, Path: "/tmp/a.txt"},
		{ID: "b", DocumentID: "d2", Kind: entity.KindCSV, Path: "/tmp/b.csv"},
	}
	require.NoError(t, m.Upsert(ctx, "chunks", chunks, [][]float64{{1, 0}, {1, 0}}))

	hits, err := m.Search(ctx, "chunks", []float64{1, 0}, 10, entity.SearchFilter{DocumentID: "d2"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "b", hits[0].ChunkID)

	// Filters are exact matches: a path prefix must not match.
	hits, err = m.Search(ctx, "chunks", []float64{1, 0}, 10, entity.SearchFilter{Path: "/tmp"})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestMemoryDeleteByDocument(t *testing.T) {
	ctx := context.Background()
	m := newMemoryWithCollection(t, 2)

	chunks := []entity.Chunk{
		{ID: "a", DocumentID: "d1"},
		{ID: "b", DocumentID: "d1"},
		{ID: "c", DocumentID: "d2"},
	}
	require.NoError(t, m.Upsert(ctx, "chunks", chunks, [][]float64{{1, 0}, {0, 1}, {1, 1}}))

	deleted, err := m.DeleteByDocument(ctx, "chunks", "d1")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	count, err := m.Count(ctx, "chunks", entity.SearchFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMemoryScrollIsStableOrdered(t *testing.T) {
	ctx := context.Background()
	m := newMemoryWithCollection(t, 2)

	chunks := []entity.Chunk{
		{ID: "z", DocumentID: "d1", Idx: 2},
		{ID: "a", DocumentID: "d1", Idx: 0},
		{ID: "m", DocumentID: "d1", Idx: 1},
	}
	require.NoError(t, m.Upsert(ctx, "chunks", chunks, [][]float64{{1, 0}, {0, 1}, {1, 1}}))

	first, err := m.Scroll(ctx, "chunks", entity.SearchFilter{DocumentID: "d1"})
	require.NoError(t, err)
	second, err := m.Scroll(ctx, "chunks", entity.SearchFilter{DocumentID: "d1"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first, 3)
	assert.Equal(t, "a", first[0].ID)
}
