package export

import (
	"archive/zip"
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/filescout/filescout-backend/internal/chunker"
	"github.com/filescout/filescout-backend/internal/config"
	"github.com/filescout/filescout-backend/internal/entity"
	"github.com/filescout/filescout-backend/internal/identity"
	"github.com/filescout/filescout-backend/internal/integration/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testDimension = 4

type memDocRepo struct {
	docs map[string]entity.Document
}

func newMemDocRepo(docs ...entity.Document) *memDocRepo {
	r := &memDocRepo{docs: make(map[string]entity.Document)}
	for _, d := range docs {
		r.docs[d.ID] = d
	}
	return r
}

func (r *memDocRepo) Upsert(_ context.Context, doc entity.Document) (*entity.Document, error) {
	r.docs[doc.ID] = doc
	return &doc, nil
}

func (r *memDocRepo) Get(_ context.Context, id string) (*entity.Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, entity.ErrDocumentNotFound
	}
	return &doc, nil
}

func (r *memDocRepo) List(_ context.Context, _, _ int) ([]*entity.Document, error) {
	return nil, nil
}

func (r *memDocRepo) Delete(_ context.Context, id string) error {
	delete(r.docs, id)
	return nil
}

// seedDocument splits content and upserts the chunks in reverse idx
// order, so any ordering observed later must come from the exporter.
func seedDocument(t *testing.T, index *qdrant.Memory, content string, size, overlap int) (string, []entity.Chunk, entity.Document) {
	t.Helper()

	splitter, err := chunker.NewSplitter(size, overlap)
	require.NoError(t, err)

	docID := identity.DocumentID([]byte(content))
	pieces := splitter.Split(content)

	chunks := make([]entity.Chunk, len(pieces))
	vectors := make([][]float64, len(pieces))
	for i, p := range pieces {
		chunks[i] = entity.Chunk{
			ID:         identity.ChunkID(docID, p.Idx),
			DocumentID: docID,
			Idx:        p.Idx,
			Text:       p.Text,
			Kind:       entity.KindText,
			Path:       "notes.txt",
		}
		vectors[i] = []float64{1, 0, 0, 0}
	}

	reversed := make([]entity.Chunk, len(chunks))
	reversedVecs := make([][]float64, len(chunks))
	for i := range chunks {
		reversed[i] = chunks[len(chunks)-1-i]
		reversedVecs[i] = vectors[len(chunks)-1-i]
	}

	require.NoError(t, index.EnsureCollection(context.Background(), "chunks", testDimension))
	require.NoError(t, index.Upsert(context.Background(), "chunks", reversed, reversedVecs))

	doc := entity.Document{
		ID:          docID,
		Kind:        entity.KindText,
		SourcePath:  "notes.txt",
		ContentHash: identity.ContentHash([]byte(content)),
		ChunkCount:  len(chunks),
		Collection:  "chunks",
	}
	return docID, chunks, doc
}

func TestExportRecords_OrderedRoundTrip(t *testing.T) {
	index := qdrant.NewMemory(zap.NewNop())
	content := strings.Repeat("abcdefghij", 30) // 300 chars
	const size, overlap = 80, 20

	docID, chunks, doc := seedDocument(t, index, content, size, overlap)
	uc := NewUsecase(index, newMemDocRepo(doc), config.ExportConfig{}, zap.NewNop())

	records, err := uc.ExportRecords(context.Background(), docID)
	require.NoError(t, err)
	require.Len(t, records, len(chunks))

	for i, r := range records {
		assert.Equal(t, i, r.Idx, "records must be ordered by idx ascending")
		assert.Equal(t, docID, r.DocumentID)
	}

	// Dropping each record's leading overlap reconstructs the source.
	var b strings.Builder
	for i, r := range records {
		text := []rune(r.Text)
		if i > 0 {
			text = text[overlap:]
		}
		b.WriteString(string(text))
	}
	assert.Equal(t, content, b.String())
}

func TestExportRecords_UnknownDocument(t *testing.T) {
	index := qdrant.NewMemory(zap.NewNop())
	uc := NewUsecase(index, newMemDocRepo(), config.ExportConfig{}, zap.NewNop())

	_, err := uc.ExportRecords(context.Background(), "11111111-2222-3333-4444-555555555555")
	assert.ErrorIs(t, err, entity.ErrDocumentNotFound)

	_, err = uc.ExportRecords(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestWriteJSONL(t *testing.T) {
	records := []entity.ChunkRecord{
		{ID: "a", DocumentID: "d", Kind: entity.KindText, Idx: 0, Text: "first"},
		{ID: "b", DocumentID: "d", Kind: entity.KindText, Idx: 1, Text: "second"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSONL(&buf, records))

	scanner := bufio.NewScanner(&buf)
	var lines int
	for scanner.Scan() {
		var rec entity.ChunkRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		assert.Equal(t, lines, rec.Idx)
		lines++
	}
	assert.Equal(t, 2, lines)
}

func TestExportArchive_BundlesRecordsAndManifest(t *testing.T) {
	index := qdrant.NewMemory(zap.NewNop())
	content := strings.Repeat("the quick brown fox ", 20)

	docID, chunks, doc := seedDocument(t, index, content, 100, 10)
	uc := NewUsecase(index, newMemDocRepo(doc), config.ExportConfig{}, zap.NewNop())

	var buf bytes.Buffer
	manifest, err := uc.ExportArchive(context.Background(), &buf, docID)
	require.NoError(t, err)

	assert.Equal(t, docID, manifest.DocumentID)
	assert.Equal(t, len(chunks), manifest.ChunkCount)
	assert.Equal(t, len(chunks), manifest.KindCounts[entity.KindText])

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["records.jsonl"])
	assert.True(t, names["manifest.json"])
	assert.Len(t, zr.File, 2, "no source directory configured, so no original file")
}

func TestExportArchive_IncludesMatchingOriginal(t *testing.T) {
	index := qdrant.NewMemory(zap.NewNop())
	content := strings.Repeat("original file content ", 10)

	docID, _, doc := seedDocument(t, index, content, 60, 0)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(content), 0o644))

	uc := NewUsecase(index, newMemDocRepo(doc), config.ExportConfig{SourceDir: dir}, zap.NewNop())

	var buf bytes.Buffer
	manifest, err := uc.ExportArchive(context.Background(), &buf, docID)
	require.NoError(t, err)

	var included bool
	for _, f := range manifest.Files {
		if f.Name == "notes.txt" {
			included = true
			assert.Equal(t, doc.ContentHash, f.SHA256)
		}
	}
	assert.True(t, included, "matching original must be bundled")
}

func TestExportArchive_ExcludesModifiedOriginal(t *testing.T) {
	index := qdrant.NewMemory(zap.NewNop())
	content := strings.Repeat("original file content ", 10)

	docID, _, doc := seedDocument(t, index, content, 60, 0)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("tampered"), 0o644))

	uc := NewUsecase(index, newMemDocRepo(doc), config.ExportConfig{SourceDir: dir}, zap.NewNop())

	var buf bytes.Buffer
	manifest, err := uc.ExportArchive(context.Background(), &buf, docID)
	require.NoError(t, err)

	for _, f := range manifest.Files {
		assert.NotEqual(t, "notes.txt", f.Name, "stale original must be excluded")
	}
}
