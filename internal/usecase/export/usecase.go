package export

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/filescout/filescout-backend/internal/config"
	"github.com/filescout/filescout-backend/internal/entity"
	"github.com/filescout/filescout-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	recordsFilename  = "records.jsonl"
	manifestFilename = "manifest.json"
)

// ExportUsecase reconstructs a document's chunks into a portable
// snapshot. It only reads from the index; the deterministic ordering
// comes from re-sorting by idx rather than trusting scroll order.
type ExportUsecase struct {
	index   VectorIndex
	docRepo repository.DocumentRepository
	cfg     config.ExportConfig
	logger  *zap.Logger
}

// NewUsecase creates the export use case.
func NewUsecase(
	index VectorIndex,
	docRepo repository.DocumentRepository,
	cfg config.ExportConfig,
	logger *zap.Logger,
) *ExportUsecase {
	return &ExportUsecase{index: index, docRepo: docRepo, cfg: cfg, logger: logger}
}

// ExportRecords returns the document's chunk records ordered by idx
// ascending. A document split into N chunks yields exactly N records
// with idx 0..N-1.
func (uc *ExportUsecase) ExportRecords(ctx context.Context, documentID string) ([]entity.ChunkRecord, error) {
	if _, err := uuid.Parse(documentID); err != nil {
		return nil, fmt.Errorf("%w: invalid document ID format", entity.ErrInvalidParameter)
	}

	doc, err := uc.docRepo.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}

	chunks, err := uc.index.Scroll(ctx, doc.Collection, entity.SearchFilter{DocumentID: documentID})
	if err != nil {
		return nil, fmt.Errorf("scroll index: %w", err)
	}

	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Idx < chunks[j].Idx })

	records := make([]entity.ChunkRecord, len(chunks))
	for i, ch := range chunks {
		records[i] = entity.ChunkRecord{
			ID:         ch.ID,
			DocumentID: ch.DocumentID,
			Kind:       ch.Kind,
			Path:       ch.Path,
			Idx:        ch.Idx,
			Text:       ch.Text,
			Meta:       ch.Meta,
		}
	}

	ctxzap.Info(ctx, "document exported",
		zap.String("document_id", documentID),
		zap.Int("record_count", len(records)),
	)
	return records, nil
}

// WriteJSONL serializes records one JSON object per line.
func WriteJSONL(w io.Writer, records []entity.ChunkRecord) error {
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode record %d: %w", r.Idx, err)
		}
	}
	return nil
}

// ExportArchive writes a zip bundle to w: the JSONL records, a
// manifest, and the original source file when it is still resolvable
// under the configured source directory.
func (uc *ExportUsecase) ExportArchive(ctx context.Context, w io.Writer, documentID string) (*entity.ExportManifest, error) {
	records, err := uc.ExportRecords(ctx, documentID)
	if err != nil {
		return nil, err
	}

	doc, err := uc.docRepo.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}

	var recordsBuf bytes.Buffer
	if err := WriteJSONL(&recordsBuf, records); err != nil {
		return nil, err
	}

	manifest := &entity.ExportManifest{
		DocumentID: documentID,
		ChunkCount: len(records),
		KindCounts: make(map[entity.Kind]int),
		ExportedAt: time.Now().UTC(),
	}
	for _, r := range records {
		manifest.KindCounts[r.Kind]++
	}
	manifest.Files = append(manifest.Files, manifestFileFor(recordsFilename, recordsBuf.Bytes()))

	original, originalName := uc.resolveOriginal(ctx, doc)
	if original != nil {
		manifest.Files = append(manifest.Files, manifestFileFor(originalName, original))
	}

	zw := zip.NewWriter(w)
	if err := writeZipEntry(zw, recordsFilename, recordsBuf.Bytes()); err != nil {
		return nil, err
	}
	if original != nil {
		if err := writeZipEntry(zw, originalName, original); err != nil {
			return nil, err
		}
	}

	manifestBytes, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := writeZipEntry(zw, manifestFilename, manifestBytes); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return manifest, nil
}

// resolveOriginal looks the source file up under the configured
// directory and verifies the bytes still match the catalog hash. A
// modified or missing file is simply left out of the bundle.
func (uc *ExportUsecase) resolveOriginal(ctx context.Context, doc *entity.Document) ([]byte, string) {
	if uc.cfg.SourceDir == "" || doc.SourcePath == "" {
		return nil, ""
	}

	name := filepath.Base(doc.SourcePath)
	data, err := os.ReadFile(filepath.Join(uc.cfg.SourceDir, name))
	if err != nil {
		ctxzap.Debug(ctx, "original file not included in export", zap.Error(err))
		return nil, ""
	}

	sum := sha256.Sum256(data)
	if hex.EncodeToString(sum[:]) != doc.ContentHash {
		ctxzap.Info(ctx, "original file on disk no longer matches the indexed content, excluding it",
			zap.String("source_path", doc.SourcePath))
		return nil, ""
	}
	return data, name
}

func manifestFileFor(name string, data []byte) entity.ManifestFile {
	sum := sha256.Sum256(data)
	return entity.ManifestFile{
		Name:      name,
		SizeBytes: int64(len(data)),
		SHA256:    hex.EncodeToString(sum[:]),
	}
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create archive entry %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write archive entry %s: %w", name, err)
	}
	return nil
}
