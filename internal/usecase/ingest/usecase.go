package ingest

import (
	"context"
	"fmt"

	"github.com/filescout/filescout-backend/internal/chunker"
	"github.com/filescout/filescout-backend/internal/config"
	"github.com/filescout/filescout-backend/internal/entity"
	"github.com/filescout/filescout-backend/internal/identity"
	"github.com/filescout/filescout-backend/internal/pkg/logger"
	"github.com/filescout/filescout-backend/internal/pkg/validator"
	"github.com/filescout/filescout-backend/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// embedConcurrency bounds the number of in-flight embedding calls per
// file. The embedding service is a local single-model process; more
// parallelism just queues there.
const embedConcurrency = 8

// IngestUsecase runs the full pipeline for uploaded files: extract,
// normalize, chunk, embed, upsert, catalog. Each file gets a terminal
// per-file outcome; one bad file never fails the batch.
type IngestUsecase struct {
	extractor Extractor
	splitter  *chunker.Splitter
	embedder  Embedder
	index     VectorIndex
	docRepo   repository.DocumentRepository
	qdrantCfg config.QdrantConfig
	logger    *zap.Logger
}

// NewUsecase creates the ingestion use case.
func NewUsecase(
	extractor Extractor,
	splitter *chunker.Splitter,
	embedder Embedder,
	index VectorIndex,
	docRepo repository.DocumentRepository,
	qdrantCfg config.QdrantConfig,
	logger *zap.Logger,
) *IngestUsecase {
	return &IngestUsecase{
		extractor: extractor,
		splitter:  splitter,
		embedder:  embedder,
		index:     index,
		docRepo:   docRepo,
		qdrantCfg: qdrantCfg,
		logger:    logger,
	}
}

// IngestFiles processes every uploaded file and reports a per-file
// outcome. Identical bytes always map to the same document and chunk
// identifiers, so re-ingesting a file overwrites its points in place
// instead of duplicating them.
func (uc *IngestUsecase) IngestFiles(ctx context.Context, files []entity.FileData) (*entity.IngestSummary, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: files", entity.ErrMissingField)
	}

	summary := &entity.IngestSummary{Outcomes: make([]entity.IngestOutcome, 0, len(files))}
	for _, file := range files {
		fileCtx := logger.WithFile(ctx, file.Filename)
		summary.Outcomes = append(summary.Outcomes, uc.ingestOne(fileCtx, file))
	}
	summary.Recount()

	ctxzap.Info(ctx, "ingestion finished",
		zap.Int("indexed", summary.Indexed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Int("chunks", summary.Chunks),
	)
	return summary, nil
}

func (uc *IngestUsecase) ingestOne(ctx context.Context, file entity.FileData) entity.IngestOutcome {
	outcome := entity.IngestOutcome{Filename: file.Filename}

	res, err := uc.extractor.Extract(ctx, file)
	if err != nil {
		ctxzap.Error(ctx, "extraction failed", zap.Error(err))
		outcome.Status = entity.IngestStatusFailed
		outcome.Error = err.Error()
		return outcome
	}
	if res.Skipped {
		ctxzap.Info(ctx, "file skipped", zap.String("reason", string(res.SkipReason)))
		outcome.Status = entity.IngestStatusSkipped
		outcome.SkipReason = res.SkipReason
		return outcome
	}

	text := res.Text()
	if text == "" {
		ctxzap.Info(ctx, "file skipped", zap.String("reason", string(entity.SkipEmptyFile)))
		outcome.Status = entity.IngestStatusSkipped
		outcome.SkipReason = entity.SkipEmptyFile
		return outcome
	}

	docID := identity.DocumentID(file.Content)
	collection := uc.collectionFor(res.Kind)
	sourcePath := validator.SanitizeFilename(file.Filename)

	pieces := uc.splitter.Split(text)
	chunks := make([]entity.Chunk, len(pieces))
	for i, p := range pieces {
		chunks[i] = entity.Chunk{
			ID:         identity.ChunkID(docID, p.Idx),
			DocumentID: docID,
			Idx:        p.Idx,
			Text:       p.Text,
			Kind:       res.Kind,
			Path:       sourcePath,
		}
		if res.Title != "" {
			chunks[i].Meta = map[string]any{"title": res.Title}
		}
	}

	vectors, err := uc.embedChunks(ctx, chunks)
	if err != nil {
		ctxzap.Error(ctx, "embedding failed", zap.String("document_id", docID), zap.Error(err))
		outcome.Status = entity.IngestStatusFailed
		outcome.Error = err.Error()
		return outcome
	}

	if err := uc.index.Upsert(ctx, collection, chunks, vectors); err != nil {
		ctxzap.Error(ctx, "index upsert failed", zap.String("document_id", docID), zap.Error(err))
		outcome.Status = entity.IngestStatusFailed
		outcome.Error = err.Error()
		return outcome
	}

	doc := entity.Document{
		ID:          docID,
		Kind:        res.Kind,
		SourcePath:  sourcePath,
		Extension:   res.Extension,
		SizeBytes:   int64(len(file.Content)),
		ContentHash: identity.ContentHash(file.Content),
		ChunkCount:  len(chunks),
		Collection:  collection,
		Title:       res.Title,
	}
	if _, err := uc.docRepo.Upsert(ctx, doc); err != nil {
		// The index write is idempotent, so re-ingesting the same file
		// repairs a catalog that fell behind here.
		ctxzap.Error(ctx, "catalog upsert failed", zap.String("document_id", docID), zap.Error(err))
		outcome.Status = entity.IngestStatusFailed
		outcome.Error = err.Error()
		return outcome
	}

	ctxzap.Info(ctx, "file indexed",
		zap.String("document_id", docID),
		zap.String("collection", collection),
		zap.Int("chunk_count", len(chunks)),
	)

	outcome.Status = entity.IngestStatusIndexed
	outcome.DocumentID = docID
	outcome.ChunkCount = len(chunks)
	outcome.Collection = collection
	return outcome
}

// embedChunks embeds all chunks of one file with bounded parallelism.
// Vector order matches chunk order.
func (uc *IngestUsecase) embedChunks(ctx context.Context, chunks []entity.Chunk) ([][]float64, error) {
	vectors := make([][]float64, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for i, c := range chunks {
		i, c := i, c
		g.Go(func() error {
			vec, err := uc.embedder.Embed(gctx, c.Text)
			if err != nil {
				return fmt.Errorf("embed chunk %d: %w", c.Idx, err)
			}
			vectors[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

func (uc *IngestUsecase) collectionFor(kind entity.Kind) string {
	if kind == entity.KindImage {
		return uc.qdrantCfg.CollectionImage
	}
	return uc.qdrantCfg.CollectionText
}
