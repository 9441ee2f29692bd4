package document

import (
	"context"
	"fmt"

	"github.com/filescout/filescout-backend/internal/entity"
	"github.com/filescout/filescout-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// DocumentUsecase serves the catalog: listing what has been ingested
// and deleting a document together with its indexed points.
type DocumentUsecase struct {
	docRepo repository.DocumentRepository
	index   VectorIndex
	logger  *zap.Logger
}

// NewUsecase creates the document use case.
func NewUsecase(docRepo repository.DocumentRepository, index VectorIndex, logger *zap.Logger) *DocumentUsecase {
	return &DocumentUsecase{docRepo: docRepo, index: index, logger: logger}
}

// ListDocuments retrieves catalog entries with pagination.
func (uc *DocumentUsecase) ListDocuments(ctx context.Context, skip, limit int) ([]*entity.Document, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	docs, err := uc.docRepo.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// GetDocument retrieves a single catalog entry by ID.
func (uc *DocumentUsecase) GetDocument(ctx context.Context, id string) (*entity.Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: invalid document ID format", entity.ErrInvalidParameter)
	}

	doc, err := uc.docRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// DeleteDocument removes a document's points from the vector index and
// then its catalog entry. The index goes first so a failure leaves the
// catalog entry behind as a visible marker instead of orphaning points.
func (uc *DocumentUsecase) DeleteDocument(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: invalid document ID format", entity.ErrInvalidParameter)
	}

	doc, err := uc.docRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := uc.index.DeleteByDocument(ctx, doc.Collection, doc.ID)
	if err != nil {
		return fmt.Errorf("delete indexed points: %w", err)
	}

	if err := uc.docRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete catalog entry: %w", err)
	}

	ctxzap.Info(ctx, "document deleted",
		zap.String("document_id", id),
		zap.String("collection", doc.Collection),
		zap.Int("points_deleted", deleted),
	)
	return nil
}
