package document

import (
	"context"
	"io"

	"github.com/filescout/filescout-backend/internal/entity"
)

type DocumentUsecase interface {
	ListDocuments(ctx context.Context, skip, limit int) ([]*entity.Document, error)
	GetDocument(ctx context.Context, id string) (*entity.Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

type ExportUsecase interface {
	ExportRecords(ctx context.Context, documentID string) ([]entity.ChunkRecord, error)
	ExportArchive(ctx context.Context, w io.Writer, documentID string) (*entity.ExportManifest, error)
}
