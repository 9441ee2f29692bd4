package ingest

import (
	"context"

	"github.com/filescout/filescout-backend/internal/entity"
)

type IngestUsecase interface {
	IngestFiles(ctx context.Context, files []entity.FileData) (*entity.IngestSummary, error)
}
