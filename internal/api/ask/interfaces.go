package ask

import (
	"context"

	"github.com/filescout/filescout-backend/internal/entity"
)

type AskUsecase interface {
	Ask(ctx context.Context, req *entity.AskRequest) (*entity.AskOutcome, error)
}
