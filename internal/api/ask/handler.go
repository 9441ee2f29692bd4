package ask

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/filescout/filescout-backend/internal/entity"
	"github.com/filescout/filescout-backend/internal/pkg/logger"
	"github.com/filescout/filescout-backend/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase AskUsecase
}

func NewHandler(usecase AskUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// Ask handles POST /ask
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Ask")

	var req entity.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ctxzap.Info(ctx, "answering question",
		zap.Int("query_length", len(req.Query)),
		zap.String("answer_mode", string(req.AnswerMode)),
		zap.Int("k", req.K),
	)

	outcome, err := h.usecase.Ask(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "question answered",
		zap.String("mode", string(outcome.Mode)),
		zap.Int("source_count", len(outcome.Sources)),
	)
	response.JSON(w, http.StatusOK, outcome)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		ctxzap.Error(ctx, message, zap.Error(err))
	}
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidParameter):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	case errors.Is(err, entity.ErrRateLimited):
		h.respondError(ctx, w, http.StatusServiceUnavailable, "upstream service is busy", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
