package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/filescout/filescout-backend/internal/entity"
	"github.com/filescout/filescout-backend/internal/pkg/logger"
	"github.com/filescout/filescout-backend/internal/pkg/response"
	"github.com/filescout/filescout-backend/internal/usecase/export"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase DocumentUsecase
	exports ExportUsecase
}

func NewHandler(usecase DocumentUsecase, exports ExportUsecase) *Handler {
	return &Handler{usecase: usecase, exports: exports}
}

// ListDocuments handles GET /documents
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListDocuments")

	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	docs, err := h.usecase.ListDocuments(ctx, skip, limit)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "documents listed", zap.Int("count", len(docs)))
	response.JSON(w, http.StatusOK, map[string]any{"documents": docs})
}

// GetDocument handles GET /documents/{document_id}
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "document_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("document_id", documentID),
		zap.String("action", "GetDocument"),
	)

	doc, err := h.usecase.GetDocument(ctx, documentID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.JSON(w, http.StatusOK, doc)
}

// DeleteDocument handles DELETE /documents/{document_id}
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "document_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("document_id", documentID),
		zap.String("action", "DeleteDocument"),
	)

	if err := h.usecase.DeleteDocument(ctx, documentID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "document deleted")
	response.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ExportDocument handles GET /documents/{document_id}/export and
// streams the chunk records as JSON lines.
func (h *Handler) ExportDocument(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "document_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("document_id", documentID),
		zap.String("action", "ExportDocument"),
	)

	records, err := h.exports.ExportRecords(ctx, documentID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", documentID+".jsonl"))
	w.WriteHeader(http.StatusOK)
	if err := export.WriteJSONL(w, records); err != nil {
		ctxzap.Error(ctx, "failed to stream export", zap.Error(err))
	}
}

// ExportArchive handles GET /documents/{document_id}/export/archive and
// returns a zip bundle with records, manifest and the original file
// when available.
func (h *Handler) ExportArchive(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "document_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("document_id", documentID),
		zap.String("action", "ExportArchive"),
	)

	// Buffer the archive so failures still produce a clean error status.
	var buf bytes.Buffer
	manifest, err := h.exports.ExportArchive(ctx, &buf, documentID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "archive exported",
		zap.Int("chunk_count", manifest.ChunkCount),
		zap.Int("size_bytes", buf.Len()),
	)

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", documentID+".zip"))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		ctxzap.Error(ctx, message, zap.Error(err))
	}
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrDocumentNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "document not found", err)
	case errors.Is(err, entity.ErrInvalidParameter) || errors.Is(err, entity.ErrMissingField):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
