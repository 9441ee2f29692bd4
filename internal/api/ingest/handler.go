package ingest

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/filescout/filescout-backend/internal/config"
	"github.com/filescout/filescout-backend/internal/entity"
	"github.com/filescout/filescout-backend/internal/pkg/logger"
	"github.com/filescout/filescout-backend/internal/pkg/response"
	"github.com/filescout/filescout-backend/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   IngestUsecase
	cfg       config.FileUploadConfig
	validator *validator.Validator
}

func NewHandler(usecase IngestUsecase, cfg config.FileUploadConfig, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		cfg:       cfg,
		validator: validator,
	}
}

// Ingest handles POST /ingest. The response carries one outcome per
// uploaded file; the request as a whole fails only on malformed input.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Ingest")

	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		ctxzap.Error(ctx, "failed to parse multipart form", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid form data or size too large", err)
		return
	}

	headers := r.MultipartForm.File["files"]
	if err := h.validator.ValidateUpload(headers); err != nil {
		ctxzap.Warn(ctx, "upload validation failed", zap.Error(err))
		h.handleUsecaseError(ctx, w, err)
		return
	}

	files, err := readFiles(headers)
	if err != nil {
		ctxzap.Error(ctx, "failed to read uploaded files", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "failed to read uploaded file", err)
		return
	}

	ctxzap.Info(ctx, "ingesting files", zap.Int("file_count", len(files)))

	summary, err := h.usecase.IngestFiles(ctx, files)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.JSON(w, http.StatusOK, summary)
}

func readFiles(headers []*multipart.FileHeader) ([]entity.FileData, error) {
	files := make([]entity.FileData, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, entity.FileData{Filename: fh.Filename, Content: content})
	}
	return files, nil
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		ctxzap.Error(ctx, message, zap.Error(err))
	}
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrFileTooLarge) || errors.Is(err, entity.ErrTotalSizeTooLarge):
		h.respondError(ctx, w, http.StatusRequestEntityTooLarge, "upload too large", err)
	case errors.Is(err, entity.ErrInvalidFile) || errors.Is(err, entity.ErrTooManyFiles) ||
		errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidParameter):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid upload", err)
	case errors.Is(err, entity.ErrRateLimited):
		h.respondError(ctx, w, http.StatusServiceUnavailable, "upstream service is busy", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
