package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/filescout/filescout-backend/internal/config"
	"github.com/filescout/filescout-backend/internal/entity"
	"github.com/filescout/filescout-backend/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsecase struct {
	summary *entity.IngestSummary
	files   []entity.FileData
}

func (f *fakeUsecase) IngestFiles(_ context.Context, files []entity.FileData) (*entity.IngestSummary, error) {
	f.files = files
	return f.summary, nil
}

func uploadConfig() config.FileUploadConfig {
	return config.FileUploadConfig{
		MaxFileSize:   1 << 20,
		MaxTotalSize:  4 << 20,
		MaxFileCount:  8,
		MaxUploadSize: 8 << 20,
	}
}

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestIngestHandler_OK(t *testing.T) {
	uc := &fakeUsecase{summary: &entity.IngestSummary{
		Outcomes: []entity.IngestOutcome{{Filename: "a.txt", Status: entity.IngestStatusIndexed, ChunkCount: 2}},
		Indexed:  1,
		Chunks:   2,
	}}
	h := NewHandler(uc, uploadConfig(), validator.NewFileValidator(uploadConfig()))

	body, contentType := multipartBody(t, map[string]string{"a.txt": "some text content"})
	req := httptest.NewRequest(http.MethodPost, "/ingest", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Ingest(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, uc.files, 1)
	assert.Equal(t, "a.txt", uc.files[0].Filename)
	assert.Equal(t, []byte("some text content"), uc.files[0].Content)

	var summary entity.IngestSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.Indexed)
}

func TestIngestHandler_NoFiles(t *testing.T) {
	h := NewHandler(&fakeUsecase{}, uploadConfig(), validator.NewFileValidator(uploadConfig()))

	body, contentType := multipartBody(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/ingest", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Ingest(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIngestHandler_FileTooLarge(t *testing.T) {
	cfg := uploadConfig()
	cfg.MaxFileSize = 4
	h := NewHandler(&fakeUsecase{}, cfg, validator.NewFileValidator(cfg))

	body, contentType := multipartBody(t, map[string]string{"big.txt": "more than four bytes"})
	req := httptest.NewRequest(http.MethodPost, "/ingest", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Ingest(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestIngestHandler_NotMultipart(t *testing.T) {
	h := NewHandler(&fakeUsecase{}, uploadConfig(), validator.NewFileValidator(uploadConfig()))

	req := httptest.NewRequest(http.MethodPost, "/ingest", bytes.NewReader([]byte("plain body")))
	rec := httptest.NewRecorder()

	h.Ingest(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
