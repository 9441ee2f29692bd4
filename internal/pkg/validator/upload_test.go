package validator

import (
	"mime/multipart"
	"testing"

	"github.com/filescout/filescout-backend/internal/config"
	"github.com/filescout/filescout-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator() *Validator {
	return NewFileValidator(config.FileUploadConfig{
		MaxFileSize:  1024,
		MaxTotalSize: 2048,
		MaxFileCount: 3,
	})
}

func header(name string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: size}
}

func TestValidateUpload(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		files   []*multipart.FileHeader
		wantErr error
	}{
		{
			name:  "ok",
			files: []*multipart.FileHeader{header("a.txt", 100), header("b.md", 200)},
		},
		{
			name:    "no files",
			files:   nil,
			wantErr: entity.ErrMissingField,
		},
		{
			name:    "too many files",
			files:   []*multipart.FileHeader{header("a.txt", 1), header("b.txt", 1), header("c.txt", 1), header("d.txt", 1)},
			wantErr: entity.ErrTooManyFiles,
		},
		{
			name:    "file too large",
			files:   []*multipart.FileHeader{header("big.txt", 4096)},
			wantErr: entity.ErrFileTooLarge,
		},
		{
			name:    "total too large",
			files:   []*multipart.FileHeader{header("a.txt", 1000), header("b.txt", 1000), header("c.txt", 1000)},
			wantErr: entity.ErrTotalSizeTooLarge,
		},
		{
			name:    "nameless file",
			files:   []*multipart.FileHeader{header("  ", 10)},
			wantErr: entity.ErrInvalidFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpload(tt.files)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateUploadAllowsUnknownExtensions(t *testing.T) {
	// Unknown formats skip during extraction instead of failing upload.
	v := newTestValidator()
	assert.NoError(t, v.ValidateUpload([]*multipart.FileHeader{header("dump.bin", 10)}))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "notes_v1.txt", SanitizeFilename("notes v1.txt"))
	assert.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
}
