package entity

import "errors"

// Domain errors
var (
	// Document errors
	ErrDocumentNotFound = errors.New("document not found")

	// File errors
	ErrInvalidFile       = errors.New("invalid file")
	ErrFileTooLarge      = errors.New("file too large")
	ErrTooManyFiles      = errors.New("too many files")
	ErrTotalSizeTooLarge = errors.New("total file size too large")

	// Pipeline errors
	ErrInvalidChunking   = errors.New("invalid chunking parameters")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrSchemaMismatch    = errors.New("collection schema mismatch")

	// Upstream errors
	ErrRateLimited = errors.New("upstream rate limited")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidParameter = errors.New("invalid parameter")
)
