package entity

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Kind is the content category of an ingested file.
type Kind string

const (
	KindText  Kind = "text"
	KindPDF   Kind = "pdf"
	KindImage Kind = "image"
	KindAudio Kind = "audio"
	KindCSV   Kind = "csv"
	KindHTML  Kind = "html"
	KindDOCX  Kind = "docx"
)

var extensionKinds = map[string]Kind{
	".txt":  KindText,
	".md":   KindText,
	".log":  KindText,
	".csv":  KindCSV,
	".html": KindHTML,
	".htm":  KindHTML,
	".docx": KindDOCX,
	".pdf":  KindPDF,
	".png":  KindImage,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".mp3":  KindAudio,
	".wav":  KindAudio,
}

// Validate rejects kinds outside the known set.
func (k Kind) Validate() error {
	switch k {
	case KindText, KindPDF, KindImage, KindAudio, KindCSV, KindHTML, KindDOCX:
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidParameter, string(k))
	}
}

// KindForExtension maps a lowercase file extension (with dot) to its
// content kind. The second return value is false for unknown extensions.
func KindForExtension(ext string) (Kind, bool) {
	k, ok := extensionKinds[strings.ToLower(ext)]
	return k, ok
}

// KindForPath maps a file path to its content kind by extension.
func KindForPath(path string) (Kind, bool) {
	return KindForExtension(filepath.Ext(path))
}

// Document is one ingested file. Its identity is derived from the raw
// bytes only; the path is informational.
type Document struct {
	ID          string    `json:"document_id"`
	Kind        Kind      `json:"kind"`
	SourcePath  string    `json:"source_path"`
	Extension   string    `json:"extension"`
	SizeBytes   int64     `json:"size_bytes"`
	ContentHash string    `json:"content_hash"`
	ChunkCount  int       `json:"chunk_count"`
	Collection  string    `json:"collection"`
	Title       string    `json:"title,omitempty"`
	IngestedAt  time.Time `json:"ingested_at"`
}

// Chunk is one indexed unit of text. ChunkID is derived from
// (DocumentID, Idx), so re-splitting unchanged content reproduces the
// same identifiers and upserts overwrite in place.
type Chunk struct {
	ID         string         `json:"id"`
	DocumentID string         `json:"document_id"`
	Idx        int            `json:"idx"`
	Text       string         `json:"text"`
	Kind       Kind           `json:"kind"`
	Path       string         `json:"path"`
	Meta       map[string]any `json:"meta,omitempty"`
}

// Hit is a single retrieval result. Produced fresh per query, never
// persisted.
type Hit struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
	Path       string  `json:"path"`
	Kind       Kind    `json:"kind"`
	Idx        int     `json:"idx"`
}

// SearchFilter restricts retrieval and scroll operations. All matches
// are exact; prefix and range matching are deliberately unsupported.
type SearchFilter struct {
	DocumentID string
	Kind       Kind
	Path       string
}

// Empty reports whether the filter imposes no conditions.
func (f SearchFilter) Empty() bool {
	return f.DocumentID == "" && f.Kind == "" && f.Path == ""
}
