package entity

import "time"

// ChunkRecord is the stable JSON-line export schema. Fields are
// additive-only across versions; names and semantics never change.
type ChunkRecord struct {
	ID         string         `json:"id"`
	DocumentID string         `json:"document_id"`
	Kind       Kind           `json:"kind"`
	Path       string         `json:"path"`
	Idx        int            `json:"idx"`
	Text       string         `json:"text"`
	Meta       map[string]any `json:"meta,omitempty"`
}

// ManifestFile describes one file included in an export archive.
type ManifestFile struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
	SHA256    string `json:"sha256"`
}

// ExportManifest accompanies an export archive and records its
// contents and provenance.
type ExportManifest struct {
	DocumentID string         `json:"document_id"`
	ChunkCount int            `json:"chunk_count"`
	KindCounts map[Kind]int   `json:"kind_counts"`
	Files      []ManifestFile `json:"files"`
	ExportedAt time.Time      `json:"exported_at"`
}
