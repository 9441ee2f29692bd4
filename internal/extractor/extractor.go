// Package extractor turns uploaded files into ordered normalized text
// blocks. Format support is pluggable: the registry picks an adapter by
// extension and everything it cannot handle becomes a typed skip, never
// an error.
package extractor

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/filescout/filescout-backend/internal/entity"
)

// Result is the tagged outcome of an extraction attempt. Exactly one of
// the three states holds: Skipped (with a reason), an error returned by
// Extract, or a successful block list.
type Result struct {
	Blocks     []string
	Kind       entity.Kind
	Extension  string
	Title      string
	Skipped    bool
	SkipReason entity.SkipReason
}

// Text joins the extracted blocks into the normalized document text.
func (r Result) Text() string {
	return strings.TrimSpace(strings.Join(r.Blocks, "\n\n"))
}

func skip(kind entity.Kind, ext string, reason entity.SkipReason) Result {
	return Result{Kind: kind, Extension: ext, Skipped: true, SkipReason: reason}
}

// Extractor converts one file format into ordered text blocks.
type Extractor interface {
	// Extensions lists the lowercase extensions (with dot) the adapter handles.
	Extensions() []string
	// Extract parses the file content. A parse failure is reported as a
	// skip result; errors are reserved for infrastructure failures.
	Extract(ctx context.Context, file entity.FileData) (Result, error)
}

// Registry routes files to extractors by extension.
type Registry struct {
	byExtension map[string]Extractor
}

// NewRegistry builds a registry over the given adapters. Later adapters
// win on extension conflicts.
func NewRegistry(extractors ...Extractor) *Registry {
	byExt := make(map[string]Extractor)
	for _, e := range extractors {
		for _, ext := range e.Extensions() {
			byExt[strings.ToLower(ext)] = e
		}
	}
	return &Registry{byExtension: byExt}
}

// DefaultRegistry wires every built-in adapter.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewPlainText(),
		NewCSV(),
		NewHTML(),
		NewDOCX(),
	)
}

// Extract routes the file to the matching adapter. Unknown extensions
// produce an unsupported-extension skip.
func (r *Registry) Extract(ctx context.Context, file entity.FileData) (Result, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	kind, known := entity.KindForExtension(ext)
	if !known {
		kind = entity.KindText
	}

	e, ok := r.byExtension[ext]
	if !ok {
		return skip(kind, ext, entity.SkipUnsupportedExtension), nil
	}
	return e.Extract(ctx, file)
}

// normalizeText canonicalizes line endings and trims trailing spaces so
// identical content hashes identically regardless of platform quirks in
// downstream chunking.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
