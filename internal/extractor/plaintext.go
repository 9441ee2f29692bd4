package extractor

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/filescout/filescout-backend/internal/entity"
)

// PlainText handles raw text formats: .txt, .md and .log files.
type PlainText struct{}

func NewPlainText() *PlainText { return &PlainText{} }

func (p *PlainText) Extensions() []string {
	return []string{".txt", ".md", ".log"}
}

func (p *PlainText) Extract(_ context.Context, file entity.FileData) (Result, error) {
	ext := extensionOf(file.Filename)
	if !utf8.Valid(file.Content) {
		return skip(entity.KindText, ext, entity.SkipParseFailure), nil
	}

	text := normalizeText(string(file.Content))
	if text == "" {
		return skip(entity.KindText, ext, entity.SkipEmptyFile), nil
	}

	// Paragraphs separated by blank lines become individual blocks.
	blocks := splitParagraphs(text)
	return Result{Blocks: blocks, Kind: entity.KindText, Extension: ext}, nil
}

func splitParagraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	blocks := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			blocks = append(blocks, p)
		}
	}
	return blocks
}

func extensionOf(filename string) string {
	if i := strings.LastIndexByte(filename, '.'); i >= 0 {
		return strings.ToLower(filename[i:])
	}
	return ""
}
