package extractor

import (
	"bytes"
	"context"
	"strings"

	"github.com/filescout/filescout-backend/internal/entity"
	"github.com/unidoc/unioffice/document"
)

// DOCX extracts paragraph text from Word documents.
type DOCX struct{}

func NewDOCX() *DOCX { return &DOCX{} }

func (d *DOCX) Extensions() []string {
	return []string{".docx"}
}

func (d *DOCX) Extract(_ context.Context, file entity.FileData) (Result, error) {
	doc, err := document.Read(bytes.NewReader(file.Content), int64(len(file.Content)))
	if err != nil {
		// Corrupt or non-OOXML content is an expected condition.
		return skip(entity.KindDOCX, ".docx", entity.SkipParseFailure), nil
	}
	defer doc.Close()

	var blocks []string
	for _, para := range doc.Paragraphs() {
		var b strings.Builder
		for _, run := range para.Runs() {
			b.WriteString(run.Text())
		}
		text := normalizeText(b.String())
		if text != "" {
			blocks = append(blocks, text)
		}
	}

	if len(blocks) == 0 {
		return skip(entity.KindDOCX, ".docx", entity.SkipEmptyFile), nil
	}
	return Result{Blocks: blocks, Kind: entity.KindDOCX, Extension: ".docx"}, nil
}
