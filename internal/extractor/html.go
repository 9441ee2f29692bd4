package extractor

import (
	"context"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/filescout/filescout-backend/internal/entity"
)

var (
	htmlScriptRe = regexp.MustCompile(`(?is)<(script|style)\b.*?</(script|style)>`)
	htmlTitleRe  = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	htmlBlockRe  = regexp.MustCompile(`(?i)</?(p|div|br|li|ul|ol|h[1-6]|tr|table|section|article|header|footer|blockquote)[^>]*>`)
	htmlTagRe    = regexp.MustCompile(`(?s)<[^>]*>`)
)

// HTML strips markup down to visible text. Block-level tags become
// paragraph boundaries; script and style bodies are discarded.
type HTML struct{}

func NewHTML() *HTML { return &HTML{} }

func (h *HTML) Extensions() []string {
	return []string{".html", ".htm"}
}

func (h *HTML) Extract(_ context.Context, file entity.FileData) (Result, error) {
	ext := extensionOf(file.Filename)
	if !utf8.Valid(file.Content) {
		return skip(entity.KindHTML, ext, entity.SkipParseFailure), nil
	}

	raw := string(file.Content)

	var title string
	if m := htmlTitleRe.FindStringSubmatch(raw); len(m) == 2 {
		title = strings.TrimSpace(html.UnescapeString(htmlTagRe.ReplaceAllString(m[1], "")))
	}

	text := htmlScriptRe.ReplaceAllString(raw, " ")
	text = htmlBlockRe.ReplaceAllString(text, "\n\n")
	text = htmlTagRe.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)
	text = collapseSpaces(text)
	text = normalizeText(text)

	if text == "" {
		return skip(entity.KindHTML, ext, entity.SkipEmptyFile), nil
	}
	return Result{Blocks: splitParagraphs(text), Kind: entity.KindHTML, Extension: ext, Title: title}, nil
}

var spaceRunRe = regexp.MustCompile(`[ \t]+`)

func collapseSpaces(s string) string {
	return spaceRunRe.ReplaceAllString(s, " ")
}
