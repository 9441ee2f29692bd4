package extractor

import (
	"context"
	"testing"

	"github.com/filescout/filescout-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrySkipsUnknownExtension(t *testing.T) {
	reg := DefaultRegistry()

	res, err := reg.Extract(context.Background(), entity.FileData{
		Filename: "archive.bin",
		Content:  []byte{0x00, 0x01},
	})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, entity.SkipUnsupportedExtension, res.SkipReason)
}

func TestRegistrySkipsFormatsWithoutAdapter(t *testing.T) {
	// PDF, image and audio kinds are known but extraction for them is
	// delegated to external tooling, so they skip rather than fail.
	reg := DefaultRegistry()

	res, err := reg.Extract(context.Background(), entity.FileData{
		Filename: "scan.pdf",
		Content:  []byte("%PDF-1.4"),
	})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, entity.SkipUnsupportedExtension, res.SkipReason)
	assert.Equal(t, entity.KindPDF, res.Kind)
}

func TestPlainTextExtraction(t *testing.T) {
	res, err := NewPlainText().Extract(context.Background(), entity.FileData{
		Filename: "notes.txt",
		Content:  []byte("first paragraph\r\nstill first\r\n\r\nsecond paragraph  \r\n"),
	})
	require.NoError(t, err)
	require.False(t, res.Skipped)
	assert.Equal(t, entity.KindText, res.Kind)
	assert.Equal(t, []string{"first paragraph\nstill first", "second paragraph"}, res.Blocks)
	assert.Equal(t, "first paragraph\nstill first\n\nsecond paragraph", res.Text())
}

func TestPlainTextEmptyContentSkips(t *testing.T) {
	res, err := NewPlainText().Extract(context.Background(), entity.FileData{
		Filename: "empty.txt",
		Content:  []byte("   \n\t\n"),
	})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, entity.SkipEmptyFile, res.SkipReason)
}

func TestPlainTextInvalidUTF8Skips(t *testing.T) {
	res, err := NewPlainText().Extract(context.Background(), entity.FileData{
		Filename: "binary.txt",
		Content:  []byte{0xff, 0xfe, 0x00},
	})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, entity.SkipParseFailure, res.SkipReason)
}

func TestCSVRowsBecomeBlocks(t *testing.T) {
	content := "name,role\nada,engineer\ngrace,admiral\n"

	res, err := NewCSV().Extract(context.Background(), entity.FileData{
		Filename: "people.csv",
		Content:  []byte(content),
	})
	require.NoError(t, err)
	require.False(t, res.Skipped)
	assert.Equal(t, entity.KindCSV, res.Kind)
	assert.Equal(t, []string{"name: ada; role: engineer", "name: grace; role: admiral"}, res.Blocks)
}

func TestCSVHeaderOnlySkipsEmpty(t *testing.T) {
	res, err := NewCSV().Extract(context.Background(), entity.FileData{
		Filename: "empty.csv",
		Content:  []byte("name,role\n"),
	})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, entity.SkipEmptyFile, res.SkipReason)
}

func TestHTMLStripsMarkup(t *testing.T) {
	content := `<html><head><title>Quarterly Report</title>
<style>body { color: red; }</style></head>
<body><h1>Summary</h1><p>Revenue grew &amp; costs fell.</p>
<script>alert("ignore me")</script></body></html>`

	res, err := NewHTML().Extract(context.Background(), entity.FileData{
		Filename: "report.html",
		Content:  []byte(content),
	})
	require.NoError(t, err)
	require.False(t, res.Skipped)
	assert.Equal(t, entity.KindHTML, res.Kind)
	assert.Equal(t, "Quarterly Report", res.Title)
	assert.Contains(t, res.Text(), "Summary")
	assert.Contains(t, res.Text(), "Revenue grew & costs fell.")
	assert.NotContains(t, res.Text(), "alert")
	assert.NotContains(t, res.Text(), "color: red")
}

func TestDOCXParseFailureSkips(t *testing.T) {
	res, err := NewDOCX().Extract(context.Background(), entity.FileData{
		Filename: "broken.docx",
		Content:  []byte("not a zip archive"),
	})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, entity.SkipParseFailure, res.SkipReason)
}
