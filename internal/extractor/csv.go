package extractor

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/filescout/filescout-backend/internal/entity"
)

// CSV flattens tabular files into one text block per row, prefixing
// values with their column headers so retrieval keeps the context.
type CSV struct{}

func NewCSV() *CSV { return &CSV{} }

func (c *CSV) Extensions() []string {
	return []string{".csv"}
}

func (c *CSV) Extract(_ context.Context, file entity.FileData) (Result, error) {
	reader := csv.NewReader(bytes.NewReader(file.Content))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return skip(entity.KindCSV, ".csv", entity.SkipEmptyFile), nil
	}
	if err != nil {
		return skip(entity.KindCSV, ".csv", entity.SkipParseFailure), nil
	}

	var blocks []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return skip(entity.KindCSV, ".csv", entity.SkipParseFailure), nil
		}

		fields := make([]string, 0, len(row))
		for i, v := range row {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if i < len(header) && strings.TrimSpace(header[i]) != "" {
				fields = append(fields, strings.TrimSpace(header[i])+": "+v)
			} else {
				fields = append(fields, v)
			}
		}
		if len(fields) > 0 {
			blocks = append(blocks, strings.Join(fields, "; "))
		}
	}

	if len(blocks) == 0 {
		return skip(entity.KindCSV, ".csv", entity.SkipEmptyFile), nil
	}
	return Result{Blocks: blocks, Kind: entity.KindCSV, Extension: ".csv"}, nil
}
