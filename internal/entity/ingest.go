package entity

// SkipReason explains why a file was not indexed. Skips are expected
// outcomes, not errors; ingestion continues with the remaining files.
type SkipReason string

const (
	SkipUnsupportedExtension SkipReason = "unsupported_extension"
	SkipEmptyFile            SkipReason = "empty_file"
	SkipParseFailure         SkipReason = "parse_failure"
)

// IngestStatus is the terminal state of a single file's ingestion.
type IngestStatus string

const (
	IngestStatusIndexed IngestStatus = "indexed"
	IngestStatusSkipped IngestStatus = "skipped"
	IngestStatusFailed  IngestStatus = "failed"
)

// FileData carries one uploaded file through the ingestion pipeline.
type FileData struct {
	Filename string
	Content  []byte
}

// IngestOutcome is the per-file result of an ingestion request.
type IngestOutcome struct {
	Filename   string       `json:"filename"`
	Status     IngestStatus `json:"status"`
	DocumentID string       `json:"document_id,omitempty"`
	ChunkCount int          `json:"chunk_count,omitempty"`
	Collection string       `json:"collection,omitempty"`
	SkipReason SkipReason   `json:"skip_reason,omitempty"`
	Error      string       `json:"error,omitempty"`
}

// IngestSummary aggregates outcomes across one request.
type IngestSummary struct {
	Outcomes []IngestOutcome `json:"outcomes"`
	Indexed  int             `json:"indexed"`
	Skipped  int             `json:"skipped"`
	Failed   int             `json:"failed"`
	Chunks   int             `json:"chunks"`
}

// Recount rebuilds the aggregate counters from the outcome list.
func (s *IngestSummary) Recount() {
	s.Indexed, s.Skipped, s.Failed, s.Chunks = 0, 0, 0, 0
	for _, o := range s.Outcomes {
		switch o.Status {
		case IngestStatusIndexed:
			s.Indexed++
			s.Chunks += o.ChunkCount
		case IngestStatusSkipped:
			s.Skipped++
		case IngestStatusFailed:
			s.Failed++
		}
	}
}
