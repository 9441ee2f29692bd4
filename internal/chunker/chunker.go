// Package chunker slices normalized text into fixed-size overlapping
// windows. Splitting is pure: identical input and parameters always
// produce identical output.
package chunker

import (
	"fmt"

	"github.com/filescout/filescout-backend/internal/entity"
)

// Piece is one window of the source text.
type Piece struct {
	Idx  int
	Text string
}

// Splitter produces fixed-size windows measured in characters (runes),
// each overlapping the previous one by Overlap characters.
type Splitter struct {
	size    int
	overlap int
}

// NewSplitter validates the window parameters. Overlap must be strictly
// smaller than size or the window start would never advance.
func NewSplitter(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", entity.ErrInvalidChunking, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must be non-negative, got %d", entity.ErrInvalidChunking, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than size %d", entity.ErrInvalidChunking, overlap, size)
	}
	return &Splitter{size: size, overlap: overlap}, nil
}

// Size returns the configured window size in characters.
func (s *Splitter) Size() int { return s.size }

// Overlap returns the configured overlap in characters.
func (s *Splitter) Overlap() int { return s.overlap }

// Split returns the ordered windows of text. Empty text yields an empty
// slice, which callers treat as an empty-content skip.
func (s *Splitter) Split(text string) []Piece {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := s.size - s.overlap
	pieces := make([]Piece, 0, (len(runes)+step-1)/step)
	for start, idx := 0, 0; start < len(runes); start, idx = start+step, idx+1 {
		end := start + s.size
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, Piece{Idx: idx, Text: string(runes[start:end])})
		if end == len(runes) {
			break
		}
	}
	return pieces
}
