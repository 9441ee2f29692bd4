package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentIDDeterministic(t *testing.T) {
	data := []byte("the same bytes every time")

	first := DocumentID(data)
	second := DocumentID(data)

	assert.Equal(t, first, second)

	_, err := uuid.Parse(first)
	require.NoError(t, err, "document id must be a valid UUID")
}

func TestDocumentIDIgnoresEverythingButBytes(t *testing.T) {
	// Identity is a pure function of content; two calls with equal
	// bytes from "different files" must collide on purpose.
	a := DocumentID([]byte("report contents"))
	b := DocumentID([]byte("report contents"))
	assert.Equal(t, a, b)
}

func TestDocumentIDChangesWithSingleByte(t *testing.T) {
	a := DocumentID([]byte("report contents"))
	b := DocumentID([]byte("report content!"))
	assert.NotEqual(t, a, b)
}

func TestChunkIDDeterministicPerPosition(t *testing.T) {
	docID := DocumentID([]byte("doc"))

	assert.Equal(t, ChunkID(docID, 0), ChunkID(docID, 0))
	assert.NotEqual(t, ChunkID(docID, 0), ChunkID(docID, 1))

	other := DocumentID([]byte("other doc"))
	assert.NotEqual(t, ChunkID(docID, 0), ChunkID(other, 0))
}

func TestChunkIDDistinctFromDocumentID(t *testing.T) {
	data := []byte("doc")
	docID := DocumentID(data)
	assert.NotEqual(t, docID, ChunkID(docID, 0))
}

func TestContentHashIsHexSHA256(t *testing.T) {
	h := ContentHash([]byte(""))
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", h)
}
