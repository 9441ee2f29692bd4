// Package identity derives content-addressed identifiers for documents
// and chunks. Identical input always yields the identical identifier
// across processes and machines; identifiers are valid point UUIDs for
// the vector index.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/google/uuid"
)

// Fixed namespaces keep document and chunk identifier spaces disjoint.
// Changing either would orphan every previously indexed point.
var (
	documentNamespace = uuid.MustParse("6f1c1c0a-24a4-4f7e-9a5d-7b1f1b8f3d01")
	chunkNamespace    = uuid.MustParse("a4b3d1f2-8c6e-4d2a-b9f0-2e5c9a7d4e02")
)

// ContentHash returns the hex-encoded SHA-256 of the raw file bytes.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DocumentID derives the document identifier from raw bytes. Filenames,
// paths and timestamps never participate.
func DocumentID(data []byte) string {
	sum := sha256.Sum256(data)
	return uuid.NewSHA1(documentNamespace, sum[:]).String()
}

// ChunkID derives the chunk identifier from the owning document and the
// chunk's position. Re-splitting unchanged content reproduces the same
// identifiers, which is what makes upserts idempotent.
func ChunkID(documentID string, idx int) string {
	return uuid.NewSHA1(chunkNamespace, []byte(documentID+":"+strconv.Itoa(idx))).String()
}
