package document

import "context"

// VectorIndex is the slice of the vector store the catalog needs:
// removing a document's points when the document is deleted.
type VectorIndex interface {
	DeleteByDocument(ctx context.Context, collection string, documentID string) (int, error)
}
