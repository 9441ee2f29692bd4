package document

import (
	"context"
	"testing"

	"github.com/filescout/filescout-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memDocRepo struct {
	docs map[string]entity.Document
}

func newMemDocRepo(docs ...entity.Document) *memDocRepo {
	r := &memDocRepo{docs: make(map[string]entity.Document)}
	for _, d := range docs {
		r.docs[d.ID] = d
	}
	return r
}

func (r *memDocRepo) Upsert(_ context.Context, doc entity.Document) (*entity.Document, error) {
	r.docs[doc.ID] = doc
	return &doc, nil
}

func (r *memDocRepo) Get(_ context.Context, id string) (*entity.Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, entity.ErrDocumentNotFound
	}
	return &doc, nil
}

func (r *memDocRepo) List(_ context.Context, _, limit int) ([]*entity.Document, error) {
	var docs []*entity.Document
	for id := range r.docs {
		if len(docs) == limit {
			break
		}
		doc := r.docs[id]
		docs = append(docs, &doc)
	}
	return docs, nil
}

func (r *memDocRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.docs[id]; !ok {
		return entity.ErrDocumentNotFound
	}
	delete(r.docs, id)
	return nil
}

type recordingIndex struct {
	deletedCollection string
	deletedDocument   string
	deleteCount       int
}

func (r *recordingIndex) DeleteByDocument(_ context.Context, collection string, documentID string) (int, error) {
	r.deletedCollection = collection
	r.deletedDocument = documentID
	return r.deleteCount, nil
}

func TestDeleteDocument_RemovesIndexPointsAndCatalogEntry(t *testing.T) {
	docID := uuid.New().String()
	repo := newMemDocRepo(entity.Document{ID: docID, Collection: "chunks", ChunkCount: 4})
	index := &recordingIndex{deleteCount: 4}
	uc := NewUsecase(repo, index, zap.NewNop())

	require.NoError(t, uc.DeleteDocument(context.Background(), docID))

	assert.Equal(t, "chunks", index.deletedCollection)
	assert.Equal(t, docID, index.deletedDocument)
	assert.Empty(t, repo.docs)
}

func TestDeleteDocument_UnknownID(t *testing.T) {
	uc := NewUsecase(newMemDocRepo(), &recordingIndex{}, zap.NewNop())

	err := uc.DeleteDocument(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, entity.ErrDocumentNotFound)
}

func TestDeleteDocument_InvalidID(t *testing.T) {
	uc := NewUsecase(newMemDocRepo(), &recordingIndex{}, zap.NewNop())

	err := uc.DeleteDocument(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestGetDocument(t *testing.T) {
	docID := uuid.New().String()
	repo := newMemDocRepo(entity.Document{ID: docID, Kind: entity.KindText})
	uc := NewUsecase(repo, &recordingIndex{}, zap.NewNop())

	doc, err := uc.GetDocument(context.Background(), docID)
	require.NoError(t, err)
	assert.Equal(t, entity.KindText, doc.Kind)

	_, err = uc.GetDocument(context.Background(), "bogus")
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestListDocuments_ClampsPagination(t *testing.T) {
	repo := newMemDocRepo(
		entity.Document{ID: uuid.New().String()},
		entity.Document{ID: uuid.New().String()},
	)
	uc := NewUsecase(repo, &recordingIndex{}, zap.NewNop())

	docs, err := uc.ListDocuments(context.Background(), -5, 0)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}
