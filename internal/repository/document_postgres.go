package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/filescout/filescout-backend/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentRepository defines the interface for the document catalog
type DocumentRepository interface {
	Upsert(ctx context.Context, doc entity.Document) (*entity.Document, error)
	Get(ctx context.Context, id string) (*entity.Document, error)
	List(ctx context.Context, skip, limit int) ([]*entity.Document, error)
	Delete(ctx context.Context, id string) error
}

var _ DocumentRepository = &DocumentPostgres{}

// DocumentPostgres implements DocumentRepository using PostgreSQL.
// The catalog is a metadata registry next to the vector index; it holds
// no chunk text and no vectors.
type DocumentPostgres struct {
	db *pgxpool.Pool
}

func NewDocumentPostgres(db *pgxpool.Pool) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

const documentColumns = `document_id, kind, source_path, extension, size_bytes, content_hash, chunk_count, collection, title, ingested_at`

// Upsert registers a document. Re-ingestion of identical bytes hits the
// same document_id and only refreshes the mutable metadata, matching
// the idempotent behavior of the vector index.
func (r *DocumentPostgres) Upsert(ctx context.Context, doc entity.Document) (*entity.Document, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO documents (document_id, kind, source_path, extension, size_bytes, content_hash, chunk_count, collection, title, ingested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		ON CONFLICT (document_id) DO UPDATE SET
			source_path = EXCLUDED.source_path,
			chunk_count = EXCLUDED.chunk_count,
			collection  = EXCLUDED.collection,
			title       = EXCLUDED.title,
			ingested_at = now()
		RETURNING `+documentColumns,
		doc.ID, string(doc.Kind), doc.SourcePath, doc.Extension, doc.SizeBytes,
		doc.ContentHash, doc.ChunkCount, doc.Collection, doc.Title,
	)

	saved, err := scanDocument(row)
	if err != nil {
		return nil, fmt.Errorf("upsert document: %w", err)
	}
	return saved, nil
}

func (r *DocumentPostgres) Get(ctx context.Context, id string) (*entity.Document, error) {
	row := r.db.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE document_id = $1`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

func (r *DocumentPostgres) List(ctx context.Context, skip, limit int) ([]*entity.Document, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		ORDER BY ingested_at DESC, document_id
		LIMIT $1 OFFSET $2`,
		limit, skip,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []*entity.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE document_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrDocumentNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*entity.Document, error) {
	var doc entity.Document
	var kind string
	if err := row.Scan(
		&doc.ID, &kind, &doc.SourcePath, &doc.Extension, &doc.SizeBytes,
		&doc.ContentHash, &doc.ChunkCount, &doc.Collection, &doc.Title, &doc.IngestedAt,
	); err != nil {
		return nil, err
	}
	doc.Kind = entity.Kind(kind)
	return &doc, nil
}
