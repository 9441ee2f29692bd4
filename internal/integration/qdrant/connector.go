package qdrant

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/avast/retry-go/v4"
	"github.com/filescout/filescout-backend/internal/config"
	"github.com/filescout/filescout-backend/internal/entity"
	"github.com/filescout/filescout-backend/internal/integration/common"
	pkghttp "github.com/filescout/filescout-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector is a REST client for a Qdrant vector index. Point IDs are
// the content-addressed chunk UUIDs, so upserting the same chunk twice
// overwrites in place and never duplicates.
type Connector struct {
	config    config.QdrantConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.QdrantConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

type vectorsParams struct {
	Size     int    `json:"size"`
	Distance string `json:"distance"`
}

type collectionInfoResponse struct {
	Result struct {
		Config struct {
			Params struct {
				Vectors vectorsParams `json:"vectors"`
			} `json:"params"`
		} `json:"config"`
	} `json:"result"`
}

// EnsureCollection validates that the collection exists with the
// expected dimension and distance metric, creating it when missing.
// A schema mismatch is fatal and requires operator action; the
// collection is never migrated or recreated automatically.
func (c *Connector) EnsureCollection(ctx context.Context, collection string, dimension int) error {
	var info collectionInfoResponse
	err := c.connector.DoRequest(ctx, http.MethodGet, "/collections/"+collection, nil, &info)
	if err == nil {
		got := info.Result.Config.Params.Vectors
		if got.Size != dimension {
			return fmt.Errorf("%w: collection %q has dimension %d, expected %d (recreate the collection to change models)",
				entity.ErrSchemaMismatch, collection, got.Size, dimension)
		}
		if !strings.EqualFold(got.Distance, c.config.Distance) {
			return fmt.Errorf("%w: collection %q uses distance %q, expected %q",
				entity.ErrSchemaMismatch, collection, got.Distance, c.config.Distance)
		}
		return nil
	}

	if !pkghttp.IsStatus(err, http.StatusNotFound) {
		return fmt.Errorf("inspect collection %q: %w", collection, err)
	}

	ctxzap.Info(ctx, "creating collection",
		zap.String("collection", collection),
		zap.Int("dimension", dimension),
		zap.String("distance", c.config.Distance),
	)

	body := map[string]any{
		"vectors": vectorsParams{Size: dimension, Distance: c.config.Distance},
	}
	if err := c.connector.DoRequest(ctx, http.MethodPut, "/collections/"+collection, body, nil); err != nil {
		return fmt.Errorf("create collection %q: %w", collection, err)
	}
	return nil
}

type point struct {
	ID      string         `json:"id"`
	Vector  []float64      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

func chunkPayload(ch entity.Chunk) map[string]any {
	p := map[string]any{
		"document_id": ch.DocumentID,
		"idx":         ch.Idx,
		"text":        ch.Text,
		"kind":        string(ch.Kind),
		"path":        ch.Path,
	}
	if len(ch.Meta) > 0 {
		p["meta"] = ch.Meta
	}
	return p
}

func chunkFromPayload(id string, payload map[string]any) entity.Chunk {
	ch := entity.Chunk{ID: id}
	if v, ok := payload["document_id"].(string); ok {
		ch.DocumentID = v
	}
	if v, ok := payload["idx"].(float64); ok {
		ch.Idx = int(v)
	}
	if v, ok := payload["text"].(string); ok {
		ch.Text = v
	}
	if v, ok := payload["kind"].(string); ok {
		ch.Kind = entity.Kind(v)
	}
	if v, ok := payload["path"].(string); ok {
		ch.Path = v
	}
	if v, ok := payload["meta"].(map[string]any); ok {
		ch.Meta = v
	}
	return ch
}

// Upsert writes chunks with their vectors. ?wait=true makes the write
// visible to subsequent searches before returning.
func (c *Connector) Upsert(ctx context.Context, collection string, chunks []entity.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("upsert: %d chunks but %d vectors", len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}

	points := make([]point, len(chunks))
	for i, ch := range chunks {
		points[i] = point{ID: ch.ID, Vector: vectors[i], Payload: chunkPayload(ch)}
	}

	endpoint := fmt.Sprintf("/collections/%s/points?wait=true", collection)
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPut, endpoint, map[string]any{"points": points}, nil)
	}, append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...)
	if err != nil {
		return fmt.Errorf("upsert %d points into %q: %w", len(points), collection, err)
	}
	return nil
}

type filterClause struct {
	Must []matchCondition `json:"must,omitempty"`
}

type matchCondition struct {
	Key   string     `json:"key"`
	Match matchValue `json:"match"`
}

type matchValue struct {
	Value any `json:"value"`
}

// buildFilter emits exact-match conditions only. Prefix and range
// matching are not supported.
func buildFilter(f entity.SearchFilter) *filterClause {
	if f.Empty() {
		return nil
	}
	var must []matchCondition
	if f.DocumentID != "" {
		must = append(must, matchCondition{Key: "document_id", Match: matchValue{Value: f.DocumentID}})
	}
	if f.Kind != "" {
		must = append(must, matchCondition{Key: "kind", Match: matchValue{Value: string(f.Kind)}})
	}
	if f.Path != "" {
		must = append(must, matchCondition{Key: "path", Match: matchValue{Value: f.Path}})
	}
	return &filterClause{Must: must}
}

type searchResponse struct {
	Result []struct {
		ID      string         `json:"id"`
		Score   float64        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

// Search returns the k nearest chunks, filtered, ranked by the index.
func (c *Connector) Search(ctx context.Context, collection string, vector []float64, k int, filter entity.SearchFilter) ([]entity.Hit, error) {
	req := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}
	if f := buildFilter(filter); f != nil {
		req["filter"] = f
	}

	var resp searchResponse
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, fmt.Sprintf("/collections/%s/points/search", collection), req, &resp)
	}, append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...)
	if err != nil {
		return nil, fmt.Errorf("search collection %q: %w", collection, err)
	}

	hits := make([]entity.Hit, 0, len(resp.Result))
	for _, r := range resp.Result {
		ch := chunkFromPayload(r.ID, r.Payload)
		hits = append(hits, entity.Hit{
			ChunkID:    ch.ID,
			DocumentID: ch.DocumentID,
			Score:      r.Score,
			Text:       ch.Text,
			Path:       ch.Path,
			Kind:       ch.Kind,
			Idx:        ch.Idx,
		})
	}
	return hits, nil
}

type scrollResponse struct {
	Result struct {
		Points []struct {
			ID      string         `json:"id"`
			Payload map[string]any `json:"payload"`
		} `json:"points"`
		NextPageOffset any `json:"next_page_offset"`
	} `json:"result"`
}

// Scroll pages through every point matching the filter. Qdrant scrolls
// in point-ID order, which is stable across calls; callers needing a
// semantic order re-sort by payload fields.
func (c *Connector) Scroll(ctx context.Context, collection string, filter entity.SearchFilter) ([]entity.Chunk, error) {
	pageSize := c.config.ScrollPageSize
	if pageSize <= 0 {
		pageSize = 256
	}

	var chunks []entity.Chunk
	var offset any
	for {
		req := map[string]any{
			"limit":        pageSize,
			"with_payload": true,
			"with_vector":  false,
		}
		if f := buildFilter(filter); f != nil {
			req["filter"] = f
		}
		if offset != nil {
			req["offset"] = offset
		}

		var resp scrollResponse
		err := retry.Do(func() error {
			return c.connector.DoRequest(ctx, http.MethodPost, fmt.Sprintf("/collections/%s/points/scroll", collection), req, &resp)
		}, append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...)
		if err != nil {
			return nil, fmt.Errorf("scroll collection %q: %w", collection, err)
		}

		for _, p := range resp.Result.Points {
			chunks = append(chunks, chunkFromPayload(p.ID, p.Payload))
		}

		if resp.Result.NextPageOffset == nil {
			return chunks, nil
		}
		offset = resp.Result.NextPageOffset
	}
}

type countResponse struct {
	Result struct {
		Count int `json:"count"`
	} `json:"result"`
}

// Count returns the exact number of points matching the filter.
func (c *Connector) Count(ctx context.Context, collection string, filter entity.SearchFilter) (int, error) {
	req := map[string]any{"exact": true}
	if f := buildFilter(filter); f != nil {
		req["filter"] = f
	}

	var resp countResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, fmt.Sprintf("/collections/%s/points/count", collection), req, &resp); err != nil {
		return 0, fmt.Errorf("count collection %q: %w", collection, err)
	}
	return resp.Result.Count, nil
}

// DeleteByDocument removes every chunk of one document and returns how
// many points were removed.
func (c *Connector) DeleteByDocument(ctx context.Context, collection string, documentID string) (int, error) {
	filter := entity.SearchFilter{DocumentID: documentID}

	count, err := c.Count(ctx, collection, filter)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}

	req := map[string]any{"filter": buildFilter(filter)}
	endpoint := fmt.Sprintf("/collections/%s/points/delete?wait=true", collection)
	if err := c.connector.DoRequest(ctx, http.MethodPost, endpoint, req, nil); err != nil {
		return 0, fmt.Errorf("delete points of document %s: %w", documentID, err)
	}

	ctxzap.Info(ctx, "deleted document points",
		zap.String("collection", collection),
		zap.String("document_id", documentID),
		zap.Int("deleted_count", count),
	)
	return count, nil
}
