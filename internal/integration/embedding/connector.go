package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/filescout/filescout-backend/internal/config"
	"github.com/filescout/filescout-backend/internal/entity"
	"github.com/filescout/filescout-backend/internal/integration/common"
	pkghttp "github.com/filescout/filescout-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector calls an OpenAI-compatible embeddings endpoint (OpenAI,
// Ollama, LM Studio and friends all speak this shape). Every vector it
// returns is checked against the configured dimension: a mismatch means
// the service is running a different model than the index was built
// with and must fail fast.
type Connector struct {
	config    config.EmbeddingConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.EmbeddingConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Dimension returns the fixed vector dimension of the configured model.
func (c *Connector) Dimension() int {
	return c.config.Dimension
}

type embedRequest struct {
	Input string `json:"input"`
	Model string `json:"model"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	// Ollama-native response shape
	Embedding []float64 `json:"embedding"`
}

// Embed returns the embedding vector for one text.
func (c *Connector) Embed(ctx context.Context, text string) ([]float64, error) {
	var vector []float64

	err := retry.Do(func() error {
		var resp embedResponse
		req := embedRequest{Input: text, Model: c.config.Model}
		if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.Endpoint, req, &resp); err != nil {
			if pkghttp.IsStatus(err, http.StatusTooManyRequests) {
				return fmt.Errorf("%w: %v", entity.ErrRateLimited, err)
			}
			return err
		}

		switch {
		case len(resp.Data) > 0 && len(resp.Data[0].Embedding) > 0:
			vector = resp.Data[0].Embedding
		case len(resp.Embedding) > 0:
			vector = resp.Embedding
		default:
			return retry.Unrecoverable(errors.New("embeddings response contained no vector"))
		}
		return nil
	}, append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...)
	if err != nil {
		ctxzap.Error(ctx, "embedding request failed", zap.Error(err))
		return nil, fmt.Errorf("embed text: %w", err)
	}

	if len(vector) != c.config.Dimension {
		return nil, fmt.Errorf("%w: model %q returned %d dimensions, collection expects %d",
			entity.ErrDimensionMismatch, c.config.Model, len(vector), c.config.Dimension)
	}

	return vector, nil
}
