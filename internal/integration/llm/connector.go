package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/filescout/filescout-backend/internal/config"
	"github.com/filescout/filescout-backend/internal/integration/common"
	pkghttp "github.com/filescout/filescout-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const reachabilityCacheKey = "llm_reachable"

// Connector talks to an Ollama-compatible generation endpoint. The
// model runs locally and may simply not be there, so reachability is a
// first-class question answered by Reachable, with the probe result
// cached briefly to keep it off the hot path of every ask request.
type Connector struct {
	config     config.LLMConfig
	connector  *pkghttp.Connector
	probeCache *gocache.Cache
	logger     *zap.Logger
}

func NewConnector(
	cfg config.LLMConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector:  common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:     cfg,
		probeCache: gocache.New(cfg.ProbeCacheTTL, 2*cfg.ProbeCacheTTL),
		logger:     logger,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate produces text for a bounded prompt. The request timeout of
// the underlying client bounds the call; there is no retry here because
// the ask flow degrades to retrieve-only on failure instead.
func (c *Connector) Generate(ctx context.Context, prompt string) (string, error) {
	ctxzap.Debug(ctx, "generating answer via LLM service", zap.Int("prompt_length", len(prompt)))

	var resp generateResponse
	req := generateRequest{Model: c.config.Model, Prompt: prompt, Stream: false}
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.GenerateEndpoint, req, &resp); err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	if resp.Response == "" {
		return "", fmt.Errorf("generate answer: empty response from model %q", c.config.Model)
	}

	ctxzap.Debug(ctx, "answer generated", zap.Int("answer_length", len(resp.Response)))
	return resp.Response, nil
}

// Reachable probes the service with a lightweight request. The result
// is cached for ProbeCacheTTL so bursts of questions share one probe.
func (c *Connector) Reachable(ctx context.Context) bool {
	if cached, ok := c.probeCache.Get(reachabilityCacheKey); ok {
		return cached.(bool)
	}

	err := c.connector.DoRequest(ctx, http.MethodGet, c.config.ProbeEndpoint, nil, nil)
	reachable := err == nil
	if !reachable {
		ctxzap.Info(ctx, "LLM service unreachable", zap.Error(err))
	}

	c.probeCache.Set(reachabilityCacheKey, reachable, gocache.DefaultExpiration)
	return reachable
}
