package ask

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/filescout/filescout-backend/internal/config"
	"github.com/filescout/filescout-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// AskUsecase answers natural-language questions over the indexed
// corpus: embed the query, retrieve ranked chunks, then run the
// synthesis gate. Language-model trouble degrades the answer to its
// sources; it never surfaces as a request error.
type AskUsecase struct {
	embedder  Embedder
	index     VectorIndex
	generator Generator
	askCfg    config.AskConfig
	qdrantCfg config.QdrantConfig
	logger    *zap.Logger
}

// NewUsecase creates the ask use case.
func NewUsecase(
	embedder Embedder,
	index VectorIndex,
	generator Generator,
	askCfg config.AskConfig,
	qdrantCfg config.QdrantConfig,
	logger *zap.Logger,
) *AskUsecase {
	return &AskUsecase{
		embedder:  embedder,
		index:     index,
		generator: generator,
		askCfg:    askCfg,
		qdrantCfg: qdrantCfg,
		logger:    logger,
	}
}

// Ask runs one question through retrieval and the synthesis gate.
func (uc *AskUsecase) Ask(ctx context.Context, req *entity.AskRequest) (*entity.AskOutcome, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: query", entity.ErrMissingField)
	}
	if req.K <= 0 {
		req.K = uc.askCfg.DefaultK
	}
	req.Normalize()

	if err := req.AnswerMode.Validate(); err != nil {
		return nil, err
	}
	if req.Kind != "" {
		if err := req.Kind.Validate(); err != nil {
			return nil, err
		}
	}

	vector, err := uc.embedder.Embed(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	filter := entity.SearchFilter{DocumentID: req.DocumentID, Kind: req.Kind, Path: req.Path}
	hits, err := uc.index.Search(ctx, uc.qdrantCfg.CollectionText, vector, req.K, filter)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	// The index already ranks by score; re-sorting stably pins the
	// contract here rather than in each backend.
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	var topScore float64
	if len(hits) > 0 {
		topScore = hits[0].Score
	}

	reachable := true
	if req.AnswerMode == entity.AskModeSynthesize && len(hits) > 0 && topScore >= uc.askCfg.MinSynthesisScore {
		reachable = uc.generator.Reachable(ctx)
	}

	decision := Decide(req.AnswerMode, len(hits), topScore, uc.askCfg.MinSynthesisScore, reachable)
	outcome := &entity.AskOutcome{
		Mode:          decision.Mode,
		Sources:       hits,
		SkippedReason: decision.SkippedReason,
		TopScore:      topScore,
		Threshold:     uc.askCfg.MinSynthesisScore,
	}

	ctxzap.Info(ctx, "synthesis gate decided",
		zap.String("mode", string(decision.Mode)),
		zap.Int("hits", len(hits)),
		zap.Float64("top_score", topScore),
		zap.Float64("threshold", uc.askCfg.MinSynthesisScore),
	)

	if !decision.Synthesize {
		return outcome, nil
	}

	prompt, used := uc.buildPrompt(req.Query, hits)
	answer, err := uc.generator.Generate(ctx, prompt)
	if err != nil {
		ctxzap.Warn(ctx, "generation failed, degrading to sources only", zap.Error(err))
		outcome.Mode = entity.AskOutcomeLowConfidence
		outcome.SkippedReason = entity.SkippedLLMError
		return outcome, nil
	}

	outcome.FinalAnswer = answer
	outcome.Sources = used
	return outcome, nil
}

// buildPrompt assembles a bounded context from the top hits: at most
// MaxSnippets snippets and MaxContextChars characters of snippet text,
// in score order. It returns the prompt and the hits actually included.
func (uc *AskUsecase) buildPrompt(query string, hits []entity.Hit) (string, []entity.Hit) {
	var b strings.Builder
	b.WriteString("Answer the question using only the numbered sources below. ")
	b.WriteString("If the sources do not contain the answer, say you do not know.\n\nSources:\n")

	var used []entity.Hit
	budget := uc.askCfg.MaxContextChars
	for _, h := range hits {
		if len(used) == uc.askCfg.MaxSnippets {
			break
		}
		text := h.Text
		if len(text) > budget {
			text = text[:budget]
		}
		if strings.TrimSpace(text) == "" {
			break
		}
		used = append(used, h)
		budget -= len(text)

		fmt.Fprintf(&b, "[%d] %s (chunk %d):\n%s\n\n", len(used), h.Path, h.Idx, text)
		if budget <= 0 {
			break
		}
	}

	fmt.Fprintf(&b, "Question: %s\nAnswer:", query)
	return b.String(), used
}
