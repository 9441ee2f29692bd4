package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/filescout/filescout-backend/internal/api"
	askapi "github.com/filescout/filescout-backend/internal/api/ask"
	documentapi "github.com/filescout/filescout-backend/internal/api/document"
	ingestapi "github.com/filescout/filescout-backend/internal/api/ingest"
	"github.com/filescout/filescout-backend/internal/chunker"
	"github.com/filescout/filescout-backend/internal/config"
	"github.com/filescout/filescout-backend/internal/entity"
	"github.com/filescout/filescout-backend/internal/extractor"
	"github.com/filescout/filescout-backend/internal/integration/embedding"
	"github.com/filescout/filescout-backend/internal/integration/llm"
	"github.com/filescout/filescout-backend/internal/integration/qdrant"
	"github.com/filescout/filescout-backend/internal/pkg/validator"
	"github.com/filescout/filescout-backend/internal/repository"
	"github.com/filescout/filescout-backend/internal/usecase/ask"
	"github.com/filescout/filescout-backend/internal/usecase/document"
	"github.com/filescout/filescout-backend/internal/usecase/export"
	"github.com/filescout/filescout-backend/internal/usecase/ingest"
	"go.uber.org/zap"
)

// vectorIndex is the full surface both index backends implement.
type vectorIndex interface {
	EnsureCollection(ctx context.Context, collection string, dimension int) error
	Upsert(ctx context.Context, collection string, chunks []entity.Chunk, vectors [][]float64) error
	Search(ctx context.Context, collection string, vector []float64, k int, filter entity.SearchFilter) ([]entity.Hit, error)
	Scroll(ctx context.Context, collection string, filter entity.SearchFilter) ([]entity.Chunk, error)
	Count(ctx context.Context, collection string, filter entity.SearchFilter) (int, error)
	DeleteByDocument(ctx context.Context, collection string, documentID string) (int, error)
}

// embedder is the full surface both embedding backends implement.
type embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	Dimension() int
}

// generator is the full surface both LLM backends implement.
type generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Reachable(ctx context.Context) bool
}

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Setup database connection
	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	// Run database migrations
	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize repositories
	docRepo := repository.NewDocumentPostgres(db)
	logger.Info("Repositories initialized")

	// Initialize external service connectors (with mock support)
	var emb embedder
	var index vectorIndex
	var gen generator

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		emb = embedding.NewStub(cfg.EmbeddingCfg.Dimension, logger)
		index = qdrant.NewMemory(logger)
		gen = llm.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services")
		emb = embedding.NewConnector(cfg.EmbeddingCfg, logger)
		index = qdrant.NewConnector(cfg.QdrantCfg, logger)
		gen = llm.NewConnector(cfg.LLMCfg, logger)
	}

	// Fail fast when an existing collection disagrees with the
	// configured embedding dimension.
	for _, collection := range []string{cfg.QdrantCfg.CollectionText, cfg.QdrantCfg.CollectionImage} {
		if err := index.EnsureCollection(ctx, collection, emb.Dimension()); err != nil {
			db.Close()
			return nil, fmt.Errorf("ensure collection %s: %w", collection, err)
		}
	}
	logger.Info("Vector collections ready",
		zap.String("text_collection", cfg.QdrantCfg.CollectionText),
		zap.String("image_collection", cfg.QdrantCfg.CollectionImage),
		zap.Int("dimension", emb.Dimension()),
	)

	// Initialize the splitter once; its parameters are validated here
	// so a bad configuration stops the build instead of every request.
	splitter, err := chunker.NewSplitter(cfg.ChunkingCfg.Size, cfg.ChunkingCfg.Overlap)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("configure splitter: %w", err)
	}

	// Initialize validators
	fileValidator := validator.NewFileValidator(cfg.FileUploadCfg)
	logger.Info("Validators initialized")

	// Initialize use cases
	ingestUC := ingest.NewUsecase(
		extractor.DefaultRegistry(),
		splitter,
		emb,
		index,
		docRepo,
		cfg.QdrantCfg,
		logger,
	)
	askUC := ask.NewUsecase(emb, index, gen, cfg.AskCfg, cfg.QdrantCfg, logger)
	documentUC := document.NewUsecase(docRepo, index, logger)
	exportUC := export.NewUsecase(index, docRepo, cfg.ExportCfg, logger)
	logger.Info("Use cases initialized")

	// Setup API handlers
	ingestHandler := ingestapi.NewHandler(ingestUC, cfg.FileUploadCfg, fileValidator)
	askHandler := askapi.NewHandler(askUC)
	documentHandler := documentapi.NewHandler(documentUC, exportUC)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(ingestHandler, askHandler, documentHandler, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}
