package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/filescout/filescout-backend/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Document catalog database
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configurations
	QdrantCfg    QdrantConfig    `envPrefix:"QDRANT_"`
	EmbeddingCfg EmbeddingConfig `envPrefix:"EMBEDDING_"`
	LLMCfg       LLMConfig       `envPrefix:"LLM_"`

	// Pipeline configuration
	ChunkingCfg ChunkingConfig `envPrefix:"CHUNK_"`
	AskCfg      AskConfig      `envPrefix:"ASK_"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Export configuration
	ExportCfg ExportConfig `envPrefix:"EXPORT_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Mock configuration: stub embedder, in-memory index, mock LLM
	EnableMocks bool `env:"ENABLE_MOCKS,notEmpty"`

	// Environment (set from flag, not from env var)
	Environment string
}

// QdrantConfig holds vector index connection and collection settings.
type QdrantConfig struct {
	HTTPClientConfig
	CollectionText  string               `env:"COLLECTION_TEXT" envDefault:"chunks"`
	CollectionImage string               `env:"COLLECTION_IMAGE" envDefault:"images"`
	Distance        string               `env:"DISTANCE" envDefault:"Cosine"`
	ScrollPageSize  int                  `env:"SCROLL_PAGE_SIZE" envDefault:"256"`
	Retry           pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// EmbeddingConfig holds the embedding service settings. Dimension is
// fixed per collection; switching models requires new collections.
type EmbeddingConfig struct {
	HTTPClientConfig
	Endpoint  string               `env:"ENDPOINT" envDefault:"/embeddings"`
	Model     string               `env:"MODEL,notEmpty"`
	Dimension int                  `env:"DIMENSION,notEmpty"`
	Retry     pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// LLMConfig holds the answer-synthesis service settings.
type LLMConfig struct {
	HTTPClientConfig
	GenerateEndpoint string        `env:"GENERATE_ENDPOINT" envDefault:"/api/generate"`
	ProbeEndpoint    string        `env:"PROBE_ENDPOINT" envDefault:"/api/tags"`
	Model            string        `env:"MODEL,notEmpty"`
	ProbeCacheTTL    time.Duration `env:"PROBE_CACHE_TTL" envDefault:"30s"`
}

// ChunkingConfig controls the splitter window, in characters.
type ChunkingConfig struct {
	Size    int `env:"SIZE" envDefault:"800"`
	Overlap int `env:"OVERLAP" envDefault:"100"`
}

// AskConfig bounds retrieval and synthesis.
type AskConfig struct {
	MinSynthesisScore float64 `env:"MIN_SYNTHESIS_SCORE" envDefault:"0.55"`
	MaxSnippets       int     `env:"MAX_SNIPPETS" envDefault:"6"`
	MaxContextChars   int     `env:"MAX_CONTEXT_CHARS" envDefault:"6000"`
	DefaultK          int     `env:"DEFAULT_K" envDefault:"5"`
}

// HTTPClientConfig configures one outbound HTTP integration.
type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"10s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL,notEmpty"`
}

// ExportConfig controls snapshot archives. SourceDir is where original
// uploads are looked up for inclusion; empty disables that lookup.
type ExportConfig struct {
	SourceDir string `env:"SOURCE_DIR"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxFileSize   int64 `env:"MAX_FILE_SIZE" envDefault:"5242880"`    // 5 MiB
	MaxTotalSize  int64 `env:"MAX_TOTAL_SIZE" envDefault:"26214400"`  // 25 MiB
	MaxFileCount  int   `env:"MAX_FILE_COUNT" envDefault:"64"`
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"` // 32 MiB
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errs []string

	if cfg.ChunkingCfg.Size <= 0 {
		errs = append(errs, fmt.Sprintf("CHUNK_SIZE must be positive, got %d", cfg.ChunkingCfg.Size))
	}
	if cfg.ChunkingCfg.Overlap < 0 || cfg.ChunkingCfg.Overlap >= cfg.ChunkingCfg.Size {
		errs = append(errs, fmt.Sprintf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE), got %d", cfg.ChunkingCfg.Overlap))
	}

	if cfg.EmbeddingCfg.Dimension <= 0 {
		errs = append(errs, fmt.Sprintf("EMBEDDING_DIMENSION must be positive, got %d", cfg.EmbeddingCfg.Dimension))
	}

	if cfg.AskCfg.MinSynthesisScore < 0 || cfg.AskCfg.MinSynthesisScore > 1 {
		errs = append(errs, fmt.Sprintf("ASK_MIN_SYNTHESIS_SCORE must be in [0, 1], got %f", cfg.AskCfg.MinSynthesisScore))
	}
	if cfg.AskCfg.MaxSnippets < 1 {
		errs = append(errs, fmt.Sprintf("ASK_MAX_SNIPPETS must be at least 1, got %d", cfg.AskCfg.MaxSnippets))
	}

	if cfg.QdrantCfg.CollectionText == cfg.QdrantCfg.CollectionImage {
		errs = append(errs, "QDRANT_COLLECTION_TEXT and QDRANT_COLLECTION_IMAGE must differ")
	}

	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errs = append(errs, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}
	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errs = append(errs, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", errs[0])
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
