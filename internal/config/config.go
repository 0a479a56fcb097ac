package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Artifact storage
	DataDir string

	// Auth
	APIKey string

	// Claude extraction
	AnthropicAPIKey string
	AnthropicModel  string

	// Embeddings
	EmbeddingProvider string // "openai" or "ollama"
	EmbeddingModel    string
	EmbeddingBaseURL  string
	EmbeddingAPIKey   string
	EmbeddingDim      int

	// Extraction plan
	TopicsPath string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		DataDir: envOr("DATA_DIR", "data"),

		APIKey: os.Getenv("FINRAG_API_KEY"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),

		EmbeddingProvider: envOr("EMBEDDING_PROVIDER", "openai"),
		EmbeddingModel:    envOr("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingBaseURL:  os.Getenv("EMBEDDING_BASE_URL"),
		EmbeddingAPIKey:   os.Getenv("EMBEDDING_API_KEY"),
		EmbeddingDim:      envInt("EMBEDDING_DIM", 1536),

		TopicsPath: os.Getenv("TOPICS_PATH"),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 50),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.EmbeddingDim <= 0 {
		cfg.EmbeddingDim = 1536
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("FINRAG_API_KEY is required")
	}
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	switch c.EmbeddingProvider {
	case "openai":
		if c.EmbeddingAPIKey == "" && c.EmbeddingBaseURL == "" {
			return fmt.Errorf("EMBEDDING_API_KEY or EMBEDDING_BASE_URL is required for the openai provider")
		}
	case "ollama":
		// The ollama client falls back to its own host defaults.
	default:
		return fmt.Errorf("unknown EMBEDDING_PROVIDER %q (want openai or ollama)", c.EmbeddingProvider)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
