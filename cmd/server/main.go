package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finrag/internal/api"
	"finrag/internal/config"
	"finrag/internal/embed"
	"finrag/internal/extract"
	"finrag/internal/llm"
	"finrag/internal/pipeline"
	"finrag/internal/store"
)

func main() {
	_ = godotenv.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.New(cfg.DataDir)
	if err != nil {
		log.Error("store init failed", "error", err)
		os.Exit(1)
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		log.Error("embedder init failed", "error", err)
		os.Exit(1)
	}

	topics, err := extract.LoadTopics(cfg.TopicsPath)
	if err != nil {
		log.Error("topics load failed", "error", err)
		os.Exit(1)
	}

	stats := llm.NewStats(time.Hour)
	claude := llm.NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, stats)

	ops := &pipeline.Ops{Store: st, Embedder: embedder, Log: log}
	extractor := &extract.Extractor{Completer: claude, Embedder: embedder, Log: log}

	orch := pipeline.NewOrchestrator(cfg, ops, extractor, topics, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, stats, cfg.AnthropicModel, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		claude.Close()
	}()

	log.Info("starting finrag", "port", cfg.Port, "topics", len(topics), "embedding_provider", cfg.EmbeddingProvider)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func newEmbedder(cfg config.Config) (embed.Embedder, error) {
	switch cfg.EmbeddingProvider {
	case "ollama":
		return embed.NewOllamaClient(cfg.EmbeddingBaseURL, cfg.EmbeddingModel, cfg.EmbeddingDim)
	default:
		return embed.NewOpenAIClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDim), nil
	}
}
