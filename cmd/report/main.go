// Command report runs one report pair through the pipeline without the
// HTTP server and prints the rendered markdown.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"finrag/internal/config"
	"finrag/internal/embed"
	"finrag/internal/extract"
	"finrag/internal/llm"
	"finrag/internal/pipeline"
	"finrag/internal/store"
)

func main() {
	var (
		currentPath = flag.String("current", "", "current-year report file (required)")
		priorPath   = flag.String("prior", "", "prior-year report file (required)")
		company     = flag.String("company", "", "company name")
		currency    = flag.String("currency", "", "reporting currency")
		language    = flag.String("language", "", "report language")
		currentYear = flag.String("current-year", "", "label for the current year")
		priorYear   = flag.String("prior-year", "", "label for the prior year")
		outPath     = flag.String("out", "", "write the report here instead of stdout")
		force       = flag.Bool("force", false, "rebuild embedding indexes even when cached")
	)
	flag.Parse()

	_ = godotenv.Load()
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *currentPath == "" || *priorPath == "" {
		fmt.Fprintln(os.Stderr, "both -current and -prior are required")
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, log, *currentPath, *priorPath, *company, *currency, *language, *currentYear, *priorYear, *outPath, *force); err != nil {
		log.Error("report failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger, currentPath, priorPath, company, currency, language, currentYear, priorYear, outPath string, force bool) error {
	currentData, err := os.ReadFile(currentPath)
	if err != nil {
		return err
	}
	priorData, err := os.ReadFile(priorPath)
	if err != nil {
		return err
	}

	st, err := store.New(cfg.DataDir)
	if err != nil {
		return err
	}
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}
	topics, err := extract.LoadTopics(cfg.TopicsPath)
	if err != nil {
		return err
	}

	stats := llm.NewStats(time.Hour)
	claude := llm.NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, stats)
	defer claude.Close()

	ops := &pipeline.Ops{Store: st, Embedder: embedder, Log: log}
	extractor := &extract.Extractor{Completer: claude, Embedder: embedder, Log: log}
	worker := pipeline.NewWorker(ops, extractor, topics, log)

	now := time.Now()
	job := &pipeline.Job{
		ID: pipeline.NewJobID(),
		Target: extract.Target{
			Company:  company,
			Language: language,
			Currency: currency,
		},
		CurrentYear:     currentYear,
		PriorYear:       priorYear,
		CurrentFilename: currentPath,
		PriorFilename:   priorPath,
		Force:           force,
		Status:          pipeline.StatusQueued,
		Phase:           "queued",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	job.SetFileData(currentData, priorData)

	worker.Process(context.Background(), job)

	snap := job.Snapshot()
	switch snap.Status {
	case pipeline.StatusCompleted:
	case pipeline.StatusPartial:
		log.Warn("report completed with gaps", "errors", snap.Progress.Errors)
	default:
		return fmt.Errorf("job ended with status %s: %v", snap.Status, snap.Progress.Errors)
	}

	md, err := st.ReadReport(snap.CurrentDocID)
	if err != nil {
		return err
	}
	if outPath != "" {
		return os.WriteFile(outPath, []byte(md), 0o644)
	}
	fmt.Print(md)
	return nil
}

func newEmbedder(cfg config.Config) (embed.Embedder, error) {
	switch cfg.EmbeddingProvider {
	case "ollama":
		return embed.NewOllamaClient(cfg.EmbeddingBaseURL, cfg.EmbeddingModel, cfg.EmbeddingDim)
	default:
		return embed.NewOpenAIClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDim), nil
	}
}
