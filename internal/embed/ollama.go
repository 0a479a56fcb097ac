package embed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
)

// OllamaClient generates embeddings against a local Ollama server.
type OllamaClient struct {
	client    *api.Client
	model     string
	dimension int
	timeout   time.Duration
}

func NewOllamaClient(host, model string, dimension int) (*OllamaClient, error) {
	var client *api.Client
	if host == "" {
		// Falls back to OLLAMA_HOST or the local default.
		var err error
		client, err = api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("ollama client from environment: %w", err)
		}
	} else {
		base, err := url.Parse(host)
		if err != nil {
			return nil, fmt.Errorf("parse ollama host %q: %w", host, err)
		}
		client = api.NewClient(base, http.DefaultClient)
	}
	return &OllamaClient{
		client:    client,
		model:     model,
		dimension: dimension,
		timeout:   30 * time.Second,
	}, nil
}

func (c *OllamaClient) Dimension() int { return c.dimension }

func (c *OllamaClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vec, err := c.embedOne(ctx, text)
		if err != nil {
			return nil, err
		}
		out = append(out, vec)
	}
	return out, nil
}

func (c *OllamaClient) embedOne(ctx context.Context, text string) ([]float32, error) {
	var lastErr error
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		if attempt > 0 {
			if !waitOrCancel(ctx, backoff(attempt-1)) {
				return nil, ctx.Err()
			}
		}

		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.client.Embeddings(reqCtx, &api.EmbeddingRequest{
			Model:  c.model,
			Prompt: text,
		})
		cancel()
		if err != nil {
			lastErr = fmt.Errorf("ollama embedding: %w", err)
			continue
		}

		vec := make([]float32, len(resp.Embedding))
		for i, v := range resp.Embedding {
			vec[i] = float32(v)
		}
		return vec, nil
	}
	return nil, fmt.Errorf("ollama embedding failed after %d attempts: %w", MaxAttempts, lastErr)
}
