package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const openAIBatchSize = 64

// OpenAIClient talks to an OpenAI-compatible /embeddings endpoint.
type OpenAIClient struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	model      string
	dimension  int
}

func NewOpenAIClient(baseURL, apiKey, model string, dimension int) *OpenAIClient {
	endpoint := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1"
	}
	return &OpenAIClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		endpoint:   endpoint + "/embeddings",
		apiKey:     apiKey,
		model:      model,
		dimension:  dimension,
	}
}

func (c *OpenAIClient) Dimension() int { return c.dimension }

type openAIRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions *int     `json:"dimensions,omitempty"`
}

type openAIResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *OpenAIClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += openAIBatchSize {
		end := i + openAIBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		vecs, err := c.embedBatch(ctx, texts[i:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (c *OpenAIClient) embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	payload := openAIRequest{Model: c.model, Input: batch}
	if c.dimension > 0 {
		payload.Dimensions = &c.dimension
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		if attempt > 0 {
			if !waitOrCancel(ctx, backoff(attempt-1)) {
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("build embedding request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("embedding request: %w", err)
			continue
		}
		data, readErr := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("read embedding response: %w", readErr)
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("embedding status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("embedding status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		}

		var parsed openAIResponse
		if err := json.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("decode embedding response: %w", err)
		}
		if parsed.Error != nil {
			return nil, fmt.Errorf("embedding error: %s: %s", parsed.Error.Type, parsed.Error.Message)
		}
		if len(parsed.Data) != len(batch) {
			return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(parsed.Data), len(batch))
		}

		vecs := make([][]float32, len(batch))
		for _, item := range parsed.Data {
			if item.Index < 0 || item.Index >= len(batch) {
				return nil, fmt.Errorf("embedding index %d out of range", item.Index)
			}
			vecs[item.Index] = item.Embedding
		}
		for i := range vecs {
			if len(vecs[i]) == 0 {
				return nil, fmt.Errorf("missing embedding at index %d", i)
			}
		}
		return vecs, nil
	}

	return nil, fmt.Errorf("embedding failed after %d attempts: %w", MaxAttempts, lastErr)
}
