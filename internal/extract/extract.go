package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"finrag/internal/embed"
	"finrag/internal/index"
	"finrag/internal/llm"
	"finrag/internal/section"
	"finrag/internal/window"
)

// Document is one indexed report year ready for extraction.
type Document struct {
	ID       string
	Year     string
	Markdown string
	Sections []section.Section
	Index    *index.Index
}

// Extractor runs the per-topic retrieve -> window -> complete -> decode
// loop against a single document.
type Extractor struct {
	Completer llm.Completer
	Embedder  embed.Embedder
	Log       *slog.Logger

	// MaxAttempts bounds retries of transient provider failures.
	// Zero means the default of 5.
	MaxAttempts int

	// Backoff overrides the retry delay. Nil means exponential with
	// jitter, capped at a minute.
	Backoff func(attempt int) time.Duration
}

// ErrNoEvidence reports that retrieval found nothing to read for a
// topic. Callers treat it as an expected gap, not a failure.
var ErrNoEvidence = errors.New("no matching sections for topic")

// ExtractTopic retrieves the topic's sections from one document,
// assembles context windows and asks the completion provider for the
// topic's values.
func (e *Extractor) ExtractTopic(ctx context.Context, topic Topic, target Target, doc Document) (TopicValues, error) {
	log := e.logger().With("topic", topic.Name, "doc", doc.ID)

	hits, err := doc.Index.SearchText(ctx, e.Embedder, topic.Query, topic.TopK)
	if err != nil {
		return TopicValues{}, fmt.Errorf("search topic %q: %w", topic.Name, err)
	}
	seeds := make([]string, 0, len(hits))
	for _, h := range hits {
		seeds = append(seeds, h.Meta.SectionID)
	}

	windows, concat := window.Assemble(seeds, doc.Sections, doc.Markdown, window.Options{
		WindowSize:     topic.WindowSize,
		FirstMatchOnly: topic.FirstMatchOnly,
		Log:            log,
	})
	if len(windows) == 0 {
		return TopicValues{}, ErrNoEvidence
	}
	log.Debug("assembled topic context", "seeds", len(seeds), "windows", len(windows), "chars", len(concat))

	var prompt string
	if topic.Qualitative {
		prompt = BuildNarrativePrompt(target, topic, doc.Year, concat)
	} else {
		prompt = BuildFieldPrompt(target, topic, doc.Year, concat)
	}

	out, err := e.complete(ctx, prompt)
	if err != nil {
		return TopicValues{}, fmt.Errorf("extract topic %q: %w", topic.Name, err)
	}

	obj, err := DecodeObject(out)
	if err != nil {
		return TopicValues{}, fmt.Errorf("topic %q output: %w", topic.Name, err)
	}
	if topic.Qualitative {
		return TopicValues{Narrative: stringValue(obj["summary"])}, nil
	}
	values := make(map[string]string, len(topic.Fields))
	for _, f := range topic.Fields {
		values[f.Key] = stringValue(obj[f.Key])
	}
	return TopicValues{Fields: values}, nil
}

// complete calls the provider, retrying transient failures with
// exponential backoff.
func (e *Extractor) complete(ctx context.Context, prompt string) (string, error) {
	attempts := e.MaxAttempts
	if attempts <= 0 {
		attempts = 5
	}
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := e.backoff(attempt)
			e.logger().Warn("retrying completion", "attempt", attempt+1, "delay", delay, "error", lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}
		out, err := e.Completer.Complete(ctx, SystemPrompt, prompt)
		if err == nil {
			return out, nil
		}
		lastErr = err
		var retryable *llm.RetryableError
		if !errors.As(err, &retryable) {
			return "", err
		}
	}
	return "", fmt.Errorf("completion retries exhausted: %w", lastErr)
}

func (e *Extractor) backoff(attempt int) time.Duration {
	if e.Backoff != nil {
		return e.Backoff(attempt)
	}
	delay := time.Duration(1<<attempt) * time.Second
	if delay > 60*time.Second {
		delay = 60 * time.Second
	}
	return delay + time.Duration(rand.Int64N(int64(time.Second)))
}

func (e *Extractor) logger() *slog.Logger {
	if e.Log != nil {
		return e.Log
	}
	return slog.Default()
}

// stringValue renders whatever JSON value the model returned for a
// field as a plain string. null becomes "".
func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
