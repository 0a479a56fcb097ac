// Package embed provides the embedding-provider boundary: clients that
// turn text into float vectors, plus the token-positional chunking used
// for oversized sections.
package embed

import (
	"context"
	"math/rand/v2"
	"time"
)

// Embedder converts texts to vectors. Implementations own their retry
// policy: transient provider failures (rate limits, 5xx) are retried up
// to MaxAttempts before surfacing an error, because a partially
// embedded document is worse than no index at all.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// MaxAttempts is the embedding retry cap.
const MaxAttempts = 5

// backoff returns the wait before retry attempt n (0-indexed):
// 2^attempt seconds plus jitter.
func backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 60*time.Second {
		base = 60 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

// waitOrCancel sleeps for d unless the context ends first.
func waitOrCancel(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
