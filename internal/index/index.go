// Package index builds, persists and searches the per-document
// embedding index. A Row holds a section's vector and its metadata in
// one record, so the index and its metadata cannot drift out of
// alignment by position.
package index

import (
	"context"
	"fmt"
	"math"
	"sort"

	"finrag/internal/embed"
)

// Meta is the per-row section metadata persisted alongside the vectors.
type Meta struct {
	SectionID     string `json:"section_id"`
	Title         string `json:"title"`
	SectionNumber int    `json:"section_number"`
	Lines         [2]int `json:"lines"`
	CharCount     int    `json:"char_count"`
}

// Row pairs one section vector with its metadata.
type Row struct {
	Vector []float32
	Meta   Meta
}

// Index is a flat L2 nearest-neighbor index over unit-normalized
// section vectors. With unit vectors, L2 distance is monotonic in
// cosine similarity, so ascending distance is descending relevance.
type Index struct {
	rows []Row
	dim  int
}

// Hit is one search result.
type Hit struct {
	Rank     int     `json:"rank"`
	Meta     Meta    `json:"section"`
	Distance float32 `json:"distance"`
}

// New builds an index over rows, L2-normalizing every vector in place.
func New(rows []Row) (*Index, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("index needs at least one row")
	}
	dim := len(rows[0].Vector)
	for i := range rows {
		if len(rows[i].Vector) != dim {
			return nil, fmt.Errorf("row %d: dimension %d, want %d", i, len(rows[i].Vector), dim)
		}
		normalize(rows[i].Vector)
	}
	return &Index{rows: rows, dim: dim}, nil
}

func (ix *Index) Len() int       { return len(ix.rows) }
func (ix *Index) Dimension() int { return ix.dim }

// Rows exposes the underlying rows for persistence.
func (ix *Index) Rows() []Row { return ix.rows }

// Search embeds nothing; it takes an already-embedded query vector,
// normalizes a copy of it, and returns the topK nearest rows by L2
// distance with 1-based ranks.
func (ix *Index) Search(query []float32, topK int) ([]Hit, error) {
	if len(query) != ix.dim {
		return nil, fmt.Errorf("query dimension %d, index dimension %d", len(query), ix.dim)
	}
	if topK <= 0 {
		return nil, nil
	}
	q := make([]float32, len(query))
	copy(q, query)
	normalize(q)

	hits := make([]Hit, 0, len(ix.rows))
	for i := range ix.rows {
		hits = append(hits, Hit{
			Meta:     ix.rows[i].Meta,
			Distance: l2Distance(q, ix.rows[i].Vector),
		})
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Distance < hits[b].Distance })
	if topK < len(hits) {
		hits = hits[:topK]
	}
	for i := range hits {
		hits[i].Rank = i + 1
	}
	return hits, nil
}

// SearchText embeds the query with the given embedder (single call, no
// chunking: queries are short) and searches.
func (ix *Index) SearchText(ctx context.Context, embedder embed.Embedder, query string, topK int) ([]Hit, error) {
	vecs, err := embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("embedder returned no vector for query")
	}
	return ix.Search(vecs[0], topK)
}

// normalize scales v to unit length in place. An all-zero vector is
// left untouched: dividing by a zero norm would seed the index with
// NaNs that silently poison every later search.
func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := 1.0 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
}

func l2Distance(a, b []float32) float32 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return float32(math.Sqrt(sum))
}
