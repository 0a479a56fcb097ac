package embed

import (
	"strings"
	"testing"
)

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("empty text: expected 0 tokens, got %d", got)
	}
	if got := EstimateTokens("one two three four"); got < 4 || got > 8 {
		t.Errorf("expected roughly 5 tokens for 4 words, got %d", got)
	}
	// CJK text has no spaces; the rune-based estimate must kick in.
	cjk := strings.Repeat("当社の経営成績", 10)
	if got := EstimateTokens(cjk); got < 20 {
		t.Errorf("expected rune-based estimate for CJK text, got %d", got)
	}
}

func TestChunkByTokens_ShortTextSingleChunk(t *testing.T) {
	chunks := ChunkByTokens("short text", 100, 10)
	if len(chunks) != 1 || chunks[0] != "short text" {
		t.Errorf("expected single unchanged chunk, got %v", chunks)
	}
}

func TestChunkByTokens_SplitsWithOverlap(t *testing.T) {
	words := make([]string, 400)
	for i := range words {
		words[i] = "word"
	}
	text := strings.Join(words, " ")

	chunks := ChunkByTokens(text, 100, 20)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if got := EstimateTokens(c); got > 100 {
			t.Errorf("chunk %d exceeds max tokens: %d", i, got)
		}
	}
	// Adjacent chunks share their overlap region.
	firstWords := strings.Fields(chunks[0])
	secondWords := strings.Fields(chunks[1])
	perWord := float64(tokensPerWord)
	overlap := int(20 / perWord)
	tail := strings.Join(firstWords[len(firstWords)-overlap:], " ")
	head := strings.Join(secondWords[:overlap], " ")
	if tail != head {
		t.Errorf("expected %d-word overlap between chunks", overlap)
	}
}

func TestChunkByTokens_CoversAllText(t *testing.T) {
	words := make([]string, 350)
	for i := range words {
		words[i] = "w"
	}
	text := strings.Join(words, " ")

	chunks := ChunkByTokens(text, 80, 0)
	total := 0
	for _, c := range chunks {
		total += len(strings.Fields(c))
	}
	if total != 350 {
		t.Errorf("zero-overlap chunks should cover exactly all 350 words, got %d", total)
	}
}

func TestMeanPool(t *testing.T) {
	got := MeanPool([][]float32{
		{1, 2, 3},
		{3, 4, 5},
	})
	want := []float32{2, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %f, want %f", i, got[i], want[i])
		}
	}

	if MeanPool(nil) != nil {
		t.Error("expected nil for no vectors")
	}

	single := []float32{7, 8}
	pooled := MeanPool([][]float32{single})
	if pooled[0] != 7 || pooled[1] != 8 {
		t.Errorf("single vector should pass through, got %v", pooled)
	}
}
