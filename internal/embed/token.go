package embed

import "strings"

const (
	// MaxSectionTokens is the per-embedding-call token ceiling; sections
	// over it are chunked.
	MaxSectionTokens = 8000

	// ChunkOverlapTokens is the token overlap between adjacent chunks.
	ChunkOverlapTokens = 128

	tokensPerWord = 1.33
	runesPerToken = 2 // CJK text carries roughly two runes per token
)

// EstimateTokens gives a rough token count. English-like text is
// estimated from word count; text with few spaces (CJK reports) from
// rune count. Exact tokenization is not required, the estimate only
// decides whether a section needs chunking.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := strings.Fields(text)
	runes := []rune(text)

	var tokens int
	if wordBased(words, runes) {
		tokens = int(float64(len(words)) * tokensPerWord)
	} else {
		tokens = len(runes) / runesPerToken
	}
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}

// wordBased reports whether the text is space-delimited enough for a
// word-count token estimate; CJK text fails this and is counted by rune.
func wordBased(words []string, runes []rune) bool {
	return len(words) > 0 && len(runes)/len(words) < 12
}

// ChunkByTokens splits text into chunks of at most maxTokens estimated
// tokens with overlapTokens of overlap, cutting at token positions. A
// text already under the limit comes back as a single chunk.
func ChunkByTokens(text string, maxTokens, overlapTokens int) []string {
	if maxTokens <= 0 {
		maxTokens = MaxSectionTokens
	}
	if overlapTokens < 0 || overlapTokens >= maxTokens {
		overlapTokens = 0
	}
	if EstimateTokens(text) <= maxTokens {
		return []string{text}
	}

	units, sep := tokenUnits(text)
	perUnit := unitTokenWeight(text)
	unitMax := int(float64(maxTokens) / perUnit)
	unitOverlap := int(float64(overlapTokens) / perUnit)
	if unitMax < 1 {
		unitMax = 1
	}
	if unitOverlap >= unitMax {
		unitOverlap = unitMax - 1
	}

	var chunks []string
	step := unitMax - unitOverlap
	for start := 0; start < len(units); start += step {
		end := start + unitMax
		if end > len(units) {
			end = len(units)
		}
		chunks = append(chunks, strings.Join(units[start:end], sep))
		if end == len(units) {
			break
		}
	}
	return chunks
}

// tokenUnits picks the positional unit for chunking: whitespace words
// when the text has them, individual runes otherwise.
func tokenUnits(text string) ([]string, string) {
	words := strings.Fields(text)
	runes := []rune(text)
	if wordBased(words, runes) {
		return words, " "
	}
	units := make([]string, len(runes))
	for i, r := range runes {
		units[i] = string(r)
	}
	return units, ""
}

func unitTokenWeight(text string) float64 {
	words := strings.Fields(text)
	runes := []rune(text)
	if wordBased(words, runes) {
		return tokensPerWord
	}
	return 1.0 / runesPerToken
}

// MeanPool combines chunk vectors by unweighted elementwise mean. The
// pooling is deliberately uniform, not length-weighted: callers needing
// exact fidelity for very long sections should know short trailing
// chunks count the same as full ones.
func MeanPool(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}
	if len(vectors) == 1 {
		return vectors[0]
	}
	dim := len(vectors[0])
	out := make([]float32, dim)
	for _, v := range vectors {
		for i := 0; i < dim && i < len(v); i++ {
			out[i] += v[i]
		}
	}
	n := float32(len(vectors))
	for i := range out {
		out[i] /= n
	}
	return out
}
