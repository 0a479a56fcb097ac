package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"finrag/internal/llm"
)

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

var smartQuotes = strings.NewReplacer(
	"“", `"`, "”", `"`, // curly double quotes
	"‘", "'", "’", "'", // curly single quotes
)

// DecodeLoose pulls the first JSON object or array out of model output
// and decodes it, tolerating the damage models typically inflict:
// surrounding prose, code fences, trailing commas and smart quotes.
// The error names what went wrong so callers can log it per topic.
func DecodeLoose(text string) (any, error) {
	cleaned := llm.StripCodeBlock(text)
	block := firstJSONBlock(cleaned)
	if block == "" {
		return nil, fmt.Errorf("no JSON object or array in output: %q", snippet(cleaned))
	}
	block = smartQuotes.Replace(block)
	block = trailingCommaRe.ReplaceAllString(block, "$1")

	var v any
	if err := json.Unmarshal([]byte(block), &v); err != nil {
		return nil, fmt.Errorf("decode JSON block: %w (block %q)", err, snippet(block))
	}
	return v, nil
}

// DecodeObject is DecodeLoose narrowed to a string-keyed object, which
// is what every extraction prompt asks for.
func DecodeObject(text string) (map[string]any, error) {
	v, err := DecodeLoose(text)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected JSON object, got %T", v)
	}
	return obj, nil
}

// firstJSONBlock returns the first balanced {...} or [...] in s, or ""
// if none closes. Braces inside JSON strings are skipped.
func firstJSONBlock(s string) string {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return ""
	}
	open := s[start]
	var close byte = '}'
	if open == '[' {
		close = ']'
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 120 {
		return s[:120] + "..."
	}
	return s
}
