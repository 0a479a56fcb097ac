package extract

import (
	"fmt"
	"strings"
)

// SystemPrompt pins the model to the extraction role across all topics.
const SystemPrompt = `You are a financial analyst extracting figures from annual report excerpts. You only report what the text states. You never estimate, never convert units, and never invent values. You respond with JSON only, no prose and no code fences.`

// BuildFieldPrompt asks for one JSON object keyed exactly by the
// topic's field keys. Missing values must come back as null so the
// merge step can fall through to the other year.
func BuildFieldPrompt(target Target, topic Topic, year, windows string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Company: %s\nFiscal year: %s\nReport language: %s\nReporting currency: %s\n\n",
		target.Company, year, target.Language, target.Currency)
	sb.WriteString("Extract the following values from the excerpts below. Return ONLY a JSON object with exactly these keys:\n\n")
	for _, f := range topic.Fields {
		if f.Unit != "" {
			fmt.Fprintf(&sb, "- %q: %s (in %s)\n", f.Key, f.Label, f.Unit)
		} else {
			fmt.Fprintf(&sb, "- %q: %s\n", f.Key, f.Label)
		}
	}
	sb.WriteString(`
Rules:
- Each value is a string copied from the text, keeping its unit and scale (e.g. "1,234 million yen", "8.2%").
- Use the consolidated figure when both consolidated and standalone are present.
- Use null for any value the excerpts do not state. Do not guess.
- No keys other than the ones listed.

Excerpts:
---
`)
	sb.WriteString(windows)
	sb.WriteString("\n---")
	return sb.String()
}

// BuildNarrativePrompt asks for a short factual summary of a
// qualitative topic.
func BuildNarrativePrompt(target Target, topic Topic, year, windows string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Company: %s\nFiscal year: %s\nTopic: %s\n\n",
		target.Company, year, strings.ReplaceAll(topic.Name, "_", " "))
	sb.WriteString(`Summarize what the excerpts below say about this topic. Return ONLY a JSON object:

{"summary": "3-6 short factual sentences, in English, grounded strictly in the excerpts"}

Use {"summary": null} if the excerpts say nothing about the topic.

Excerpts:
---
`)
	sb.WriteString(windows)
	sb.WriteString("\n---")
	return sb.String()
}
