// Package report renders the merged two-year extraction into a
// markdown document. Rendering is pure formatting: every number in the
// output was either extracted verbatim or derived from two extracted
// values.
package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"finrag/internal/extract"
)

// Input is everything the renderer needs for one report pair.
type Input struct {
	Target       extract.Target
	CurrentYear  string
	PriorYear    string
	CurrentDoc   string
	PriorDoc     string
	CurrentTitle string // document title from the outline, may be ""
	PriorTitle   string
	Topics       []extract.MergedTopic
	GeneratedAt  time.Time
}

// Render produces the comparative markdown report.
func Render(in Input) string {
	var sb strings.Builder

	title := in.Target.Company
	if title == "" {
		title = "Annual Report"
	}
	fmt.Fprintf(&sb, "# %s — %s vs %s\n\n", title, in.CurrentYear, in.PriorYear)
	fmt.Fprintf(&sb, "- Currency: %s\n", in.Target.Currency)
	fmt.Fprintf(&sb, "- Source documents: %s (%s), %s (%s)\n",
		docLabel(in.CurrentTitle, in.CurrentDoc), in.CurrentYear,
		docLabel(in.PriorTitle, in.PriorDoc), in.PriorYear)
	if !in.GeneratedAt.IsZero() {
		fmt.Fprintf(&sb, "- Generated: %s\n", in.GeneratedAt.UTC().Format(time.RFC3339))
	}
	sb.WriteString("\n")

	for _, topic := range in.Topics {
		fmt.Fprintf(&sb, "## %s\n\n", topicHeading(topic.Topic.Name))
		if topic.Topic.Qualitative {
			renderNarratives(&sb, in, topic)
		} else {
			renderFieldTable(&sb, in, topic)
		}
	}
	return sb.String()
}

// docLabel prefers the document's own title over its storage id.
func docLabel(title, docID string) string {
	if title != "" {
		return title
	}
	return docID
}

func topicHeading(name string) string {
	words := strings.Split(strings.ReplaceAll(name, "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func renderNarratives(sb *strings.Builder, in Input, topic extract.MergedTopic) {
	wrote := false
	if topic.CurrentNarrative != "" {
		fmt.Fprintf(sb, "**%s**: %s\n\n", in.CurrentYear, topic.CurrentNarrative)
		wrote = true
	}
	if topic.PriorNarrative != "" {
		fmt.Fprintf(sb, "**%s**: %s\n\n", in.PriorYear, topic.PriorNarrative)
		wrote = true
	}
	if !wrote {
		sb.WriteString("_No relevant sections found._\n\n")
	}
}

func renderFieldTable(sb *strings.Builder, in Input, topic extract.MergedTopic) {
	fmt.Fprintf(sb, "| Metric | %s | %s | Change |\n", in.CurrentYear, in.PriorYear)
	sb.WriteString("|---|---|---|---|\n")
	var notes []string
	for _, f := range topic.Fields {
		label := f.Label
		if f.Unit != "" {
			label += " (" + f.Unit + ")"
		}
		cur := orDash(f.Current.Value)
		pri := orDash(f.Prior.Value)
		fmt.Fprintf(sb, "| %s | %s | %s | %s |\n", label, cur, pri, delta(f.Current.Value, f.Prior.Value))
		if f.Current.Value != "" && f.Current.SourceYear != "" && f.Current.SourceYear != in.CurrentYear {
			notes = append(notes, fmt.Sprintf("%s: %s value taken from the %s report.",
				label, in.CurrentYear, f.Current.SourceYear))
		}
	}
	sb.WriteString("\n")
	for _, n := range notes {
		fmt.Fprintf(sb, "> %s\n", n)
	}
	if len(notes) > 0 {
		sb.WriteString("\n")
	}
}

func orDash(v string) string {
	if v == "" {
		return "—"
	}
	return v
}

var numberRe = regexp.MustCompile(`-?\d[\d,]*\.?\d*`)

// delta derives a percentage change when both values carry a parseable
// leading number. Anything else renders as a dash rather than a guess.
func delta(current, prior string) string {
	cur, okC := leadingNumber(current)
	pri, okP := leadingNumber(prior)
	if !okC || !okP || pri == 0 {
		return "—"
	}
	pct := (cur - pri) / pri * 100
	sign := ""
	if pct > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.1f%%", sign, pct)
}

func leadingNumber(s string) (float64, bool) {
	m := numberRe.FindString(s)
	if m == "" {
		return 0, false
	}
	m = strings.ReplaceAll(m, ",", "")
	var f float64
	if _, err := fmt.Sscanf(m, "%g", &f); err != nil {
		return 0, false
	}
	return f, true
}
