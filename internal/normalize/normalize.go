// Package normalize canonicalizes extracted markdown before it is
// placed in an LLM prompt. All functions are pure and total: they never
// fail, and Text is idempotent.
package normalize

import (
	"regexp"
	"strings"
)

var (
	multiSpaceRe = regexp.MustCompile(` {2,}`)
	multiBlankRe = regexp.MustCompile(`\n{3,}`)
	separatorRe  = regexp.MustCompile(`^[\s|:\-=]+$`)
)

// Text canonicalizes line endings, whitespace and markdown table rows
// in a block of text.
func Text(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "\t", " ")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = Line(line)
	}

	s = strings.Join(lines, "\n")
	s = multiBlankRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Line normalizes a single line. Table rows are re-celled; separator
// rows are compacted so a downstream model does not mistake them for
// data; ordinary lines lose repeated spaces.
func Line(line string) string {
	line = strings.TrimRight(line, " ")
	if strings.Count(line, "|") < 2 {
		return multiSpaceRe.ReplaceAllString(line, " ")
	}
	if separatorRe.MatchString(line) {
		// Header separator like "| --- | :---: |": strip all internal
		// whitespace to keep it visually distinct from data rows.
		return strings.Join(strings.Fields(line), "")
	}
	cells := strings.Split(line, "|")
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return strings.TrimSpace(strings.Join(cells, " | "))
}
