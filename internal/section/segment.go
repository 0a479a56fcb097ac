package section

import (
	"regexp"
	"strings"
)

const (
	// Topical headings in the converted reports all sit at markdown
	// level 2; deeper headings stay inside their parent section.
	headingPrefix = "## "

	// MinBodyChars is the degenerate-section threshold: a section whose
	// body is shorter than this is merged forward for embedding purposes.
	MinBodyChars = 50

	// MergeLookahead is how many following sections a degenerate
	// section absorbs.
	MergeLookahead = 3
)

var headingRe = regexp.MustCompile(`^##\s+(.+?)\s*$`)

// Segment splits markdown text into an ordered list of sections keyed
// by level-2 headings. Line ranges are 1-based inclusive and, before
// merging, partition the document exactly. If the document contains no
// level-2 headings at all, a single synthetic "preamble" section
// spanning the whole document is returned (for non-empty input).
func Segment(markdown string) []Section {
	lines := SplitLines(markdown)
	if len(lines) == 0 || (len(lines) == 1 && strings.TrimSpace(lines[0]) == "") {
		return nil
	}

	type open struct {
		title string
		start int // 1-based
	}

	var sections []Section
	var cur *open

	closeSection := func(endLine int) {
		if cur == nil {
			return
		}
		s := buildSection(lines, cur.title, cur.start, endLine, len(sections)+1)
		sections = append(sections, s)
		cur = nil
	}

	for i, line := range lines {
		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		closeSection(i) // previous section ends on the line before this heading
		cur = &open{title: m[1], start: i + 1}
	}

	if cur != nil {
		closeSection(len(lines))
	}

	if len(sections) == 0 {
		// No headings anywhere: emit one synthetic preamble section.
		return []Section{buildSection(lines, "", 1, len(lines), 1)}
	}

	// Text before the first heading becomes a leading preamble section
	// so the pre-merge spans still cover every line.
	if first := sections[0].Lines[0]; first > 1 {
		pre := buildSection(lines, "", 1, first-1, 0)
		out := make([]Section, 0, len(sections)+1)
		out = append(out, pre)
		out = append(out, sections...)
		for i := range out {
			out[i].Number = i + 1
		}
		sections = out
	}

	return mergeDegenerate(sections, lines)
}

// SplitLines splits text into lines the same way the windowing slice
// does, so line numbers agree across the pipeline. CR is stripped; a
// trailing newline does not produce a phantom empty line.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func buildSection(lines []string, title string, start, end, number int) Section {
	id := Slugify(title)
	if id == "" {
		id = "preamble"
	}
	body := sectionBody(lines, title, start, end)
	return Section{
		ID:        id,
		Title:     title,
		Number:    number,
		Lines:     [2]int{start, end},
		Tables:    ExtractTables(lines, start, end),
		Lang:      DetectLang(body),
		CharCount: len(body),
	}
}

// Body returns the section's text without its heading line, sliced
// from the document's lines by the section's range.
func (s Section) Body(lines []string) string {
	return sectionBody(lines, s.Title, s.Lines[0], s.Lines[1])
}

// sectionBody is the section text without its heading line.
func sectionBody(lines []string, title string, start, end int) string {
	lo, hi := start-1, end
	if lo < 0 {
		lo = 0
	}
	if hi > len(lines) {
		hi = len(lines)
	}
	if lo >= hi {
		return ""
	}
	body := lines[lo:hi]
	if title != "" && len(body) > 0 {
		body = body[1:]
	}
	return strings.TrimSpace(strings.Join(body, "\n"))
}

// mergeDegenerate walks the section list once; a section whose body is
// below MinBodyChars, or whose span is a single line, absorbs the next
// MergeLookahead sections. Lone sub-headings with no body would
// otherwise produce meaningless embeddings.
func mergeDegenerate(sections []Section, lines []string) []Section {
	var out []Section
	for i := 0; i < len(sections); {
		s := sections[i]
		if (s.CharCount < MinBodyChars || s.Lines[0] == s.Lines[1]) && i+1 < len(sections) {
			last := i + MergeLookahead
			if last >= len(sections) {
				last = len(sections) - 1
			}
			s.Lines[1] = sections[last].Lines[1]
			for j := i + 1; j <= last; j++ {
				s.Tables = append(s.Tables, sections[j].Tables...)
			}
			body := sectionBody(lines, s.Title, s.Lines[0], s.Lines[1])
			s.CharCount = len(body)
			s.Lang = DetectLang(body)
			i = last + 1
		} else {
			i++
		}
		out = append(out, s)
	}
	for i := range out {
		out[i].Number = i + 1
	}
	return out
}
