// Package window expands retrieved section ids into contiguous,
// context-bearing text windows. Retrieval returns candidate section
// ids, but a single section is often too short to hold the sought
// content, and repeated headings make ids ambiguous; the assembler's
// two knobs (forward expansion size, first-vs-all occurrences) trade
// recall against precision per call site.
package window

import (
	"fmt"
	"log/slog"
	"strings"

	"finrag/internal/normalize"
	"finrag/internal/section"
)

// Options controls window assembly.
type Options struct {
	// WindowSize is the number of sections per window: the seed
	// occurrence plus up to WindowSize-1 following sections.
	WindowSize int

	// FirstMatchOnly keeps only the earliest occurrence of each seed.
	// Financial-statement lookups want the one canonical hit; scattered
	// qualitative topics want every occurrence.
	FirstMatchOnly bool

	// ZeroBasedLines interprets section line spans as 0-based instead
	// of the default 1-based inclusive.
	ZeroBasedLines bool

	Log *slog.Logger
}

// Window is one assembled, request-scoped text window.
type Window struct {
	SeedID     string `json:"seed_section_id"`
	Occurrence int    `json:"occurrence_index"` // position in the section list
	Indices    []int  `json:"window_indices"`
	StartLine  int    `json:"start_line"`
	EndLine    int    `json:"end_line"`
	Text       string `json:"text"`
}

// Assemble builds windows for each seed id, in caller-supplied seed
// order and occurrence order within each seed. Missing seeds and
// malformed spans are logged and skipped, never fatal: a section id
// that no longer matches anything is an expected condition when
// document content shifts between runs. The returned string is the
// concatenation of all windows as delimited blocks, ready for prompt
// grounding.
func Assemble(seedIDs []string, sections []section.Section, markdown string, opts Options) ([]Window, string) {
	if opts.WindowSize < 1 {
		opts.WindowSize = 1
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	lines := section.SplitLines(markdown)
	lookup := buildLookup(sections)

	var windows []Window
	var concat strings.Builder

	for _, seed := range seedIDs {
		positions := lookupAll(lookup, seed)
		if len(positions) == 0 {
			log.Info("seed section not found, skipping", "seed", seed)
			continue
		}
		if opts.FirstMatchOnly {
			positions = positions[:1]
		}

		for _, p := range positions {
			w, ok := buildWindow(seed, p, sections, lines, opts)
			if !ok {
				log.Warn("window abandoned: malformed line span", "seed", seed, "occurrence", p)
				continue
			}
			windows = append(windows, w)
			writeBlock(&concat, w)
		}
	}

	return windows, concat.String()
}

// buildLookup maps every section id, both raw and case-folded, to all
// positions where it occurs. Ids are not unique: duplicate headings
// are common ("Overview" in every year's filing), so the lookup keeps
// every position.
func buildLookup(sections []section.Section) map[string][]int {
	lookup := make(map[string][]int, len(sections)*2)
	for i, s := range sections {
		lookup[s.ID] = append(lookup[s.ID], i)
		folded := strings.ToLower(s.ID)
		if folded != s.ID {
			lookup[folded] = append(lookup[folded], i)
		}
	}
	return lookup
}

// lookupAll queries by the raw seed and its case-folded form, then
// de-duplicates while preserving first-seen order; the two keys overlap
// whenever case already matches.
func lookupAll(lookup map[string][]int, seed string) []int {
	candidates := append([]int{}, lookup[seed]...)
	candidates = append(candidates, lookup[strings.ToLower(seed)]...)

	seen := make(map[int]bool, len(candidates))
	var out []int
	for _, p := range candidates {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// buildWindow expands the occurrence at position p into a forward
// window. The window always extends forward from the seed, never
// backward: headings are assumed to precede their content.
func buildWindow(seed string, p int, sections []section.Section, lines []string, opts Options) (Window, bool) {
	end := p + opts.WindowSize
	if end > len(sections) {
		end = len(sections)
	}

	indices := make([]int, 0, end-p)
	startLine, endLine := 0, 0
	for i := p; i < end; i++ {
		span := sections[i].Lines
		if !spanValid(span, opts.ZeroBasedLines) {
			return Window{}, false
		}
		if len(indices) == 0 || span[0] < startLine {
			startLine = span[0]
		}
		if span[1] > endLine {
			endLine = span[1]
		}
		indices = append(indices, i)
	}

	text := normalize.Text(sliceLines(lines, startLine, endLine, opts.ZeroBasedLines))
	return Window{
		SeedID:     seed,
		Occurrence: p,
		Indices:    indices,
		StartLine:  startLine,
		EndLine:    endLine,
		Text:       text,
	}, true
}

func spanValid(span [2]int, zeroBased bool) bool {
	min := 1
	if zeroBased {
		min = 0
	}
	return span[0] >= min && span[1] >= span[0]
}

// sliceLines cuts the inclusive line span out of the document,
// defensively clipping indices even though upstream spans should
// already be in range.
func sliceLines(lines []string, start, end int, zeroBased bool) string {
	lo, hi := start-1, end
	if zeroBased {
		lo, hi = start, end+1
	}
	if lo < 0 {
		lo = 0
	}
	if hi > len(lines) {
		hi = len(lines)
	}
	if lo >= hi {
		return ""
	}
	return strings.Join(lines[lo:hi], "\n")
}

// writeBlock appends one window as a clearly delimited block so that
// multiple windows in one prompt cannot bleed into each other.
func writeBlock(b *strings.Builder, w Window) {
	fmt.Fprintf(b, "=== section %s (occurrence %d, lines %d-%d) ===\n", w.SeedID, w.Occurrence, w.StartLine, w.EndLine)
	b.WriteString(w.Text)
	b.WriteString("\n=== end section ===\n\n")
}
