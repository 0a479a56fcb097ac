package window

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"finrag/internal/section"
)

// tenSections builds a 10-section document where each section has a
// 3-line body; section ids are s0..s9 except where overridden.
func tenSections(overrides map[int]string) ([]section.Section, string) {
	var lines []string
	var sections []section.Section
	for i := 0; i < 10; i++ {
		title := fmt.Sprintf("S%d", i)
		if t, ok := overrides[i]; ok {
			title = t
		}
		start := len(lines) + 1
		lines = append(lines,
			"## "+title,
			fmt.Sprintf("Body of %s, first line of content.", title),
			fmt.Sprintf("Body of %s, second line of content.", title),
		)
		sections = append(sections, section.Section{
			ID:     section.Slugify(title),
			Title:  title,
			Number: i + 1,
			Lines:  [2]int{start, start + 2},
		})
	}
	return sections, strings.Join(lines, "\n")
}

func TestAssemble_SingleOccurrenceExactWindow(t *testing.T) {
	sections, doc := tenSections(map[int]string{3: "Balance Sheet"})

	windows, _ := Assemble([]string{"balance-sheet"}, sections, doc, Options{WindowSize: 3})
	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(windows))
	}
	w := windows[0]
	if !reflect.DeepEqual(w.Indices, []int{3, 4, 5}) {
		t.Errorf("expected indices [3 4 5], got %v", w.Indices)
	}
	if w.StartLine != sections[3].Lines[0] || w.EndLine != sections[5].Lines[1] {
		t.Errorf("expected span [%d %d], got [%d %d]",
			sections[3].Lines[0], sections[5].Lines[1], w.StartLine, w.EndLine)
	}
	if !strings.Contains(w.Text, "Balance Sheet") || !strings.Contains(w.Text, "Body of S5") {
		t.Errorf("window text missing expected content:\n%s", w.Text)
	}
	if strings.Contains(w.Text, "Body of S2") || strings.Contains(w.Text, "Body of S6") {
		t.Errorf("window text leaked neighboring sections:\n%s", w.Text)
	}
}

func TestAssemble_ForwardOnlyContiguous(t *testing.T) {
	sections, doc := tenSections(nil)
	windows, _ := Assemble([]string{"s4"}, sections, doc, Options{WindowSize: 4})
	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(windows))
	}
	w := windows[0]
	for i, idx := range w.Indices {
		if idx < 4 {
			t.Errorf("window includes position %d before the seed", idx)
		}
		if i > 0 && idx != w.Indices[i-1]+1 {
			t.Errorf("window indices not contiguous: %v", w.Indices)
		}
	}
	if w.Indices[0] != 4 {
		t.Errorf("window must start at the seed position, got %v", w.Indices)
	}
}

func TestAssemble_ClipsAtDocumentEnd(t *testing.T) {
	sections, doc := tenSections(nil)
	windows, _ := Assemble([]string{"s8"}, sections, doc, Options{WindowSize: 50})
	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(windows))
	}
	if !reflect.DeepEqual(windows[0].Indices, []int{8, 9}) {
		t.Errorf("expected clipped indices [8 9], got %v", windows[0].Indices)
	}
	if windows[0].EndLine != sections[9].Lines[1] {
		t.Errorf("expected window to end at the last section")
	}
}

func TestAssemble_DuplicateIDs(t *testing.T) {
	sections, doc := tenSections(map[int]string{2: "Overview", 7: "Overview"})

	all, _ := Assemble([]string{"overview"}, sections, doc, Options{WindowSize: 2})
	if len(all) != 2 {
		t.Fatalf("expected 2 windows for duplicate id, got %d", len(all))
	}
	if all[0].Occurrence != 2 || all[1].Occurrence != 7 {
		t.Errorf("expected occurrences 2 and 7, got %d and %d", all[0].Occurrence, all[1].Occurrence)
	}

	first, _ := Assemble([]string{"overview"}, sections, doc, Options{WindowSize: 2, FirstMatchOnly: true})
	if len(first) != 1 {
		t.Fatalf("expected 1 window in first-match mode, got %d", len(first))
	}
	if first[0].Occurrence != 2 {
		t.Errorf("expected earliest occurrence 2, got %d", first[0].Occurrence)
	}
}

func TestAssemble_CaseInsensitiveLookup(t *testing.T) {
	sections, doc := tenSections(map[int]string{5: "Risk Factors"})

	lower, _ := Assemble([]string{"risk-factors"}, sections, doc, Options{WindowSize: 2})
	upper, _ := Assemble([]string{"Risk-Factors"}, sections, doc, Options{WindowSize: 2})
	if len(lower) != 1 || len(upper) != 1 {
		t.Fatalf("expected 1 window each, got %d and %d", len(lower), len(upper))
	}
	if !reflect.DeepEqual(lower[0].Indices, upper[0].Indices) {
		t.Errorf("case variants returned different occurrence sets: %v vs %v",
			lower[0].Indices, upper[0].Indices)
	}
}

func TestAssemble_MissingSeed(t *testing.T) {
	sections, doc := tenSections(nil)
	windows, concat := Assemble([]string{"does-not-exist", "s1"}, sections, doc, Options{WindowSize: 1})
	if len(windows) != 1 {
		t.Fatalf("expected missing seed to be skipped, got %d windows", len(windows))
	}
	if windows[0].SeedID != "s1" {
		t.Errorf("expected the surviving seed to be s1, got %q", windows[0].SeedID)
	}
	if strings.Contains(concat, "does-not-exist") {
		t.Error("missing seed leaked into the concatenation")
	}
}

func TestAssemble_MalformedSpanSkipsOccurrence(t *testing.T) {
	sections, doc := tenSections(map[int]string{2: "Target", 6: "Target"})
	sections[3].Lines = [2]int{0, 0} // poisons the window seeded at 2

	windows, _ := Assemble([]string{"target"}, sections, doc, Options{WindowSize: 2})
	if len(windows) != 1 {
		t.Fatalf("expected the poisoned occurrence to be abandoned, got %d windows", len(windows))
	}
	if windows[0].Occurrence != 6 {
		t.Errorf("expected surviving occurrence 6, got %d", windows[0].Occurrence)
	}
}

func TestAssemble_SeedOrderPreserved(t *testing.T) {
	sections, doc := tenSections(nil)
	windows, concat := Assemble([]string{"s7", "s1", "s4"}, sections, doc, Options{WindowSize: 1})
	if len(windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(windows))
	}
	want := []string{"s7", "s1", "s4"}
	for i, w := range windows {
		if w.SeedID != want[i] {
			t.Errorf("window %d: expected seed %q, got %q", i, want[i], w.SeedID)
		}
	}
	// Concatenated blocks follow the same order and carry delimiters.
	i7 := strings.Index(concat, "section s7")
	i1 := strings.Index(concat, "section s1")
	i4 := strings.Index(concat, "section s4")
	if !(i7 < i1 && i1 < i4) {
		t.Errorf("concatenation out of seed order: %d %d %d", i7, i1, i4)
	}
	if strings.Count(concat, "=== end section ===") != 3 {
		t.Error("expected one end delimiter per window")
	}
}

func TestAssemble_ZeroBasedLines(t *testing.T) {
	doc := "line zero\nline one\nline two\nline three"
	sections := []section.Section{
		{ID: "part", Title: "Part", Number: 1, Lines: [2]int{1, 2}},
	}
	windows, _ := Assemble([]string{"part"}, sections, doc, Options{WindowSize: 1, ZeroBasedLines: true})
	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(windows))
	}
	if windows[0].Text != "line one\nline two" {
		t.Errorf("zero-based slice wrong: %q", windows[0].Text)
	}
}
