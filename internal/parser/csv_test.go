package parser

import (
	"strings"
	"testing"
)

func TestCSVConverter_PipeTable(t *testing.T) {
	input := "metric,value\nRevenue,120\nNet income,12\n"
	c := &CSVConverter{}
	out, err := c.Convert(strings.NewReader(input), "figures.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{
		"## figures",
		"",
		"| metric | value |",
		"|---|---|",
		"| Revenue | 120 |",
		"| Net income | 12 |",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(lines), out)
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d: expected %q, got %q", i, w, lines[i])
		}
	}
}

func TestCSVConverter_EscapesPipes(t *testing.T) {
	input := "name\na|b\n"
	c := &CSVConverter{}
	out, err := c.Convert(strings.NewReader(input), "x.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `a\|b`) {
		t.Errorf("pipe in cell must be escaped:\n%s", out)
	}
}

func TestCSVConverter_Empty(t *testing.T) {
	c := &CSVConverter{}
	out, err := c.Convert(strings.NewReader(""), "empty.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}
