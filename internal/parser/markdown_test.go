package parser

import (
	"strings"
	"testing"
)

func TestMarkdownConverter_Passthrough(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

## Section B

Section B content.
`
	c := &MarkdownConverter{}
	out, err := c.Convert(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != input {
		t.Errorf("ATX markdown must pass through unchanged:\n%q", out)
	}
}

func TestMarkdownConverter_SetextHeadingsRewritten(t *testing.T) {
	input := "Title\n=====\n\nIntro.\n\nSection A\n---------\n\nBody A.\n"
	c := &MarkdownConverter{}
	out, err := c.Convert(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "# Title\n") {
		t.Errorf("expected setext h1 rewritten to ATX:\n%q", out)
	}
	if !strings.Contains(out, "## Section A\n") {
		t.Errorf("expected setext h2 rewritten to ATX:\n%q", out)
	}
	if strings.Contains(out, "=====") || strings.Contains(out, "-----") {
		t.Errorf("underlines must be removed:\n%q", out)
	}
	if !strings.Contains(out, "Body A.") {
		t.Errorf("body text lost:\n%q", out)
	}
}

func TestMarkdownConverter_EmptyInput(t *testing.T) {
	c := &MarkdownConverter{}
	out, err := c.Convert(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}
