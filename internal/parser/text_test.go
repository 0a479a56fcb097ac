package parser

import (
	"fmt"
	"strings"
	"testing"
)

func TestTextConverter_Passthrough(t *testing.T) {
	input := "First paragraph line one.\n\nSecond paragraph."
	c := &TextConverter{}
	out, err := c.Convert(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != input {
		t.Errorf("plain text must pass through unchanged, got %q", out)
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"report.md", "*parser.MarkdownConverter"},
		{"report.markdown", "*parser.MarkdownConverter"},
		{"report.txt", "*parser.TextConverter"},
		{"report.csv", "*parser.CSVConverter"},
		{"report.html", "*parser.HTMLConverter"},
		{"report.HTM", "*parser.HTMLConverter"},
		{"report.pdf", "*parser.PDFConverter"},
		{"report.docx", "*parser.DOCXConverter"},
	}
	for _, tt := range tests {
		c, err := ForFile(tt.filename)
		if err != nil {
			t.Errorf("ForFile(%q): %v", tt.filename, err)
			continue
		}
		if got := fmt.Sprintf("%T", c); got != tt.want {
			t.Errorf("ForFile(%q) = %s, want %s", tt.filename, got, tt.want)
		}
	}
	if _, err := ForFile("report.xlsx"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestIsSupportedExtension(t *testing.T) {
	if !IsSupportedExtension("a.PDF") {
		t.Error("extension check must be case-insensitive")
	}
	if IsSupportedExtension("a.exe") {
		t.Error("unexpected support for .exe")
	}
}
