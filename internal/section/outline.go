package section

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is one heading found anywhere in a document, at any level.
// Unlike the fixed-level segmenter, the outline sees the whole
// hierarchy; it feeds report metadata, not windowing.
type Heading struct {
	Level int
	Title string
}

// Outline is the arbitrary-level heading structure of a document plus
// the text preceding the first heading.
type Outline struct {
	Title    string // first level-1 heading, or "" if none
	Headings []Heading
	Preamble string // text before the first heading of any level
}

// BuildOutline parses markdown with goldmark and collects every heading
// in document order. The preamble is whatever non-heading text occurs
// before the first heading.
func BuildOutline(markdown string) Outline {
	src := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var out Outline
	var preamble strings.Builder
	seenHeading := false

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			title := string(h.Text(src))
			out.Headings = append(out.Headings, Heading{Level: h.Level, Title: title})
			if h.Level == 1 && out.Title == "" {
				out.Title = title
			}
			seenHeading = true
			continue
		}
		if seenHeading {
			continue
		}
		t := blockText(n, src)
		if t != "" {
			if preamble.Len() > 0 {
				preamble.WriteString("\n\n")
			}
			preamble.WriteString(t)
		}
	}

	out.Preamble = preamble.String()
	return out
}

// blockText gets the raw text content of a goldmark block node.
func blockText(n ast.Node, src []byte) string {
	var buf strings.Builder
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
	}
	return strings.TrimSpace(buf.String())
}
