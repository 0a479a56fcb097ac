package parser

import (
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownConverter passes markdown through essentially unchanged.
// The one rewrite it performs: setext headings ("Title" underlined
// with = or -) become ATX headings, because segmentation only
// recognizes `##` lines.
type MarkdownConverter struct{}

func (c *MarkdownConverter) Convert(r io.Reader, filename string) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	return rewriteSetextHeadings(doc, src), nil
}

// rewriteSetextHeadings returns the source with setext headings
// replaced by equivalent ATX ones. ATX headings and all other content
// pass through byte for byte.
func rewriteSetextHeadings(doc ast.Node, src []byte) string {
	type repl struct {
		start, stop int
		text        string
	}
	var repls []repl
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok || h.Lines().Len() == 0 {
			return ast.WalkContinue, nil
		}
		seg := h.Lines().At(0)
		lineStart := seg.Start
		for lineStart > 0 && src[lineStart-1] != '\n' {
			lineStart--
		}
		if src[lineStart] == '#' {
			return ast.WalkContinue, nil
		}
		title := strings.TrimSpace(string(seg.Value(src)))
		if title == "" {
			return ast.WalkContinue, nil
		}
		// Extend past the heading line and its underline.
		stop := seg.Stop
		for stop < len(src) && src[stop] != '\n' {
			stop++
		}
		if stop < len(src) {
			stop++
		}
		for stop < len(src) && src[stop] != '\n' {
			stop++
		}
		repls = append(repls, repl{
			start: lineStart,
			stop:  stop,
			text:  strings.Repeat("#", h.Level) + " " + title,
		})
		return ast.WalkContinue, nil
	})
	if len(repls) == 0 {
		return string(src)
	}
	var sb strings.Builder
	pos := 0
	for _, r := range repls {
		if r.start < pos {
			continue
		}
		sb.Write(src[pos:r.start])
		sb.WriteString(r.text)
		pos = r.stop
	}
	sb.Write(src[pos:])
	return sb.String()
}
