package parser

import "io"

// TextConverter passes plain text through untouched. Files without
// `##` headings segment into a single preamble section downstream,
// which is the correct reading of unstructured text.
type TextConverter struct{}

func (c *TextConverter) Convert(r io.Reader, filename string) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(src), nil
}
