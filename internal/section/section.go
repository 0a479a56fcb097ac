package section

import (
	"regexp"
	"strings"
	"unicode"
)

// Section is one heading-delimited unit of a document.
//
// Lines is a 1-based inclusive [start, end] range into the source
// document. IDs are slugs of the heading title and are NOT unique:
// duplicate headings produce duplicate ids, and consumers must handle
// multiple occurrences of the same id.
type Section struct {
	ID        string  `json:"section_id"`
	Title     string  `json:"title"`
	Number    int     `json:"section_number"`
	Lines     [2]int  `json:"lines"`
	Tables    []Table `json:"tables"`
	Lang      string  `json:"lang"`
	CharCount int     `json:"char_count"`
}

// Table is a pipe-table block found inside a section. Metadata only;
// the windowing core never consumes it, but downstream extraction does.
type Table struct {
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Content   string `json:"content"`
	RowCount  int    `json:"row_count"`
}

var (
	slugStripRe    = regexp.MustCompile(`[^a-z0-9\p{Han}\p{Hiragana}\p{Katakana}]+`)
	slugCollapseRe = regexp.MustCompile(`-+`)
)

// Slugify derives a stable section id from a heading title: lowercased,
// runs of non-alphanumerics collapsed to single hyphens.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStripRe.ReplaceAllString(s, "-")
	s = slugCollapseRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// DetectLang guesses the dominant language of a text block. Annual
// reports in this pipeline are either Japanese or English; anything
// with a meaningful share of CJK runes is tagged "ja".
func DetectLang(text string) string {
	var cjk, letters int
	for _, r := range text {
		switch {
		case unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana):
			cjk++
			letters++
		case unicode.IsLetter(r):
			letters++
		}
	}
	if letters > 0 && cjk*5 >= letters {
		return "ja"
	}
	return "en"
}
