// Package parser converts supported input formats into markdown text.
// Downstream segmentation only understands one shape: topical headings
// on `##` lines with body text between them, so every converter aims
// its output at that shape.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Converter turns raw document bytes into markdown text.
type Converter interface {
	Convert(r io.Reader, filename string) (string, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate converter for a filename.
func ForFile(filename string) (Converter, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return &MarkdownConverter{}, nil
	case ".txt":
		return &TextConverter{}, nil
	case ".csv":
		return &CSVConverter{}, nil
	case ".html", ".htm":
		return &HTMLConverter{}, nil
	case ".pdf":
		return &PDFConverter{FallbackPdftotext: true}, nil
	case ".docx":
		return &DOCXConverter{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Convert picks a converter by extension and runs it.
func Convert(r io.Reader, filename string) (string, error) {
	c, err := ForFile(filename)
	if err != nil {
		return "", err
	}
	return c.Convert(r, filename)
}

// baseTitle strips the directory and extension from a filename for use
// as a fallback document title.
func baseTitle(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
