// Package store owns the on-disk artifact layout. Every document gets
// a directory keyed by its id, holding the section records, the two
// index files and any rendered report.
package store

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"finrag/internal/section"
)

// Store lays artifacts out under a single data root:
//
//	<root>/<doc_id>/sections.jsonl
//	<root>/<doc_id>/index.vec
//	<root>/<doc_id>/index.meta.json
//	<root>/<doc_id>/source.md
//	<root>/<doc_id>/report.md
type Store struct {
	root string
}

func New(root string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("data root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create data root: %w", err)
	}
	return &Store{root: root}, nil
}

// DocumentID derives a stable document id from the source base name
// and its content hash. The base name keeps artifacts recognizable;
// the hash keeps distinct contents from colliding.
func DocumentID(filename string, content []byte) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	slug := section.Slugify(base)
	if slug == "" {
		slug = "document"
	}
	sum := sha256.Sum256(content)
	return fmt.Sprintf("%s-%x", slug, sum[:6])
}

func (s *Store) docDir(docID string) string {
	return filepath.Join(s.root, filepath.Base(docID))
}

func (s *Store) SectionsPath(docID string) string { return filepath.Join(s.docDir(docID), "sections.jsonl") }
func (s *Store) VectorPath(docID string) string   { return filepath.Join(s.docDir(docID), "index.vec") }
func (s *Store) MetaPath(docID string) string     { return filepath.Join(s.docDir(docID), "index.meta.json") }
func (s *Store) SourcePath(docID string) string   { return filepath.Join(s.docDir(docID), "source.md") }

// WriteSource persists the converted markdown so later searches and
// window assembly read the exact text the index was built from.
func (s *Store) WriteSource(docID, markdown string) error {
	if err := os.MkdirAll(s.docDir(docID), 0o755); err != nil {
		return fmt.Errorf("create document dir: %w", err)
	}
	if err := os.WriteFile(s.SourcePath(docID), []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("write source: %w", err)
	}
	return nil
}

// ReadSource loads the persisted markdown for a document.
func (s *Store) ReadSource(docID string) (string, error) {
	data, err := os.ReadFile(s.SourcePath(docID))
	if err != nil {
		return "", fmt.Errorf("read source for %s: %w", docID, err)
	}
	return string(data), nil
}

// WriteSections persists the section list as JSONL.
func (s *Store) WriteSections(docID string, sections []section.Section) error {
	if err := os.MkdirAll(s.docDir(docID), 0o755); err != nil {
		return fmt.Errorf("create document dir: %w", err)
	}
	f, err := os.Create(s.SectionsPath(docID))
	if err != nil {
		return fmt.Errorf("create sections file: %w", err)
	}
	defer f.Close()
	if err := section.WriteJSONL(f, sections); err != nil {
		return fmt.Errorf("write sections for %s: %w", docID, err)
	}
	return nil
}

// ReadSections loads the section list back.
func (s *Store) ReadSections(docID string) ([]section.Section, error) {
	f, err := os.Open(s.SectionsPath(docID))
	if err != nil {
		return nil, fmt.Errorf("open sections for %s: %w", docID, err)
	}
	defer f.Close()
	return section.ReadJSONL(f)
}

// WriteReport stores a rendered report.
func (s *Store) WriteReport(docID, markdown string) error {
	if err := os.MkdirAll(s.docDir(docID), 0o755); err != nil {
		return fmt.Errorf("create document dir: %w", err)
	}
	return os.WriteFile(filepath.Join(s.docDir(docID), "report.md"), []byte(markdown), 0o644)
}

// ReadReport loads a rendered report.
func (s *Store) ReadReport(docID string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.docDir(docID), "report.md"))
	if err != nil {
		return "", fmt.Errorf("read report for %s: %w", docID, err)
	}
	return string(data), nil
}

// HasIndex reports whether both index files exist for a document.
func (s *Store) HasIndex(docID string) bool {
	if _, err := os.Stat(s.VectorPath(docID)); err != nil {
		return false
	}
	_, err := os.Stat(s.MetaPath(docID))
	return err == nil
}

// ListDocuments returns all known document ids in sorted order.
func (s *Store) ListDocuments() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("list data root: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// DeleteDocument removes every artifact for a document.
func (s *Store) DeleteDocument(docID string) error {
	dir := s.docDir(docID)
	if dir == s.root {
		return fmt.Errorf("refusing to delete data root")
	}
	return os.RemoveAll(dir)
}
