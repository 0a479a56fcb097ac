package store

import (
	"os"
	"strings"
	"testing"

	"finrag/internal/section"
)

func TestDocumentID(t *testing.T) {
	a := DocumentID("Acme Annual 2025.pdf", []byte("content a"))
	b := DocumentID("Acme Annual 2025.pdf", []byte("content b"))
	if a == b {
		t.Error("different content must yield different ids")
	}
	if a != DocumentID("Acme Annual 2025.pdf", []byte("content a")) {
		t.Error("id must be deterministic")
	}
	if !strings.HasPrefix(a, "acme-annual-2025-") {
		t.Errorf("id should carry the slugged base name, got %q", a)
	}
	if !strings.HasPrefix(DocumentID("???.md", []byte("x")), "document-") {
		t.Error("unsluggable names fall back to a generic prefix")
	}
}

func TestStore_SectionsRoundTrip(t *testing.T) {
	st, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	sections := []section.Section{
		{ID: "overview", Title: "Overview", Number: 1, Lines: [2]int{1, 4}, CharCount: 80},
		{ID: "risks", Title: "Risks", Number: 2, Lines: [2]int{5, 9}, CharCount: 120},
	}
	if err := st.WriteSections("doc-1", sections); err != nil {
		t.Fatal(err)
	}
	got, err := st.ReadSections("doc-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "overview" || got[1].Lines != [2]int{5, 9} {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestStore_SourceAndReport(t *testing.T) {
	st, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := st.WriteSource("doc-1", "## Hello\n\nworld\n"); err != nil {
		t.Fatal(err)
	}
	src, err := st.ReadSource("doc-1")
	if err != nil || src != "## Hello\n\nworld\n" {
		t.Fatalf("source round trip failed: %q %v", src, err)
	}
	if err := st.WriteReport("doc-1", "# Report"); err != nil {
		t.Fatal(err)
	}
	md, err := st.ReadReport("doc-1")
	if err != nil || md != "# Report" {
		t.Fatalf("report round trip failed: %q %v", md, err)
	}
}

func TestStore_HasIndexAndDelete(t *testing.T) {
	st, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if st.HasIndex("doc-1") {
		t.Error("no index written yet")
	}
	if err := st.WriteSource("doc-1", "text"); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(st.VectorPath("doc-1"), []byte("v"), 0o644); err != nil {
		t.Fatal(err)
	}
	if st.HasIndex("doc-1") {
		t.Error("vector file alone must not count as an index")
	}
	if err := os.WriteFile(st.MetaPath("doc-1"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !st.HasIndex("doc-1") {
		t.Error("both files present should count as an index")
	}

	ids, err := st.ListDocuments()
	if err != nil || len(ids) != 1 || ids[0] != "doc-1" {
		t.Fatalf("list mismatch: %v %v", ids, err)
	}
	if err := st.DeleteDocument("doc-1"); err != nil {
		t.Fatal(err)
	}
	ids, _ = st.ListDocuments()
	if len(ids) != 0 {
		t.Errorf("expected empty store after delete, got %v", ids)
	}
}
