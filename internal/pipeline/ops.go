package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"finrag/internal/embed"
	"finrag/internal/index"
	"finrag/internal/normalize"
	"finrag/internal/section"
	"finrag/internal/store"
	"finrag/internal/window"
)

// Ops exposes the four document operations the worker is built from.
// API handlers use the same entry points, so ad-hoc searches read the
// exact artifacts a job wrote.
type Ops struct {
	Store    *store.Store
	Embedder embed.Embedder
	Log      *slog.Logger
}

// SegmentAndPersist normalizes and segments a converted document,
// persisting both the source text and the section records.
func (o *Ops) SegmentAndPersist(docID, markdown string) ([]section.Section, error) {
	markdown = normalize.Text(markdown)
	sections := section.Segment(markdown)
	if len(sections) == 0 {
		return nil, fmt.Errorf("segment %s: document is empty", docID)
	}
	if err := o.Store.WriteSource(docID, markdown); err != nil {
		return nil, err
	}
	if err := o.Store.WriteSections(docID, sections); err != nil {
		return nil, err
	}
	return sections, nil
}

// BuildSectionEmbeddings builds (or reuses) the embedding index for a
// persisted document.
func (o *Ops) BuildSectionEmbeddings(ctx context.Context, docID string, force bool) error {
	sections, err := o.Store.ReadSections(docID)
	if err != nil {
		return err
	}
	markdown, err := o.Store.ReadSource(docID)
	if err != nil {
		return err
	}
	builder := index.Builder{
		Embedder:     o.Embedder,
		ForceRebuild: force,
		Log:          o.Log,
	}
	return builder.Build(ctx, sections, markdown, o.Store.VectorPath(docID), o.Store.MetaPath(docID))
}

// LoadIndex loads a document's persisted embedding index.
func (o *Ops) LoadIndex(docID string) (*index.Index, error) {
	return index.Load(o.Store.VectorPath(docID), o.Store.MetaPath(docID))
}

// SearchSections runs a semantic query against one document's index.
func (o *Ops) SearchSections(ctx context.Context, docID, query string, topK int) ([]index.Hit, error) {
	ix, err := o.LoadIndex(docID)
	if err != nil {
		return nil, err
	}
	return ix.SearchText(ctx, o.Embedder, query, topK)
}

// AssembleWindows builds context windows for the given seed sections
// of a persisted document.
func (o *Ops) AssembleWindows(docID string, seedIDs []string, opts window.Options) ([]window.Window, string, error) {
	sections, err := o.Store.ReadSections(docID)
	if err != nil {
		return nil, "", err
	}
	markdown, err := o.Store.ReadSource(docID)
	if err != nil {
		return nil, "", err
	}
	if opts.Log == nil {
		opts.Log = o.Log
	}
	windows, concat := window.Assemble(seedIDs, sections, markdown, opts)
	return windows, concat, nil
}
