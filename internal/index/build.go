package index

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"finrag/internal/embed"
	"finrag/internal/section"
)

// Builder turns a segmented document into a persisted index.
//
// Builds are cached by existence: when both output files are already
// present the build returns immediately, with no staleness check
// against the source document. Changing the source without deleting
// the cache (or passing ForceRebuild) serves stale results.
type Builder struct {
	Embedder     embed.Embedder
	ForceRebuild bool
	Log          *slog.Logger
}

// Build embeds every section and persists the index to vecPath and
// metaPath. Oversized sections are chunked and mean-pooled. Any
// embedding failure fails the whole build; a partially built index is
// worse than no index.
func (b *Builder) Build(ctx context.Context, sections []section.Section, markdown, vecPath, metaPath string) error {
	if len(sections) == 0 {
		return fmt.Errorf("no sections to index")
	}
	if !b.ForceRebuild && fileExists(vecPath) && fileExists(metaPath) {
		if b.Log != nil {
			b.Log.Info("index exists, skipping build", "vec", vecPath)
		}
		return nil
	}

	lines := section.SplitLines(markdown)

	// Gather all chunk texts in one pass so the embedder can batch.
	var texts []string
	chunkCounts := make([]int, len(sections))
	for i, s := range sections {
		chunks := embed.ChunkByTokens(sectionText(s, lines), embed.MaxSectionTokens, embed.ChunkOverlapTokens)
		chunkCounts[i] = len(chunks)
		texts = append(texts, chunks...)
	}

	vecs, err := b.Embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed sections: %w", err)
	}
	if len(vecs) != len(texts) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vecs), len(texts))
	}

	rows := make([]Row, 0, len(sections))
	pos := 0
	for i, s := range sections {
		pooled := embed.MeanPool(vecs[pos : pos+chunkCounts[i]])
		pos += chunkCounts[i]
		rows = append(rows, Row{
			Vector: pooled,
			Meta: Meta{
				SectionID:     s.ID,
				Title:         s.Title,
				SectionNumber: s.Number,
				Lines:         s.Lines,
				CharCount:     s.CharCount,
			},
		})
	}

	ix, err := New(rows)
	if err != nil {
		return fmt.Errorf("assemble index: %w", err)
	}
	if err := Save(ix, vecPath, metaPath); err != nil {
		return fmt.Errorf("persist index: %w", err)
	}
	if b.Log != nil {
		b.Log.Info("index built", "sections", len(sections), "chunks", len(texts), "dim", ix.Dimension())
	}
	return nil
}

// sectionText is what gets embedded for a section: title, blank line,
// body; or the body alone when the section has no title.
func sectionText(s section.Section, lines []string) string {
	body := s.Body(lines)
	if s.Title == "" {
		return body
	}
	return s.Title + "\n\n" + body
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
