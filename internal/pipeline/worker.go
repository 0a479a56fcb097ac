package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"finrag/internal/extract"
	"finrag/internal/parser"
	"finrag/internal/report"
	"finrag/internal/section"
	"finrag/internal/store"
)

// Worker processes one report-pair job at a time. The two documents of
// a pair are handled sequentially; the batch parallelism lives in the
// orchestrator's worker pool.
type Worker struct {
	ops       *Ops
	extractor *extract.Extractor
	topics    []extract.Topic
	log       *slog.Logger
}

func NewWorker(ops *Ops, extractor *extract.Extractor, topics []extract.Topic, log *slog.Logger) *Worker {
	return &Worker{
		ops:       ops,
		extractor: extractor,
		topics:    topics,
		log:       log,
	}
}

// Process runs the full pipeline for one report pair.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)
	currentData, priorData := job.FileData()

	// Phase 1: parse both source files to markdown.
	job.SetStatus(StatusParsing, "converting source documents")
	currentMD, err := parser.Convert(bytes.NewReader(currentData), job.CurrentFilename)
	if err != nil {
		w.fail(job, log, StatusParsing, fmt.Sprintf("parse %s: %s", job.CurrentFilename, err))
		return
	}
	priorMD, err := parser.Convert(bytes.NewReader(priorData), job.PriorFilename)
	if err != nil {
		w.fail(job, log, StatusParsing, fmt.Sprintf("parse %s: %s", job.PriorFilename, err))
		return
	}

	currentID := store.DocumentID(job.CurrentFilename, currentData)
	priorID := store.DocumentID(job.PriorFilename, priorData)
	job.SetDocIDs(currentID, priorID)

	// Phase 2: segment and persist both documents.
	job.SetStatus(StatusSegmenting, "segmenting documents")
	currentSections, err := w.ops.SegmentAndPersist(currentID, currentMD)
	if err != nil {
		w.fail(job, log, StatusSegmenting, err.Error())
		return
	}
	priorSections, err := w.ops.SegmentAndPersist(priorID, priorMD)
	if err != nil {
		w.fail(job, log, StatusSegmenting, err.Error())
		return
	}
	log.Info("segmented pair", "current_sections", len(currentSections), "prior_sections", len(priorSections))

	// Phase 3: build (or reuse) both embedding indexes.
	job.SetStatus(StatusIndexing, "building embedding indexes")
	if err := w.ops.BuildSectionEmbeddings(ctx, currentID, job.Force); err != nil {
		w.fail(job, log, StatusIndexing, fmt.Sprintf("index %s: %s", currentID, err))
		return
	}
	if err := w.ops.BuildSectionEmbeddings(ctx, priorID, job.Force); err != nil {
		w.fail(job, log, StatusIndexing, fmt.Sprintf("index %s: %s", priorID, err))
		return
	}

	currentDoc, err := w.loadDocument(currentID, job.currentYear())
	if err != nil {
		w.fail(job, log, StatusIndexing, err.Error())
		return
	}
	priorDoc, err := w.loadDocument(priorID, job.priorYear())
	if err != nil {
		w.fail(job, log, StatusIndexing, err.Error())
		return
	}

	// Phase 4: per-topic extraction across both years.
	job.SetStatus(StatusExtracting, "extracting topics")
	job.SetTotalTopics(len(w.topics))
	target := job.Target.WithDefaults()

	var merged []extract.MergedTopic
	for _, topic := range w.topics {
		if ctx.Err() != nil {
			w.fail(job, log, StatusExtracting, ctx.Err().Error())
			return
		}
		current, currentErr := w.extractor.ExtractTopic(ctx, topic, target, currentDoc)
		if isFatal(currentErr) {
			w.fail(job, log, StatusExtracting, fmt.Sprintf("topic %s: %s", topic.Name, currentErr))
			return
		}
		prior, priorErr := w.extractor.ExtractTopic(ctx, topic, target, priorDoc)
		if isFatal(priorErr) {
			w.fail(job, log, StatusExtracting, fmt.Sprintf("topic %s: %s", topic.Name, priorErr))
			return
		}
		for _, e := range []error{currentErr, priorErr} {
			if e != nil {
				log.Warn("topic extraction gap", "topic", topic.Name, "error", e)
				job.AddError(fmt.Sprintf("topic %s: %s", topic.Name, e))
			}
		}
		m := extract.MergeYears(topic, current, prior, currentDoc.Year, priorDoc.Year)
		merged = append(merged, m)
		job.IncrTopicsProcessed(countExtracted(m))
	}

	// Phase 5: render and store the report.
	job.SetStatus(StatusRendering, "rendering report")
	md := report.Render(report.Input{
		Target:       target,
		CurrentYear:  currentDoc.Year,
		PriorYear:    priorDoc.Year,
		CurrentDoc:   currentID,
		PriorDoc:     priorID,
		CurrentTitle: section.BuildOutline(currentDoc.Markdown).Title,
		PriorTitle:   section.BuildOutline(priorDoc.Markdown).Title,
		Topics:       merged,
		GeneratedAt:  time.Now(),
	})
	if err := w.ops.Store.WriteReport(currentID, md); err != nil {
		w.fail(job, log, StatusRendering, fmt.Sprintf("write report: %s", err))
		return
	}

	if job.ErrorCount() > 0 {
		job.SetStatus(StatusPartial, "done with gaps")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
	log.Info("report pair processed", "status", job.Status, "topics", len(merged))
}

// isFatal reports whether a topic error should fail the whole pair.
// Missing evidence and malformed model output are recorded as gaps;
// exhausted retries and cancellation are fatal.
func isFatal(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, extract.ErrNoEvidence) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return IsRetryable(err)
}

func (w *Worker) loadDocument(docID, year string) (extract.Document, error) {
	sections, err := w.ops.Store.ReadSections(docID)
	if err != nil {
		return extract.Document{}, err
	}
	markdown, err := w.ops.Store.ReadSource(docID)
	if err != nil {
		return extract.Document{}, err
	}
	ix, err := w.ops.LoadIndex(docID)
	if err != nil {
		return extract.Document{}, err
	}
	return extract.Document{
		ID:       docID,
		Year:     year,
		Markdown: markdown,
		Sections: sections,
		Index:    ix,
	}, nil
}

func (w *Worker) fail(job *Job, log *slog.Logger, status JobStatus, msg string) {
	log.Error("job failed", "phase", status, "error", msg)
	job.AddError(msg)
	job.SetStatus(StatusFailed, string(status))
}

func countExtracted(m extract.MergedTopic) int {
	n := 0
	for _, f := range m.Fields {
		if f.Current.Value != "" {
			n++
		}
		if f.Prior.Value != "" {
			n++
		}
	}
	if m.CurrentNarrative != "" {
		n++
	}
	if m.PriorNarrative != "" {
		n++
	}
	return n
}

var yearRe = regexp.MustCompile(`(19|20)\d\d`)

// currentYear returns the job's explicit year label or one derived
// from the filename, falling back to "current".
func (j *Job) currentYear() string {
	if j.CurrentYear != "" {
		return j.CurrentYear
	}
	if y := yearRe.FindString(j.CurrentFilename); y != "" {
		return y
	}
	return "current"
}

func (j *Job) priorYear() string {
	if j.PriorYear != "" {
		return j.PriorYear
	}
	if y := yearRe.FindString(j.PriorFilename); y != "" {
		return y
	}
	return "prior"
}
