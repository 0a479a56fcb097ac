package api

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"finrag/internal/extract"
	"finrag/internal/parser"
	"finrag/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

// handleCreateReport accepts a multipart pair of annual reports and
// queues a comparison job.
func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	// Limit total request size: two files plus form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, 2*s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	currentName, currentData, err := s.readUpload(r, "current")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	priorName, priorData, err := s.readUpload(r, "prior")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now()
	job := &pipeline.Job{
		ID: pipeline.NewJobID(),
		Target: extract.Target{
			Company:  r.FormValue("company"),
			Language: r.FormValue("language"),
			Currency: r.FormValue("currency"),
		},
		CurrentYear:     r.FormValue("current_year"),
		PriorYear:       r.FormValue("prior_year"),
		CurrentFilename: currentName,
		PriorFilename:   priorName,
		Force:           r.FormValue("force") == "true",
		Status:          pipeline.StatusQueued,
		Phase:           "queued",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	job.SetFileData(currentData, priorData)

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/reports/%s/status", job.ID),
	})
}

// readUpload pulls one named file out of the multipart form and
// enforces the upload limits.
func (s *Server) readUpload(r *http.Request, field string) (string, []byte, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", nil, fmt.Errorf("%s file is required: %w", field, err)
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		return "", nil, fmt.Errorf("unsupported file type for %s: %s", field, filepath.Ext(filename))
	}
	data, err := readLimited(file, s.cfg.MaxUploadBytes)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", field, err)
	}
	return filename, data, nil
}

func readLimited(f multipart.File, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(f, max+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file")
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("file exceeds max size (%d bytes)", max)
	}
	return data, nil
}

func (s *Server) handleReportStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

// handleGetReport returns the rendered markdown for a completed job.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	switch snap.Status {
	case pipeline.StatusCompleted, pipeline.StatusPartial:
	default:
		jsonError(w, fmt.Sprintf("report not ready (status %s)", snap.Status), http.StatusConflict)
		return
	}
	md, err := s.orchestrator.Store().ReadReport(snap.CurrentDocID)
	if err != nil {
		jsonError(w, "report not found: "+err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(md))
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
