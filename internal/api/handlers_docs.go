package api

import (
	"encoding/json"
	"net/http"

	"finrag/internal/index"
	"finrag/internal/window"
	"github.com/go-chi/chi/v5"
)

// handleSearch runs a semantic query against one indexed document.
// A positive window_size additionally expands each hit into its
// context window, the same way extraction grounds its prompts.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DocID      string `json:"doc_id"`
		Query      string `json:"query"`
		TopK       int    `json:"top_k"`
		WindowSize int    `json:"window_size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.DocID == "" || req.Query == "" {
		jsonError(w, "doc_id and query are required", http.StatusBadRequest)
		return
	}
	if req.TopK <= 0 {
		req.TopK = 5
	}

	hits, err := s.orchestrator.Ops().SearchSections(r.Context(), req.DocID, req.Query, req.TopK)
	if err != nil {
		jsonError(w, "search failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if hits == nil {
		hits = []index.Hit{}
	}

	resp := map[string]any{
		"doc_id":  req.DocID,
		"query":   req.Query,
		"results": hits,
	}
	if req.WindowSize > 0 {
		seeds := make([]string, len(hits))
		for i, h := range hits {
			seeds[i] = h.Meta.SectionID
		}
		windows, _, err := s.orchestrator.Ops().AssembleWindows(req.DocID, seeds, window.Options{
			WindowSize:     req.WindowSize,
			FirstMatchOnly: true,
		})
		if err != nil {
			jsonError(w, "window assembly failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if windows == nil {
			windows = []window.Window{}
		}
		resp["windows"] = windows
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleListDocuments lists every document with persisted artifacts.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	ids, err := s.orchestrator.Store().ListDocuments()
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	docs := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, map[string]any{
			"doc_id":  id,
			"indexed": s.orchestrator.Store().HasIndex(id),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": docs})
}

// handleDeleteDocument removes a document and all its artifacts.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if err := s.orchestrator.Store().DeleteDocument(docID); err != nil {
		jsonError(w, "delete failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"deleted": docID})
}
