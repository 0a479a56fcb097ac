package api

import (
	"log/slog"
	"net/http"

	"finrag/internal/config"
	"finrag/internal/llm"
	"finrag/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for finrag.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	llmStats     *llm.Stats
	llmModel     string
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, llmStats *llm.Stats, llmModel string, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		llmStats:     llmStats,
		llmModel:     llmModel,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/reports", s.handleCreateReport)
		r.Get("/api/reports/{jobID}/status", s.handleReportStatus)
		r.Get("/api/reports/{jobID}", s.handleGetReport)

		r.Post("/api/search", s.handleSearch)
		r.Get("/api/documents", s.handleListDocuments)
		r.Delete("/api/documents/{docID}", s.handleDeleteDocument)

		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
