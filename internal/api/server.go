package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/didilebossducode/lettre-motivation-ai/internal/canned"
	"github.com/didilebossducode/lettre-motivation-ai/internal/config"
	"github.com/didilebossducode/lettre-motivation-ai/internal/convert"
	"github.com/didilebossducode/lettre-motivation-ai/internal/draft"
	"github.com/didilebossducode/lettre-motivation-ai/internal/pipeline"
	"github.com/didilebossducode/lettre-motivation-ai/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Deps are the services the handlers call. Converter, Pipeline and Stats
// may be nil; the endpoints needing them then answer 503.
type Deps struct {
	Templates *canned.Repository
	Sessions  *session.Manager
	Pipeline  *pipeline.Orchestrator
	Converter convert.Converter
	Stats     *draft.LLMStats
	Model     string
}

// Server is the HTTP API server for letter generation.
type Server struct {
	router chi.Router
	deps   Deps
	log    *slog.Logger
	cfg    config.Config
	now    func() time.Time
}

// NewServer creates and configures the HTTP server.
func NewServer(deps Deps, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		deps: deps,
		log:  log,
		cfg:  cfg,
		now:  time.Now,
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
	r.Post("/export", s.handleExport)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Get("/api/markers", s.handleMarkers)
		r.Post("/api/render", s.handleRender)
		r.Post("/api/render/plain", s.handleRenderPlain)
		r.Post("/api/render/docx", s.handleRenderDocument)

		r.Route("/api/templates", func(r chi.Router) {
			r.Get("/", s.handleListTemplates)
			r.Post("/", s.handleAddTemplate)
			r.Get("/search", s.handleSearchTemplates)
			r.Post("/import", s.handleImportTemplates)
			r.Get("/{name}", s.handleGetTemplate)
			r.Put("/{name}", s.handleEditTemplate)
			r.Delete("/{name}", s.handleDeleteTemplate)
			r.Post("/{name}/rename", s.handleRenameTemplate)
		})

		r.Get("/api/session", s.handleGetSession)
		r.Put("/api/session", s.handlePutSession)
		r.Post("/api/session/generate", s.handleGenerateSession)

		r.Post("/api/jobs/export", s.handleExportJob)
		r.Post("/api/jobs/draft", s.handleDraftJob)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/jobs/{jobID}/download", s.handleJobDownload)

		r.Post("/api/import", s.handleImport)
		r.Post("/api/fill", s.handleFill)

		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": s.now().Format(time.RFC3339),
	})
}
