package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dgallion1/docsplit/internal/config"
	"github.com/dgallion1/docsplit/internal/session"
	"github.com/dgallion1/docsplit/internal/stats"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for docsplit.
type Server struct {
	router   chi.Router
	sessions *session.Store
	mcp      http.Handler
	log      *slog.Logger
	cfg      config.Config

	splitStats   *stats.Window
	extractStats *stats.Window
}

// NewServer creates and configures the HTTP server. mcp may be nil.
func NewServer(sessions *session.Store, mcp http.Handler, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		sessions: sessions,
		mcp:      mcp,
		log:      log,
		cfg:      cfg,

		splitStats:   stats.NewWindow(time.Hour),
		extractStats: stats.NewWindow(time.Hour),
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

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Get("/api/stats", s.handleStats)
		r.Post("/api/sessions", s.handleCreateSession)
		r.Route("/api/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Put("/text", s.handleSetText)
			r.Post("/upload", s.handleUpload)
			r.Post("/split", s.handleSplit)

			r.Get("/chunks", s.handleListChunks)
			r.Get("/chunks/{index}", s.handleGetChunk)
			r.Get("/chunks/{index}/download", s.handleDownloadChunk)
			r.Post("/chunks/{index}/copy", s.handleCopyChunk)
		})

		if s.mcp != nil {
			r.Handle("/mcp", s.mcp)
		}
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": s.sessions.Len(),
		"split":    s.splitStats.Snapshot(),
		"extract":  s.extractStats.Snapshot(),
	})
}
