// Package server exposes definition generation over a small JSON API.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fialovy/redditpersona/internal/character"
	"github.com/fialovy/redditpersona/internal/persona"
	"github.com/fialovy/redditpersona/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// GenerateService is the slice of the persona service the handlers use.
type GenerateService interface {
	Generate(ctx context.Context, req persona.Request) (*character.Definition, error)
}

// Server is the redditpersona HTTP API server.
type Server struct {
	db      *store.DB
	svc     GenerateService
	router  chi.Router
	log     *zap.Logger
	version string
	started time.Time
}

// New creates a new Server.
func New(db *store.DB, svc GenerateService, log *zap.Logger, version string) *Server {
	s := &Server{
		db:      db,
		svc:     svc,
		log:     log,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/definitions", s.handleGenerate)
		r.Get("/runs", s.handleRuns)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
