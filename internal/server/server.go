// Package server exposes the stored feeds over HTTP: paged filtered queries,
// on-demand collection triggers, and full-table clears.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/gbdata/roadsync/internal/feed"
)

// Server routes feed requests to the store and collector.
type Server struct {
	store     *feed.Store
	collector *feed.Collector
	reg       *feed.Registry
}

// New creates a Server.
func New(store *feed.Store, collector *feed.Collector, reg *feed.Registry) *Server {
	return &Server{store: store, collector: collector, reg: reg}
}

// Router builds the chi handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/feeds", s.handleListFeeds)
	r.Route("/feeds/{feedID}", func(r chi.Router) {
		r.Get("/", s.handleQuery)
		r.Post("/collect", s.handleCollect)
		r.Delete("/", s.handleClear)
	})

	return r
}
