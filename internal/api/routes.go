package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func (s *Server) Routes() http.Handler {
	origins := s.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Post("/wrestlers", s.handleCreateWrestler)
		r.Get("/wrestlers/{id}", s.handleWrestlerProfile)
		r.Get("/wrestlers/{id}/matches", s.handleMatchHistory)
		r.Get("/wrestlers/{id}/rating-history", s.handleRatingHistory)
		r.Get("/rankings", s.handleRankings)
		r.Post("/matches", s.handleRecordMatch)
		r.Get("/head-to-head", s.handleHeadToHead)
		r.Post("/ratings/preview", s.handlePreviewRating)
		r.Post("/admin/recalculate", s.handleRecalculate)
	})
	return r
}
