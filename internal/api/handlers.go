package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/ringside/internal/jobs"
	"github.com/vytor/ringside/internal/logger"
	"github.com/vytor/ringside/internal/services"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	DB              Pinger
	WrestlerService services.WrestlerService
	MatchService    services.MatchService
	JobQueue        jobs.JobQueue
	AllowedOrigins  []string
}

type createWrestlerRequest struct {
	Name   string `json:"name"`
	Rating int    `json:"rating"`
}

func (s *Server) handleCreateWrestler(w http.ResponseWriter, r *http.Request) {
	var req createWrestlerRequest
	if err := readJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	wrestler, err := s.WrestlerService.CreateWrestler(r.Context(), req.Name, req.Rating)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, wrestler)
}

func (s *Server) handleWrestlerProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	logger.FromContext(r.Context()).Debug("loading profile: id=%s", id)

	profile, err := s.WrestlerService.GetProfile(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, profile)
}

func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		handleError(w, r, err)
		return
	}

	entries, err := s.WrestlerService.Rankings(r.Context(), limit, offset)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, entries)
}

func (s *Server) handleRatingHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(w, r, err)
		return
	}

	history, err := s.WrestlerService.RatingHistory(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, history)
}
