package api

import (
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/ringside/internal/errors"
	"github.com/vytor/ringside/internal/logger"
	"github.com/vytor/ringside/internal/models"
	"github.com/vytor/ringside/internal/rating"
)

func (s *Server) handleRecordMatch(w http.ResponseWriter, r *http.Request) {
	var outcome models.MatchOutcome
	if err := readJSON(w, r, &outcome); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.MatchService.RecordMatch(r.Context(), outcome)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, result)
}

func (s *Server) handleMatchHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(w, r, err)
		return
	}

	history, err := s.MatchService.History(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, history)
}

func (s *Server) handleHeadToHead(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(w, r, err)
		return
	}
	q := r.URL.Query()

	h2h, err := s.MatchService.HeadToHead(r.Context(), q.Get("a"), q.Get("b"), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h2h)
}

type previewRequest struct {
	WinnerRating int  `json:"winner_rating"`
	LoserRating  int  `json:"loser_rating"`
	IsForTitle   bool `json:"is_for_title"`
	IsMainEvent  bool `json:"is_main_event"`
	IsDraw       bool `json:"is_draw"`
}

type previewResponse struct {
	rating.Change
	KFactor    int         `json:"k_factor"`
	WinnerTier models.Tier `json:"winner_tier"`
	LoserTier  models.Tier `json:"loser_tier"`
}

// handlePreviewRating runs the rating engine without touching the store.
func (s *Server) handlePreviewRating(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := readJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	opts := rating.Options{IsForTitle: req.IsForTitle, IsMainEvent: req.IsMainEvent}
	calc := rating.CalculateRatingChange
	if req.IsDraw {
		calc = rating.CalculateDrawChange
	}
	change, err := calc(req.WinnerRating, req.LoserRating, opts)
	if err != nil {
		if stderrors.Is(err, rating.ErrInvalidRating) {
			err = errors.NewValidationError("rating", err.Error())
		}
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, previewResponse{
		Change:     change,
		KFactor:    rating.KFactor(opts),
		WinnerTier: rating.TierFromRating(change.WinnerNewRating),
		LoserTier:  rating.TierFromRating(change.LoserNewRating),
	})
}

func (s *Server) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	requestedBy := requestIDFromContext(r.Context())

	if err := s.JobQueue.EnqueueRecalculation(requestedBy); err != nil {
		log.Warn("failed to enqueue recalculation: %v", err)
		handleError(w, r, errors.NewServiceUnavailableError("recalculation queue is unavailable, retry later", err))
		return
	}
	log.Info("recalculation queued: requested_by=%s", requestedBy)
	writeJSON(w, r, http.StatusAccepted, map[string]string{
		"status":       "queued",
		"requested_by": requestedBy,
	})
}
