package api

import (
	"context"
	"net/http"
	"time"

	"github.com/vytor/ringside/internal/logger"
)

const readyTimeout = 2 * time.Second

// handleHealth is the liveness check; it answers as long as the process runs.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady is the readiness check. It fails with 503 while the database
// cannot be reached.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if s.DB == nil {
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "database not configured"})
		return
	}
	if err := s.DB.Ping(ctx); err != nil {
		logger.FromContext(ctx).Warn("readiness check failed - database: %v", err)
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "database unavailable"})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}
