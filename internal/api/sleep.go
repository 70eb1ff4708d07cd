package api

import (
	"errors"
	"net/http"

	"github.com/restwell/carebed-core/internal/sleep"
)

// handleSleepDaily returns the last fourteen nights of sleep data.
func (s *Server) handleSleepDaily(w http.ResponseWriter, r *http.Request) {
	if s.sleep == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "sleep tracking not configured")
		return
	}

	samples, err := s.sleep.Daily(r.Context())
	if err != nil {
		s.writeSleepError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"samples": samples})
}

// handleSleepWeekly returns the last seven weeks of aggregated sleep data.
func (s *Server) handleSleepWeekly(w http.ResponseWriter, r *http.Request) {
	if s.sleep == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "sleep tracking not configured")
		return
	}

	samples, err := s.sleep.Weekly(r.Context())
	if err != nil {
		s.writeSleepError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"samples": samples})
}

func (s *Server) writeSleepError(w http.ResponseWriter, err error) {
	if errors.Is(err, sleep.ErrUnavailable) {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "sleep data temporarily unavailable")
		return
	}
	s.logger.Error("sleep data fetch failed", "error", err)
	writeInternalError(w, "failed to load sleep data")
}
