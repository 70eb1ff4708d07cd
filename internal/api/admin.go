package api

import (
	"net/http"

	"github.com/restwell/carebed-core/internal/audit"
)

// handleFactoryReset wipes persisted state and restores the bed to its
// factory defaults. The persisted session snapshot, custom presets and
// font-size preference are all removed.
func (s *Server) handleFactoryReset(w http.ResponseWriter, r *http.Request) {
	s.recordAudit(r, audit.ActionFactoryReset, nil)

	if s.store != nil {
		s.store.Clear(r.Context())
	}
	s.sessions.Logout(r.Context())
	s.bed.Reset()

	s.logger.Info("factory reset performed")
	writeJSON(w, http.StatusOK, s.bed.State())
}
