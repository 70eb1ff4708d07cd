package api

import (
	"net/http"
	"strconv"

	"github.com/restwell/carebed-core/internal/audit"
	"github.com/restwell/carebed-core/internal/auth"
)

// recordAudit writes an audit entry for an accepted command, attributed
// to the authenticated caller. Best-effort: failures are logged and
// never surfaced to the caller.
func (s *Server) recordAudit(r *http.Request, action audit.Action, details map[string]any) {
	s.recordAuditFor(r, userFromContext(r.Context()), action, details)
}

// recordAuditFor is recordAudit with an explicit user, for handlers that
// run before the auth middleware has resolved one.
func (s *Server) recordAuditFor(r *http.Request, user *auth.User, action audit.Action, details map[string]any) {
	if s.audit == nil {
		return
	}

	entry := audit.Entry{
		Action:  action,
		BedID:   s.bedID,
		Details: details,
	}
	if user != nil {
		entry.UserID = user.ID
		entry.UserEmail = user.Email
	}

	if err := s.audit.Record(r.Context(), entry); err != nil {
		s.logger.Warn("audit record failed", "action", string(action), "error", err)
	}
}

// handleListAudit returns the audit trail, newest first.
// Supports action, user_id, limit, and offset query parameters.
func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "audit trail is not enabled")
		return
	}

	filter := audit.Filter{
		Action: audit.Action(r.URL.Query().Get("action")),
		UserID: r.URL.Query().Get("user_id"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeBadRequest(w, "limit must be a non-negative integer")
			return
		}
		filter.Limit = n
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeBadRequest(w, "offset must be a non-negative integer")
			return
		}
		filter.Offset = n
	}

	result, err := s.audit.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("audit list failed", "error", err)
		writeInternalError(w, "failed to read audit trail")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
