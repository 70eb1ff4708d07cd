package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/restwell/carebed-core/internal/audit"
	"github.com/restwell/carebed-core/internal/bed"
)

// createPresetRequest is the request body for POST /presets. The
// position fields are optional as a group; when omitted the preset
// captures the bed's current position.
type createPresetRequest struct {
	Name   string `json:"name"`
	Back   *int   `json:"back"`
	Leg    *int   `json:"leg"`
	Height *int   `json:"height"`
}

// maxPresetNameLength bounds user-supplied preset names.
const maxPresetNameLength = 64

// handleListCustomPresets returns the saved preset collection.
func (s *Server) handleListCustomPresets(w http.ResponseWriter, _ *http.Request) {
	presets := s.bed.State().CustomPresets
	if presets == nil {
		presets = []bed.CustomPreset{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"presets": presets})
}

// handleCreateCustomPreset saves the current bed position under a name.
func (s *Server) handleCreateCustomPreset(w http.ResponseWriter, r *http.Request) {
	var req createPresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeBadRequest(w, "name is required")
		return
	}
	if len(name) > maxPresetNameLength {
		writeBadRequest(w, "name is too long")
		return
	}

	pos := s.bed.State().Position
	given := 0
	for _, v := range []*int{req.Back, req.Leg, req.Height} {
		if v != nil {
			given++
		}
	}
	switch given {
	case 0:
	case 3:
		pos = bed.Position{Back: *req.Back, Leg: *req.Leg, Height: *req.Height}
	default:
		writeBadRequest(w, "back, leg and height must be given together")
		return
	}

	id := s.bed.AddCustomPreset(r.Context(), name, pos)

	for _, p := range s.bed.State().CustomPresets {
		if p.ID == id {
			s.recordAudit(r, audit.ActionPresetCreate, map[string]any{"id": id, "name": name})
			writeJSON(w, http.StatusCreated, p)
			return
		}
	}
	writeInternalError(w, "preset was not saved")
}

// handleDeleteCustomPreset removes a saved preset. Deleting an unknown
// id succeeds; the collection simply does not change.
func (s *Server) handleDeleteCustomPreset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.bed.RemoveCustomPreset(r.Context(), id)
	s.recordAudit(r, audit.ActionPresetDelete, map[string]any{"id": id})
	writeJSON(w, http.StatusOK, s.bed.State())
}

// handleApplyCustomPreset moves the bed to a saved preset's position.
func (s *Server) handleApplyCustomPreset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	known := false
	for _, p := range s.bed.State().CustomPresets {
		if p.ID == id {
			known = true
			break
		}
	}
	if !known {
		writeNotFound(w, "unknown preset")
		return
	}

	s.bed.ApplyCustomPreset(id)
	s.recordAudit(r, audit.ActionPresetApply, map[string]any{"custom_id": id})
	writeJSON(w, http.StatusOK, s.bed.State())
}
