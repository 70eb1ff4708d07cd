package api

import (
	"encoding/json"
	"net/http"

	"github.com/restwell/carebed-core/internal/storage"
)

// Font size options for the display preference.
const (
	FontSizeStandard = "standard"
	FontSizeLarge    = "large"
)

// fontSizeRequest is the request body for PUT /settings/font-size.
type fontSizeRequest struct {
	FontSize string `json:"font_size"`
}

// handleGetFontSize returns the persisted display font size, falling
// back to the standard size when nothing is stored.
func (s *Server) handleGetFontSize(w http.ResponseWriter, r *http.Request) {
	fontSize := FontSizeStandard
	if s.store != nil {
		var stored string
		if s.store.Get(r.Context(), storage.KeyFontSize, &stored) && isValidFontSize(stored) {
			fontSize = stored
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"font_size": fontSize})
}

// handleSetFontSize persists the display font size preference.
func (s *Server) handleSetFontSize(w http.ResponseWriter, r *http.Request) {
	var req fontSizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if !isValidFontSize(req.FontSize) {
		writeBadRequest(w, "font_size must be standard or large")
		return
	}

	if s.store != nil {
		s.store.Set(r.Context(), storage.KeyFontSize, req.FontSize)
	}
	writeJSON(w, http.StatusOK, map[string]string{"font_size": req.FontSize})
}

func isValidFontSize(v string) bool {
	return v == FontSizeStandard || v == FontSizeLarge
}
