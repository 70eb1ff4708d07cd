package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/restwell/carebed-core/internal/audit"
	"github.com/restwell/carebed-core/internal/bed"
)

// positionRequest is the request body for PUT /bed/position.
type positionRequest struct {
	Back   *int `json:"back"`
	Leg    *int `json:"leg"`
	Height *int `json:"height"`
}

// axisRequest is the request body for single-axis adjustments. Delta is
// relative: it is added to the axis' current value before clamping.
type axisRequest struct {
	Delta *int `json:"delta"`
}

// handleGetBedState returns the full bed state.
func (s *Server) handleGetBedState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.bed.State())
}

// handleSetPosition moves all three axes at once.
//
// Movement refusals (locked bed) are not errors; the response carries
// the resulting state and the client reads the outcome from it.
func (s *Server) handleSetPosition(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Back == nil || req.Leg == nil || req.Height == nil {
		writeBadRequest(w, "back, leg and height are required")
		return
	}

	s.bed.SetPosition(bed.Position{Back: *req.Back, Leg: *req.Leg, Height: *req.Height})
	s.recordAudit(r, audit.ActionBedPosition, map[string]any{
		"back": *req.Back, "leg": *req.Leg, "height": *req.Height,
	})
	writeJSON(w, http.StatusOK, s.bed.State())
}

// handleAdjustBack nudges the backrest by a delta.
func (s *Server) handleAdjustBack(w http.ResponseWriter, r *http.Request) {
	s.handleAxis(w, r, "back", s.bed.AdjustBack)
}

// handleAdjustLeg nudges the leg rest by a delta.
func (s *Server) handleAdjustLeg(w http.ResponseWriter, r *http.Request) {
	s.handleAxis(w, r, "leg", s.bed.AdjustLeg)
}

// handleAdjustHeight nudges the platform height by a delta.
func (s *Server) handleAdjustHeight(w http.ResponseWriter, r *http.Request) {
	s.handleAxis(w, r, "height", s.bed.AdjustHeight)
}

func (s *Server) handleAxis(w http.ResponseWriter, r *http.Request, axis string, adjust func(int)) {
	var req axisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Delta == nil {
		writeBadRequest(w, "delta is required")
		return
	}

	adjust(*req.Delta)
	s.recordAudit(r, audit.ActionBedPosition, map[string]any{"axis": axis, "delta": *req.Delta})
	writeJSON(w, http.StatusOK, s.bed.State())
}

// handleToggleLock flips the movement lock.
func (s *Server) handleToggleLock(w http.ResponseWriter, r *http.Request) {
	s.bed.ToggleLock()
	s.recordAudit(r, audit.ActionBedLock, map[string]any{"locked": s.bed.State().IsLocked})
	writeJSON(w, http.StatusOK, s.bed.State())
}

// batteryRequest is the request body for PUT /bed/battery.
type batteryRequest struct {
	Level *int `json:"level"`
}

// handleSetBattery records a battery reading, for installations where
// telemetry arrives over HTTP instead of MQTT.
func (s *Server) handleSetBattery(w http.ResponseWriter, r *http.Request) {
	var req batteryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Level == nil {
		writeBadRequest(w, "level is required")
		return
	}

	s.bed.SetBatteryLevel(*req.Level)
	s.recordAudit(r, audit.ActionBedBattery, map[string]any{"level": *req.Level})
	writeJSON(w, http.StatusOK, s.bed.State())
}

// handleApplyPreset moves the bed to a built-in preset position.
func (s *Server) handleApplyPreset(w http.ResponseWriter, r *http.Request) {
	presetType := bed.PresetType(chi.URLParam(r, "type"))
	if _, ok := bed.BuiltinPresetPosition(presetType); !ok {
		writeNotFound(w, "unknown preset type")
		return
	}

	s.bed.ApplyPreset(presetType)
	s.recordAudit(r, audit.ActionPresetApply, map[string]any{"type": string(presetType)})
	writeJSON(w, http.StatusOK, s.bed.State())
}
