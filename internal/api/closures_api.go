package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"glowslot/internal/booking"
	"glowslot/internal/metrics"
)

// ClosureRequest addresses one slot for closure mutations.
type ClosureRequest struct {
	Date string `json:"date"` // Format: YYYY-MM-DD
	Time string `json:"time"` // Format: HH:MM
}

// handleClosures closes a slot (POST) or reopens it (DELETE).
// POST /closures, DELETE /closures?date=YYYY-MM-DD&time=HH:MM
func (s *HTTPServer) handleClosures(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("closures")
	switch r.Method {
	case http.MethodPost:
		s.setClosure(w, r)
	case http.MethodDelete:
		s.clearClosure(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) setClosure(w http.ResponseWriter, r *http.Request) {
	var req ClosureRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.svc.SetClosure(r.Context(), req.Date, req.Time); err != nil {
		if booking.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, booking.ErrSlotBooked) {
			writeError(w, http.StatusConflict, "slot has an active booking; cancel it first")
			return
		}
		s.log.Error().Err(err).Str("date", req.Date).Str("time", req.Time).Msg("failed to close slot")
		writeError(w, http.StatusInternalServerError, "failed to close slot")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "closed": true})
}

func (s *HTTPServer) clearClosure(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	tm := r.URL.Query().Get("time")
	if date == "" || tm == "" {
		writeError(w, http.StatusBadRequest, "date and time are required")
		return
	}

	if err := s.svc.ClearClosure(r.Context(), date, tm); err != nil {
		if booking.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error().Err(err).Str("date", date).Str("time", tm).Msg("failed to reopen slot")
		writeError(w, http.StatusInternalServerError, "failed to reopen slot")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "closed": false})
}

// handleToggleClosure flips a slot's closure state and reports the new
// state.
// POST /closures/toggle
func (s *HTTPServer) handleToggleClosure(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("toggle_closure")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ClosureRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	closed, err := s.svc.ToggleClosure(r.Context(), req.Date, req.Time)
	if err != nil {
		if booking.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, booking.ErrSlotBooked) {
			writeError(w, http.StatusConflict, "slot has an active booking; cancel it first")
			return
		}
		s.log.Error().Err(err).Str("date", req.Date).Str("time", req.Time).Msg("failed to toggle closure")
		writeError(w, http.StatusInternalServerError, "failed to toggle closure")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "closed": closed})
}
