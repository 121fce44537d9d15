package api

import (
	"encoding/json"
	"net/http"

	"glowslot/internal/booking"
	"glowslot/internal/metrics"
	"glowslot/internal/models"
)

// WeekdayTemplateResponse is one weekday's slot list.
type WeekdayTemplateResponse struct {
	Weekday int      `json:"weekday"` // 0 = Sunday
	Slots   []string `json:"slots"`
}

// SetTemplateRequest replaces one weekday's slot list wholesale.
type SetTemplateRequest struct {
	Weekday int      `json:"weekday"` // 0 = Sunday
	Slots   []string `json:"slots"`   // Format: HH:MM, strict
}

// handleSlotConfig reads (GET) or replaces (POST) weekday slot
// templates.
// GET /config/slots, POST /config/slots
func (s *HTTPServer) handleSlotConfig(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("slot_config")
	switch r.Method {
	case http.MethodGet:
		s.listTemplates(w, r)
	case http.MethodPost:
		s.setTemplate(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) listTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.svc.Templates(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list templates")
		writeError(w, http.StatusInternalServerError, "failed to list templates")
		return
	}

	out := make([]WeekdayTemplateResponse, 0, len(templates))
	for _, t := range templates {
		out = append(out, weekdayResponse(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": out})
}

func (s *HTTPServer) setTemplate(w http.ResponseWriter, r *http.Request) {
	var req SetTemplateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.svc.SetTemplate(r.Context(), req.Weekday, req.Slots); err != nil {
		if booking.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error().Err(err).Int("weekday", req.Weekday).Msg("failed to update template")
		writeError(w, http.StatusInternalServerError, "failed to update template")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func weekdayResponse(t models.WeekdayTemplate) WeekdayTemplateResponse {
	slots := t.Slots
	if slots == nil {
		slots = []string{}
	}
	return WeekdayTemplateResponse{Weekday: t.Weekday, Slots: slots}
}
