package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"glowslot/internal/booking"
	"glowslot/internal/database"
	"glowslot/internal/metrics"
)

// CreateBookingRequest is the request body for POST /bookings.
type CreateBookingRequest struct {
	Date       string `json:"date"`                   // Format: YYYY-MM-DD
	Time       string `json:"time"`                   // Format: HH:MM
	Name       string `json:"name"`
	Contact    string `json:"contact,omitempty"`
	Item       string `json:"item,omitempty"`
	ChatUserID string `json:"chat_user_id,omitempty"` // Chat recipient for the confirmation
}

// CreateBookingResponse is the response for POST /bookings.
type CreateBookingResponse struct {
	Reference string `json:"reference"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Status    string `json:"status"`
}

// CancelBookingRequest is the request body for POST /bookings/cancel.
type CancelBookingRequest struct {
	Date string `json:"date"` // Format: YYYY-MM-DD
	Time string `json:"time"` // Format: HH:MM
}

// handleCreateBooking books a slot for a customer.
// POST /bookings
func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("create_booking")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req CreateBookingRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	b, err := s.svc.Create(r.Context(), booking.CreateRequest{
		Date:       req.Date,
		Time:       req.Time,
		Name:       req.Name,
		Contact:    req.Contact,
		Item:       req.Item,
		ChatUserID: req.ChatUserID,
	})
	if err != nil {
		if booking.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, database.ErrSlotTaken) {
			writeError(w, http.StatusConflict, "slot is already taken")
			return
		}
		s.log.Error().Err(err).Str("date", req.Date).Str("time", req.Time).Msg("failed to create booking")
		writeError(w, http.StatusInternalServerError, "failed to create booking")
		return
	}

	writeJSON(w, http.StatusOK, CreateBookingResponse{
		Reference: b.Reference,
		Date:      b.Date,
		Time:      b.Time,
		Status:    b.Status,
	})
}

// handleCancelBooking frees a slot. Cancelling an empty slot succeeds.
// POST /bookings/cancel
func (s *HTTPServer) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("cancel_booking")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req CancelBookingRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.svc.Cancel(r.Context(), req.Date, req.Time); err != nil {
		if booking.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error().Err(err).Str("date", req.Date).Str("time", req.Time).Msg("failed to cancel booking")
		writeError(w, http.StatusInternalServerError, "failed to cancel booking")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
