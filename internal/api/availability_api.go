package api

import (
	"net/http"

	"glowslot/internal/availability"
	"glowslot/internal/metrics"
)

// handleAvailability returns the bookable view of one date.
// GET /availability?date=YYYY-MM-DD
func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("availability")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}

	if s.cache != nil {
		var cached availability.Result
		if s.cache.Get(r.Context(), date, &cached) {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	result := s.resolver.Resolve(r.Context(), date)
	if s.cache != nil {
		s.cache.Set(r.Context(), date, result)
	}
	writeJSON(w, http.StatusOK, result)
}
