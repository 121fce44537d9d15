package api

import (
	"fmt"
	"net/http"
	"time"

	"glowslot/internal/export"
	"glowslot/internal/metrics"
	"glowslot/internal/models"
)

const defaultExportDays = 60

// handleExport streams bookings in a date range as an xlsx workbook.
// GET /admin/export?from=YYYY-MM-DD&to=YYYY-MM-DD
func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("export")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" {
		from = time.Now().Format(models.DateLayout)
	}
	if to == "" {
		to = time.Now().AddDate(0, 0, defaultExportDays).Format(models.DateLayout)
	}

	fromDay, err := models.ParseDate(from)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from date; expected YYYY-MM-DD")
		return
	}
	toDay, err := models.ParseDate(to)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to date; expected YYYY-MM-DD")
		return
	}
	if fromDay.After(toDay) {
		writeError(w, http.StatusBadRequest, "from must be before or equal to to")
		return
	}

	bookings, err := s.db.ListBookingsBetween(r.Context(), from, to)
	if err != nil {
		s.log.Error().Err(err).Str("from", from).Str("to", to).Msg("failed to load bookings for export")
		writeError(w, http.StatusInternalServerError, "failed to export bookings")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="bookings_%s_%s.xlsx"`, from, to))
	if err := export.WriteBookingsXLSX(w, bookings); err != nil {
		s.log.Error().Err(err).Msg("failed to write xlsx export")
	}
}
