package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"glowslot/internal/availability"
	"glowslot/internal/booking"
	"glowslot/internal/cache"
	"glowslot/internal/database"

	"github.com/rs/zerolog"
)

// HTTPServer serves the booking API: availability reads, booking and
// closure mutations, slot template configuration and the admin export.
type HTTPServer struct {
	server   *http.Server
	db       *database.DB
	svc      *booking.Service
	resolver *availability.Resolver
	cache    *cache.Availability
	log      zerolog.Logger
}

// NewHTTPServer builds the server and its routes. cache may be nil when
// redis is not configured.
func NewHTTPServer(addr string, db *database.DB, svc *booking.Service, resolver *availability.Resolver, c *cache.Availability, log zerolog.Logger) *HTTPServer {
	s := &HTTPServer{
		db:       db,
		svc:      svc,
		resolver: resolver,
		cache:    c,
		log:      log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/availability", s.handleAvailability)
	mux.HandleFunc("/bookings", s.handleCreateBooking)
	mux.HandleFunc("/bookings/cancel", s.handleCancelBooking)
	mux.HandleFunc("/closures", s.handleClosures)
	mux.HandleFunc("/closures/toggle", s.handleToggleClosure)
	mux.HandleFunc("/config/slots", s.handleSlotConfig)
	mux.HandleFunc("/admin/export", s.handleExport)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *HTTPServer) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("http server listening")
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
