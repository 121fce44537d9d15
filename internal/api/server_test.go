package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"glowslot/internal/availability"
	"glowslot/internal/booking"
	"glowslot/internal/database"

	"github.com/rs/zerolog"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type testServer struct {
	Handler http.Handler
	DB      *database.DB
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	svc := booking.New(db, nil, nil, time.UTC, booking.Rules{MaxAdvance: 365 * 24 * time.Hour}, zerolog.Nop())
	resolver := availability.New(db, db, db, zerolog.Nop())
	server := NewHTTPServer("127.0.0.1:0", db, svc, resolver, nil, zerolog.Nop())

	return &testServer{
		Handler: server.server.Handler,
		DB:      db,
	}
}

// futureDate returns a date offset days from now, plus its weekday.
func futureDate(offset int) (string, int) {
	d := time.Now().AddDate(0, 0, offset)
	return d.Format("2006-01-02"), int(d.Weekday())
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf []byte
	if s, ok := body.(string); ok {
		buf = []byte(s)
	} else if body != nil {
		var err error
		buf, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to unmarshal response %q: %v", w.Body.String(), err)
	}
}
