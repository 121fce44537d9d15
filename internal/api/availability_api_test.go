package api

import (
	"context"
	"net/http"
	"testing"

	"glowslot/internal/availability"
)

func TestHandleAvailability_MissingDate(t *testing.T) {
	srv := setupTestServer(t)

	w := doJSON(t, srv.Handler, http.MethodGet, "/availability", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var resp ErrorResponse
	decodeBody(t, w, &resp)
	if resp.Error != "date is required" {
		t.Errorf("error = %q, want %q", resp.Error, "date is required")
	}
}

func TestHandleAvailability_MethodNotAllowed(t *testing.T) {
	srv := setupTestServer(t)

	w := doJSON(t, srv.Handler, http.MethodPost, "/availability?date=2025-06-04", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandleAvailability_MalformedDateIsEmpty(t *testing.T) {
	srv := setupTestServer(t)

	w := doJSON(t, srv.Handler, http.MethodGet, "/availability?date=04-06-2025", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp availability.Result
	decodeBody(t, w, &resp)
	if len(resp.AllSlots) != 0 || len(resp.AllDisabled) != 0 || len(resp.BookedDetails) != 0 {
		t.Errorf("malformed date should resolve empty, got %+v", resp)
	}
}

func TestHandleAvailability_FullView(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()

	date, weekday := futureDate(7)
	if err := srv.DB.UpsertTemplate(ctx, weekday, []string{"09:40", "13:00", "16:20"}); err != nil {
		t.Fatalf("failed to seed template: %v", err)
	}

	w := doJSON(t, srv.Handler, http.MethodPost, "/bookings", CreateBookingRequest{
		Date: date, Time: "13:00", Name: "Mei", Contact: "0912", Item: "gel",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("booking status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	w = doJSON(t, srv.Handler, http.MethodPost, "/closures", ClosureRequest{Date: date, Time: "16:20"})
	if w.Code != http.StatusOK {
		t.Fatalf("closure status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	w = doJSON(t, srv.Handler, http.MethodGet, "/availability?date="+date, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp availability.Result
	decodeBody(t, w, &resp)

	wantSlots := []string{"09:40", "13:00", "16:20"}
	if len(resp.AllSlots) != len(wantSlots) {
		t.Fatalf("allSlots = %v, want %v", resp.AllSlots, wantSlots)
	}
	for i, s := range wantSlots {
		if resp.AllSlots[i] != s {
			t.Errorf("allSlots[%d] = %q, want %q", i, resp.AllSlots[i], s)
		}
	}

	wantDisabled := []string{"13:00", "16:20"}
	if len(resp.AllDisabled) != len(wantDisabled) {
		t.Fatalf("allDisabled = %v, want %v", resp.AllDisabled, wantDisabled)
	}
	for i, s := range wantDisabled {
		if resp.AllDisabled[i] != s {
			t.Errorf("allDisabled[%d] = %q, want %q", i, resp.AllDisabled[i], s)
		}
	}

	if len(resp.BookedDetails) != 1 {
		t.Fatalf("bookedDetails length = %d, want 1", len(resp.BookedDetails))
	}
	if resp.BookedDetails[0].Time != "13:00" || resp.BookedDetails[0].Name != "Mei" {
		t.Errorf("bookedDetails[0] = %+v", resp.BookedDetails[0])
	}
}

func TestHandleAvailability_NoTemplateDay(t *testing.T) {
	srv := setupTestServer(t)

	date, _ := futureDate(3)
	w := doJSON(t, srv.Handler, http.MethodGet, "/availability?date="+date, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp availability.Result
	decodeBody(t, w, &resp)
	if resp.AllSlots == nil || len(resp.AllSlots) != 0 {
		t.Errorf("allSlots = %v, want empty non-null list", resp.AllSlots)
	}
}
