package export

import (
	"context"
	"fmt"
	"os"

	"glowslot/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsService mirrors the booking list into a Google spreadsheet so
// the salon owner can browse it outside the admin page. Sync replaces
// the whole range; the spreadsheet is a read-only mirror, never a
// source of truth.
type SheetsService struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewSheetsService authenticates with a service-account credentials
// file and targets one spreadsheet.
func NewSheetsService(ctx context.Context, credentialsFile, spreadsheetID string) (*SheetsService, error) {
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsService{service: srv, spreadsheetID: spreadsheetID}, nil
}

// SyncBookings clears the Bookings sheet and rewrites it with a header
// row plus one row per booking.
func (s *SheetsService) SyncBookings(ctx context.Context, bookings []models.Booking) error {
	_, err := s.service.Spreadsheets.Values.Clear(
		s.spreadsheetID, "Bookings!A:H", &sheets.ClearValuesRequest{},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear bookings sheet: %w", err)
	}

	values := make([][]any, 0, len(bookings)+1)
	header := make([]any, len(bookingColumns))
	for i, c := range bookingColumns {
		header[i] = c
	}
	values = append(values, header)
	for _, b := range bookings {
		values = append(values, bookingRow(b))
	}

	_, err = s.service.Spreadsheets.Values.Update(
		s.spreadsheetID, "Bookings!A1", &sheets.ValueRange{Values: values},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update bookings sheet: %w", err)
	}
	return nil
}
