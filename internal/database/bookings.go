package database

import (
	"context"
	"fmt"
	"time"

	"glowslot/internal/models"
	"glowslot/internal/timeslot"
)

// InsertBooking stores a booking, converting the canonical time to the
// seconds-suffixed storage form. A uniqueness violation on
// (date, slot_time) is returned as ErrSlotTaken. On success the ID and
// CreatedAt fields are filled in.
func (db *DB) InsertBooking(ctx context.Context, b *models.Booking) error {
	tod, err := timeslot.Parse(b.Time)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	b.Time = tod.String()

	now := time.Now()
	res, err := db.ExecContext(ctx, `
		INSERT INTO bookings (date, slot_time, customer_name, customer_contact,
		                      item, chat_user_id, reference, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Date, tod.Storage(), b.CustomerName, b.CustomerContact,
		b.Item, b.ChatUserID, b.Reference, b.Status, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("insert booking: %w", err)
	}

	b.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert booking id: %w", err)
	}
	b.CreatedAt = now
	return nil
}

// DeleteBooking removes the booking at (date, time) and reports how
// many rows matched. Matching zero rows is not an error: cancellation
// is idempotent.
func (db *DB) DeleteBooking(ctx context.Context, date, tm string) (int64, error) {
	tod, err := timeslot.Parse(tm)
	if err != nil {
		return 0, fmt.Errorf("delete booking: %w", err)
	}

	// The stored form carries seconds; match both forms so rows written
	// before normalization was enforced still delete.
	res, err := db.ExecContext(ctx,
		"DELETE FROM bookings WHERE date = ? AND slot_time IN (?, ?)",
		date, tod.Storage(), tod.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("delete booking: %w", err)
	}
	return res.RowsAffected()
}

// ListBookingsByDate returns all bookings for a date ordered by time,
// with times normalized back to canonical "HH:MM".
func (db *DB) ListBookingsByDate(ctx context.Context, date string) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, date, slot_time, customer_name, customer_contact,
		       item, chat_user_id, reference, status, created_at
		FROM bookings WHERE date = ?
		ORDER BY slot_time`,
		date,
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings for %s: %w", date, err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

// ListBookingsBetween returns bookings with from <= date <= to ordered
// by date and time, for export.
func (db *DB) ListBookingsBetween(ctx context.Context, from, to string) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, date, slot_time, customer_name, customer_contact,
		       item, chat_user_id, reference, status, created_at
		FROM bookings WHERE date >= ? AND date <= ?
		ORDER BY date, slot_time`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings %s..%s: %w", from, to, err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

// HasBooking reports whether (date, time) is occupied by a booking.
func (db *DB) HasBooking(ctx context.Context, date, tm string) (bool, error) {
	tod, err := timeslot.Parse(tm)
	if err != nil {
		return false, fmt.Errorf("check booking: %w", err)
	}

	var count int
	err = db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings WHERE date = ? AND slot_time IN (?, ?)",
		date, tod.Storage(), tod.String(),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check booking: %w", err)
	}
	return count > 0, nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanBookings(rows rowScanner) ([]models.Booking, error) {
	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		var stored string
		if err := rows.Scan(
			&b.ID, &b.Date, &stored, &b.CustomerName, &b.CustomerContact,
			&b.Item, &b.ChatUserID, &b.Reference, &b.Status, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		if norm, err := timeslot.Normalize(stored); err == nil {
			b.Time = norm
		} else {
			b.Time = stored
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
