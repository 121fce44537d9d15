package database

import (
	"context"
	"fmt"
	"time"

	"glowslot/internal/models"
	"glowslot/internal/timeslot"
)

// InsertClosure blocks the slot at (date, time). Inserting an already
// closed slot returns ErrSlotTaken; callers decide whether that is a
// no-op or a conflict.
func (db *DB) InsertClosure(ctx context.Context, date, tm string) error {
	tod, err := timeslot.Parse(tm)
	if err != nil {
		return fmt.Errorf("insert closure: %w", err)
	}

	_, err = db.ExecContext(ctx,
		"INSERT INTO closures (date, slot_time, created_at) VALUES (?, ?, ?)",
		date, tod.Storage(), time.Now(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("insert closure: %w", err)
	}
	return nil
}

// DeleteClosure reopens the slot at (date, time) and reports how many
// rows matched. The stored time carries seconds, so the match goes
// through the same normalization as the write path; matching zero rows
// is not an error.
func (db *DB) DeleteClosure(ctx context.Context, date, tm string) (int64, error) {
	tod, err := timeslot.Parse(tm)
	if err != nil {
		return 0, fmt.Errorf("delete closure: %w", err)
	}

	res, err := db.ExecContext(ctx,
		"DELETE FROM closures WHERE date = ? AND slot_time IN (?, ?)",
		date, tod.Storage(), tod.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("delete closure: %w", err)
	}
	return res.RowsAffected()
}

// ClosureExists reports whether (date, time) is closed.
func (db *DB) ClosureExists(ctx context.Context, date, tm string) (bool, error) {
	tod, err := timeslot.Parse(tm)
	if err != nil {
		return false, fmt.Errorf("check closure: %w", err)
	}

	var count int
	err = db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM closures WHERE date = ? AND slot_time IN (?, ?)",
		date, tod.Storage(), tod.String(),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check closure: %w", err)
	}
	return count > 0, nil
}

// ListClosuresByDate returns all closures for a date ordered by time,
// with times normalized back to canonical "HH:MM".
func (db *DB) ListClosuresByDate(ctx context.Context, date string) ([]models.Closure, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, date, slot_time, created_at
		FROM closures WHERE date = ?
		ORDER BY slot_time`,
		date,
	)
	if err != nil {
		return nil, fmt.Errorf("list closures for %s: %w", date, err)
	}
	defer rows.Close()

	var closures []models.Closure
	for rows.Next() {
		var c models.Closure
		var stored string
		if err := rows.Scan(&c.ID, &c.Date, &stored, &c.CreatedAt); err != nil {
			return nil, err
		}
		if norm, err := timeslot.Normalize(stored); err == nil {
			c.Time = norm
		} else {
			c.Time = stored
		}
		closures = append(closures, c)
	}
	return closures, rows.Err()
}
