package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"glowslot/internal/models"
	"glowslot/internal/timeslot"
)

// GetTemplate returns the slot list for a weekday, normalized to
// canonical "HH:MM" keys. A missing template is not an error: it
// returns an empty list.
func (db *DB) GetTemplate(ctx context.Context, weekday int) ([]string, error) {
	var raw string
	err := db.QueryRowContext(ctx,
		"SELECT slots FROM slot_templates WHERE day_of_week = ?",
		weekday,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get template for weekday %d: %w", weekday, err)
	}

	var slots []string
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, fmt.Errorf("decode template for weekday %d: %w", weekday, err)
	}
	return timeslot.NormalizeAll(slots), nil
}

// ListTemplates returns all weekday templates ordered by weekday.
func (db *DB) ListTemplates(ctx context.Context) ([]models.WeekdayTemplate, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT day_of_week, slots FROM slot_templates ORDER BY day_of_week")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []models.WeekdayTemplate
	for rows.Next() {
		var t models.WeekdayTemplate
		var raw string
		if err := rows.Scan(&t.Weekday, &raw); err != nil {
			return nil, err
		}
		var slots []string
		if err := json.Unmarshal([]byte(raw), &slots); err != nil {
			return nil, fmt.Errorf("decode template for weekday %d: %w", t.Weekday, err)
		}
		t.Slots = timeslot.NormalizeAll(slots)
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// UpsertTemplate creates or replaces the template for a weekday.
// Slots must already be canonical "HH:MM" keys.
func (db *DB) UpsertTemplate(ctx context.Context, weekday int, slots []string) error {
	if slots == nil {
		slots = []string{}
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("encode template: %w", err)
	}

	now := time.Now()
	_, err = db.ExecContext(ctx, `
		INSERT INTO slot_templates (day_of_week, slots, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(day_of_week) DO UPDATE SET
			slots = excluded.slots,
			updated_at = excluded.updated_at`,
		weekday, string(raw), now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert template for weekday %d: %w", weekday, err)
	}
	return nil
}
