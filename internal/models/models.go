package models

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// Booking statuses.
const (
	StatusConfirmed = "confirmed"
)

// Booking is a confirmed customer reservation occupying one slot.
// Time is always the canonical "HH:MM" form in memory; the database
// layer converts to and from the seconds-suffixed storage form.
type Booking struct {
	ID              int64     `json:"id"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	CustomerName    string    `json:"name"`
	CustomerContact string    `json:"contact"`
	Item            string    `json:"item"`
	ChatUserID      string    `json:"customerChatId,omitempty"`
	Reference       string    `json:"reference"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// BookedDetail is the per-slot booking summary carried in availability
// responses for the admin calendar.
type BookedDetail struct {
	Time    string `json:"slot_time"`
	Name    string `json:"name"`
	Contact string `json:"phone"`
	Item    string `json:"item"`
}

// Closure is an administrator-imposed block on one slot.
type Closure struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	CreatedAt time.Time `json:"created_at"`
}

// WeekdayTemplate defines the recurring slots for one weekday
// (0 = Sunday .. 6 = Saturday).
type WeekdayTemplate struct {
	Weekday int      `json:"weekday"`
	Slots   []string `json:"slots"`
}

// ParseDate validates a "YYYY-MM-DD" date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// ValidWeekday reports whether d is a usable weekday index.
func ValidWeekday(d int) bool {
	return d >= 0 && d <= 6
}
