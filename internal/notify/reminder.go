package notify

import (
	"context"
	"fmt"
	"time"

	"glowslot/internal/metrics"
	"glowslot/internal/models"

	"github.com/rs/zerolog"
)

// BookingLister reads bookings for the reminder window.
type BookingLister interface {
	ListBookingsBetween(ctx context.Context, from, to string) ([]models.Booking, error)
}

// Reminder sends next-day appointment reminders once a day at a fixed
// local hour. Best effort like the rest of the notification path: a
// failed send is logged and counted, the run continues.
type Reminder struct {
	store  BookingLister
	sender TextSender
	loc    *time.Location
	hour   int
	log    zerolog.Logger
}

// NewReminder creates the scheduler. hour is the local hour of day
// (0-23) at which reminders fire.
func NewReminder(store BookingLister, sender TextSender, loc *time.Location, hour int, log zerolog.Logger) *Reminder {
	if loc == nil {
		loc = time.UTC
	}
	return &Reminder{
		store:  store,
		sender: sender,
		loc:    loc,
		hour:   hour,
		log:    log,
	}
}

// Run waits until the next firing hour, then repeats every 24 hours
// until ctx is cancelled.
func (r *Reminder) Run(ctx context.Context) {
	timer := time.NewTimer(r.untilNextHour(time.Now()))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			r.SendDue(ctx)
			timer.Reset(24 * time.Hour)
		}
	}
}

// SendDue pushes a reminder to every confirmed booking for tomorrow
// that has a chat recipient.
func (r *Reminder) SendDue(ctx context.Context) {
	tomorrow := time.Now().In(r.loc).AddDate(0, 0, 1).Format(models.DateLayout)

	bookings, err := r.store.ListBookingsBetween(ctx, tomorrow, tomorrow)
	if err != nil {
		r.log.Error().Err(err).Str("date", tomorrow).Msg("reminder: failed to load bookings")
		return
	}

	sent := 0
	for _, b := range bookings {
		if b.ChatUserID == "" || b.Status != models.StatusConfirmed {
			continue
		}
		if err := r.sender.SendText(ctx, b.ChatUserID, ReminderText(b)); err != nil {
			metrics.IncNotification("reminder", "failed")
			r.log.Error().Err(err).Str("reference", b.Reference).Msg("reminder send failed")
			continue
		}
		metrics.IncNotification("reminder", "sent")
		sent++
	}

	if len(bookings) > 0 {
		r.log.Info().Str("date", tomorrow).Int("sent", sent).Msg("reminders dispatched")
	}
}

// ReminderText renders the day-before reminder.
func ReminderText(b models.Booking) string {
	text := fmt.Sprintf("Reminder: you have an appointment tomorrow (%s) at %s.", b.Date, b.Time)
	if b.Item != "" {
		text += "\nService: " + b.Item
	}
	return text
}

func (r *Reminder) untilNextHour(now time.Time) time.Duration {
	now = now.In(r.loc)
	next := time.Date(now.Year(), now.Month(), now.Day(), r.hour, 0, 0, 0, r.loc)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}
