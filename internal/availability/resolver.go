package availability

import (
	"context"

	"glowslot/internal/models"
	"glowslot/internal/timeslot"

	"github.com/rs/zerolog"
)

// TemplateStore reads the weekly slot template.
type TemplateStore interface {
	GetTemplate(ctx context.Context, weekday int) ([]string, error)
}

// BookingStore reads bookings for a date.
type BookingStore interface {
	ListBookingsByDate(ctx context.Context, date string) ([]models.Booking, error)
}

// ClosureStore reads closures for a date.
type ClosureStore interface {
	ListClosuresByDate(ctx context.Context, date string) ([]models.Closure, error)
}

// Result is the bookable view of one date. AllSlots is the weekday
// template unfiltered; AllDisabled is the normalized union of booking
// and closure times, reported even when a time does not belong to the
// current template so the caller can render it struck-through instead
// of hiding it.
type Result struct {
	AllSlots      []string              `json:"allSlots"`
	AllDisabled   []string              `json:"allDisabled"`
	BookedDetails []models.BookedDetail `json:"bookedDetails"`
}

// Resolver computes slot availability for a date. Read-only; store
// failures degrade to an empty result rather than an error so the
// booking form renders "no slots" instead of crashing.
type Resolver struct {
	templates TemplateStore
	bookings  BookingStore
	closures  ClosureStore
	log       zerolog.Logger
}

// New creates a resolver over the three stores.
func New(templates TemplateStore, bookings BookingStore, closures ClosureStore, log zerolog.Logger) *Resolver {
	return &Resolver{
		templates: templates,
		bookings:  bookings,
		closures:  closures,
		log:       log,
	}
}

func emptyResult() Result {
	return Result{
		AllSlots:      []string{},
		AllDisabled:   []string{},
		BookedDetails: []models.BookedDetail{},
	}
}

// Resolve returns the availability view for a "YYYY-MM-DD" date.
func (r *Resolver) Resolve(ctx context.Context, date string) Result {
	day, err := models.ParseDate(date)
	if err != nil {
		return emptyResult()
	}

	template, err := r.templates.GetTemplate(ctx, int(day.Weekday()))
	if err != nil {
		r.log.Error().Err(err).Str("date", date).Msg("template read failed")
		return emptyResult()
	}

	bookings, err := r.bookings.ListBookingsByDate(ctx, date)
	if err != nil {
		r.log.Error().Err(err).Str("date", date).Msg("bookings read failed")
		return emptyResult()
	}

	closures, err := r.closures.ListClosuresByDate(ctx, date)
	if err != nil {
		r.log.Error().Err(err).Str("date", date).Msg("closures read failed")
		return emptyResult()
	}

	occupied := make([]string, 0, len(bookings)+len(closures))
	details := make([]models.BookedDetail, 0, len(bookings))
	for _, b := range bookings {
		occupied = append(occupied, b.Time)
		details = append(details, models.BookedDetail{
			Time:    b.Time,
			Name:    b.CustomerName,
			Contact: b.CustomerContact,
			Item:    b.Item,
		})
	}
	for _, c := range closures {
		occupied = append(occupied, c.Time)
	}

	result := Result{
		AllSlots:      template,
		AllDisabled:   timeslot.NormalizeAll(occupied),
		BookedDetails: details,
	}
	if result.AllSlots == nil {
		result.AllSlots = []string{}
	}
	return result
}
