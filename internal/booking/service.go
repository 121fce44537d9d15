package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"glowslot/internal/database"
	"glowslot/internal/events"
	"glowslot/internal/metrics"
	"glowslot/internal/models"
	"glowslot/internal/timeslot"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrSlotBooked is returned when the admin tries to close a slot that
// already has a customer booking. The booking must be cancelled first;
// a slot is never both booked and closed.
var ErrSlotBooked = errors.New("slot has an active booking")

// ValidationError marks a rejected input with the offending field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// IsValidation reports whether err is a validation rejection.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Store is the mutation surface the service needs from the database.
type Store interface {
	InsertBooking(ctx context.Context, b *models.Booking) error
	DeleteBooking(ctx context.Context, date, tm string) (int64, error)
	HasBooking(ctx context.Context, date, tm string) (bool, error)
	InsertClosure(ctx context.Context, date, tm string) error
	DeleteClosure(ctx context.Context, date, tm string) (int64, error)
	ClosureExists(ctx context.Context, date, tm string) (bool, error)
	UpsertTemplate(ctx context.Context, weekday int, slots []string) error
	ListTemplates(ctx context.Context) ([]models.WeekdayTemplate, error)
}

// Invalidator drops cached availability after a mutation. Booking and
// closure writes invalidate their date; a template edit changes every
// date of that weekday, so it flushes wholesale. A nil invalidator is a
// no-op.
type Invalidator interface {
	Invalidate(ctx context.Context, date string)
	InvalidateAll(ctx context.Context)
}

// Rules bound how far ahead customers may book. Zero MaxAdvance means
// no upper bound.
type Rules struct {
	MaxAdvance time.Duration
}

// Service implements the booking and closure mutators. All writes go
// through the store's uniqueness constraint; the service adds input
// validation, the booked-vs-closed policy, cache invalidation and the
// post-commit booking event.
type Service struct {
	store Store
	bus   *events.Bus
	cache Invalidator
	loc   *time.Location
	rules Rules
	log   zerolog.Logger
}

// New creates the service. loc is the business timezone used for every
// "today" derivation; bus and cache may be nil.
func New(store Store, bus *events.Bus, cache Invalidator, loc *time.Location, rules Rules, log zerolog.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		store: store,
		bus:   bus,
		cache: cache,
		loc:   loc,
		rules: rules,
		log:   log,
	}
}

// CreateRequest carries a customer booking submission.
type CreateRequest struct {
	Date       string
	Time       string
	Name       string
	Contact    string
	Item       string
	ChatUserID string
}

// Create inserts a booking for a free slot. A lost race surfaces as
// database.ErrSlotTaken; the caller maps it to a conflict and must
// re-fetch availability before retrying. On success a BookingCreated
// event is published; its consumers never affect the result.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Booking, error) {
	day, err := models.ParseDate(req.Date)
	if err != nil {
		return nil, &ValidationError{Field: "date", Msg: "expected YYYY-MM-DD"}
	}
	tm, err := timeslot.Normalize(req.Time)
	if err != nil {
		return nil, &ValidationError{Field: "time", Msg: "expected HH:MM"}
	}
	if req.Name == "" {
		return nil, &ValidationError{Field: "name", Msg: "required"}
	}

	if err := s.checkWindow(day); err != nil {
		return nil, err
	}

	// Mirror of the SetClosure policy: a slot is never both booked and
	// closed. The insert constraint below still arbitrates races between
	// bookings; this check only covers the closure direction.
	closed, err := s.store.ClosureExists(ctx, req.Date, tm)
	if err != nil {
		return nil, err
	}
	if closed {
		metrics.IncBookingConflict()
		return nil, database.ErrSlotTaken
	}

	b := &models.Booking{
		Date:            req.Date,
		Time:            tm,
		CustomerName:    req.Name,
		CustomerContact: req.Contact,
		Item:            req.Item,
		ChatUserID:      req.ChatUserID,
		Reference:       uuid.NewString(),
		Status:          models.StatusConfirmed,
	}

	if err := s.store.InsertBooking(ctx, b); err != nil {
		if errors.Is(err, database.ErrSlotTaken) {
			metrics.IncBookingConflict()
			return nil, err
		}
		return nil, err
	}

	metrics.IncBookingCreated()
	s.invalidate(ctx, b.Date)
	s.log.Info().
		Str("date", b.Date).
		Str("time", b.Time).
		Str("reference", b.Reference).
		Msg("booking created")

	if s.bus != nil {
		s.bus.Publish(ctx, events.BookingCreated{Booking: *b})
	}
	return b, nil
}

// Cancel removes the booking at (date, time). Idempotent: cancelling a
// slot with no booking succeeds.
func (s *Service) Cancel(ctx context.Context, date, tm string) error {
	if _, err := models.ParseDate(date); err != nil {
		return &ValidationError{Field: "date", Msg: "expected YYYY-MM-DD"}
	}
	if _, err := timeslot.Normalize(tm); err != nil {
		return &ValidationError{Field: "time", Msg: "expected HH:MM"}
	}

	n, err := s.store.DeleteBooking(ctx, date, tm)
	if err != nil {
		return err
	}
	if n > 0 {
		metrics.IncBookingCancelled()
		s.invalidate(ctx, date)
		s.log.Info().Str("date", date).Str("time", tm).Msg("booking cancelled")
	}
	return nil
}

// SetClosure blocks a slot. Closing a slot that holds a booking is
// rejected with ErrSlotBooked; closing an already closed slot is a
// no-op.
func (s *Service) SetClosure(ctx context.Context, date, tm string) error {
	if _, err := models.ParseDate(date); err != nil {
		return &ValidationError{Field: "date", Msg: "expected YYYY-MM-DD"}
	}
	if _, err := timeslot.Normalize(tm); err != nil {
		return &ValidationError{Field: "time", Msg: "expected HH:MM"}
	}

	booked, err := s.store.HasBooking(ctx, date, tm)
	if err != nil {
		return err
	}
	if booked {
		return ErrSlotBooked
	}

	err = s.store.InsertClosure(ctx, date, tm)
	if errors.Is(err, database.ErrSlotTaken) {
		return nil
	}
	if err != nil {
		return err
	}

	metrics.IncClosure("set")
	s.invalidate(ctx, date)
	s.log.Info().Str("date", date).Str("time", tm).Msg("slot closed")
	return nil
}

// ClearClosure reopens a slot. Idempotent.
func (s *Service) ClearClosure(ctx context.Context, date, tm string) error {
	if _, err := models.ParseDate(date); err != nil {
		return &ValidationError{Field: "date", Msg: "expected YYYY-MM-DD"}
	}
	if _, err := timeslot.Normalize(tm); err != nil {
		return &ValidationError{Field: "time", Msg: "expected HH:MM"}
	}

	n, err := s.store.DeleteClosure(ctx, date, tm)
	if err != nil {
		return err
	}
	if n > 0 {
		metrics.IncClosure("cleared")
		s.invalidate(ctx, date)
		s.log.Info().Str("date", date).Str("time", tm).Msg("slot reopened")
	}
	return nil
}

// ToggleClosure flips the closure state of a slot and reports the new
// state (true = closed).
func (s *Service) ToggleClosure(ctx context.Context, date, tm string) (bool, error) {
	if _, err := models.ParseDate(date); err != nil {
		return false, &ValidationError{Field: "date", Msg: "expected YYYY-MM-DD"}
	}
	if _, err := timeslot.Normalize(tm); err != nil {
		return false, &ValidationError{Field: "time", Msg: "expected HH:MM"}
	}

	closed, err := s.store.ClosureExists(ctx, date, tm)
	if err != nil {
		return false, err
	}
	if closed {
		return false, s.ClearClosure(ctx, date, tm)
	}
	return true, s.SetClosure(ctx, date, tm)
}

// SetTemplate validates and upserts the slot list for a weekday.
func (s *Service) SetTemplate(ctx context.Context, weekday int, slots []string) error {
	if !models.ValidWeekday(weekday) {
		return &ValidationError{Field: "weekday", Msg: "expected 0-6 (Sunday=0)"}
	}
	normalized, err := timeslot.ParseList(slots)
	if err != nil {
		return &ValidationError{Field: "slots", Msg: err.Error()}
	}

	if err := s.store.UpsertTemplate(ctx, weekday, normalized); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.InvalidateAll(ctx)
	}
	s.log.Info().Int("weekday", weekday).Int("slots", len(normalized)).Msg("template updated")
	return nil
}

// Templates lists all weekday templates.
func (s *Service) Templates(ctx context.Context) ([]models.WeekdayTemplate, error) {
	return s.store.ListTemplates(ctx)
}

// checkWindow rejects dates outside [today, today+MaxAdvance] in the
// business timezone.
func (s *Service) checkWindow(day time.Time) error {
	now := time.Now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if day.Before(today) {
		return &ValidationError{Field: "date", Msg: "date is in the past"}
	}
	if s.rules.MaxAdvance > 0 && day.Sub(today) > s.rules.MaxAdvance {
		return &ValidationError{Field: "date", Msg: "date is too far ahead"}
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, date string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, date)
	}
}
