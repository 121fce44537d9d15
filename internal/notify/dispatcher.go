package notify

import (
	"context"
	"fmt"

	"glowslot/internal/events"
	"glowslot/internal/metrics"
	"glowslot/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// TextSender pushes a text message to one chat recipient.
type TextSender interface {
	SendText(ctx context.Context, to, text string) error
}

// Alerter broadcasts a text message to the admin channel.
type Alerter interface {
	Alert(ctx context.Context, text string) error
}

// Dispatcher consumes booking events and sends best-effort
// notifications: a confirmation to the customer's chat and an alert to
// the admins. Failures are logged and counted, never propagated; a
// full queue drops the event rather than blocking the booking request.
type Dispatcher struct {
	customer TextSender
	admin    Alerter
	limiter  *rate.Limiter
	queue    chan events.BookingCreated
	log      zerolog.Logger
}

// NewDispatcher creates a dispatcher. customer and admin may each be
// nil to disable that channel.
func NewDispatcher(customer TextSender, admin Alerter, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		customer: customer,
		admin:    admin,
		limiter:  rate.NewLimiter(rate.Limit(5), 10),
		queue:    make(chan events.BookingCreated, 256),
		log:      log,
	}
}

// HandleBookingCreated is the bus subscription: enqueue without
// blocking the write path.
func (d *Dispatcher) HandleBookingCreated(_ context.Context, ev events.BookingCreated) {
	select {
	case d.queue <- ev:
	default:
		metrics.IncNotification("queue", "dropped")
		d.log.Warn().Str("reference", ev.Booking.Reference).Msg("notification queue full, event dropped")
	}
}

// Run drains the queue until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-d.queue:
			if err := d.limiter.Wait(ctx); err != nil {
				return
			}
			d.dispatch(ctx, ev.Booking)
		}
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, b models.Booking) {
	if d.customer != nil && b.ChatUserID != "" {
		if err := d.customer.SendText(ctx, b.ChatUserID, ConfirmationText(b)); err != nil {
			metrics.IncNotification("line", "failed")
			d.log.Error().Err(err).Str("reference", b.Reference).Msg("customer notification failed")
		} else {
			metrics.IncNotification("line", "sent")
		}
	}

	if d.admin != nil {
		if err := d.admin.Alert(ctx, AdminAlertText(b)); err != nil {
			metrics.IncNotification("telegram", "failed")
			d.log.Error().Err(err).Str("reference", b.Reference).Msg("admin alert failed")
		} else {
			metrics.IncNotification("telegram", "sent")
		}
	}
}

// ConfirmationText renders the customer-facing booking summary.
func ConfirmationText(b models.Booking) string {
	text := fmt.Sprintf("Your appointment is confirmed!\nDate: %s\nTime: %s", b.Date, b.Time)
	if b.Item != "" {
		text += "\nService: " + b.Item
	}
	return text + "\nReference: " + b.Reference
}

// AdminAlertText renders the admin-facing booking summary.
func AdminAlertText(b models.Booking) string {
	text := fmt.Sprintf("New booking: %s %s, %s", b.Date, b.Time, b.CustomerName)
	if b.Item != "" {
		text += " (" + b.Item + ")"
	}
	if b.CustomerContact != "" {
		text += ", " + b.CustomerContact
	}
	return text
}
