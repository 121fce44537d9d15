package events

import (
	"context"
	"sync"
	"time"

	"glowslot/internal/models"
)

// BookingCreated is emitted after a booking row has been committed.
// Consumers must treat delivery as best-effort: a failed or dropped
// event never affects the booking itself.
type BookingCreated struct {
	Booking   models.Booking
	CreatedAt time.Time
}

// Handler reacts to a booking-created event.
type Handler func(ctx context.Context, ev BookingCreated)

// Bus provides in-process pub/sub for booking events.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish notifies subscribers. Handlers run synchronously on the
// caller's goroutine; handlers that do slow work must hand off
// internally.
func (b *Bus) Publish(ctx context.Context, ev BookingCreated) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers...)
	b.mu.RUnlock()

	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}

	for _, h := range handlers {
		h(ctx, ev)
	}
}
