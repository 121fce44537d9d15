package events

import (
	"context"
	"testing"

	"glowslot/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestBusPublishReachesAllSubscribers(t *testing.T) {
	bus := NewBus()

	var got []string
	bus.Subscribe(func(_ context.Context, ev BookingCreated) {
		got = append(got, "first:"+ev.Booking.Reference)
	})
	bus.Subscribe(func(_ context.Context, ev BookingCreated) {
		got = append(got, "second:"+ev.Booking.Reference)
	})

	bus.Publish(context.Background(), BookingCreated{
		Booking: models.Booking{Reference: "abc"},
	})

	assert.Equal(t, []string{"first:abc", "second:abc"}, got)
}

func TestBusPublishSetsCreatedAt(t *testing.T) {
	bus := NewBus()

	var ev BookingCreated
	bus.Subscribe(func(_ context.Context, e BookingCreated) { ev = e })
	bus.Publish(context.Background(), BookingCreated{})

	assert.False(t, ev.CreatedAt.IsZero())
}

func TestBusPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	// Must not panic.
	bus.Publish(context.Background(), BookingCreated{})
}
