package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"glowslot/internal/events"
	"glowslot/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingSender struct {
	mu   sync.Mutex
	sent []string
	err  error
	done chan struct{}
}

func newCapturingSender() *capturingSender {
	return &capturingSender{done: make(chan struct{}, 16)}
}

func (c *capturingSender) SendText(_ context.Context, to, text string) error {
	c.mu.Lock()
	c.sent = append(c.sent, to+": "+text)
	c.mu.Unlock()
	c.done <- struct{}{}
	return c.err
}

func (c *capturingSender) wait(t *testing.T) {
	t.Helper()
	select {
	case <-c.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for dispatch")
	}
}

type capturingAlerter struct {
	mu     sync.Mutex
	alerts []string
	err    error
	done   chan struct{}
}

func newCapturingAlerter() *capturingAlerter {
	return &capturingAlerter{done: make(chan struct{}, 16)}
}

func (c *capturingAlerter) Alert(_ context.Context, text string) error {
	c.mu.Lock()
	c.alerts = append(c.alerts, text)
	c.mu.Unlock()
	c.done <- struct{}{}
	return c.err
}

func (c *capturingAlerter) wait(t *testing.T) {
	t.Helper()
	select {
	case <-c.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for dispatch")
	}
}

func testBooking() models.Booking {
	return models.Booking{
		Date: "2025-06-04", Time: "13:00",
		CustomerName: "Mei", CustomerContact: "0912",
		Item: "gel", ChatUserID: "U123", Reference: "ref-1",
	}
}

func TestDispatcherSendsBothChannels(t *testing.T) {
	sender := newCapturingSender()
	alerter := newCapturingAlerter()
	d := NewDispatcher(sender, alerter, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	d.HandleBookingCreated(ctx, events.BookingCreated{Booking: testBooking()})

	sender.wait(t)
	alerter.wait(t)

	sender.mu.Lock()
	defer sender.mu.Unlock()
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "U123: ")
	assert.Contains(t, sender.sent[0], "2025-06-04")
	assert.Contains(t, sender.sent[0], "13:00")
	assert.Contains(t, sender.sent[0], "ref-1")

	alerter.mu.Lock()
	defer alerter.mu.Unlock()
	require.Len(t, alerter.alerts, 1)
	assert.Contains(t, alerter.alerts[0], "Mei")
}

func TestDispatcherSkipsCustomerWithoutChatID(t *testing.T) {
	sender := newCapturingSender()
	alerter := newCapturingAlerter()
	d := NewDispatcher(sender, alerter, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	b := testBooking()
	b.ChatUserID = ""
	d.HandleBookingCreated(ctx, events.BookingCreated{Booking: b})

	alerter.wait(t)
	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Empty(t, sender.sent)
}

func TestDispatcherSwallowsSendFailures(t *testing.T) {
	sender := newCapturingSender()
	sender.err = errors.New("line down")
	alerter := newCapturingAlerter()
	d := NewDispatcher(sender, alerter, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	d.HandleBookingCreated(ctx, events.BookingCreated{Booking: testBooking()})

	// A failed customer send must not stop the admin alert.
	sender.wait(t)
	alerter.wait(t)
}

func TestDispatcherNilChannels(t *testing.T) {
	d := NewDispatcher(nil, nil, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	// Must not panic.
	d.HandleBookingCreated(ctx, events.BookingCreated{Booking: testBooking()})
	time.Sleep(50 * time.Millisecond)
}

func TestDispatcherFullQueueDropsEvent(t *testing.T) {
	d := NewDispatcher(newCapturingSender(), nil, zerolog.Nop())
	// Run is never started: the queue fills and further events drop
	// instead of blocking.
	for i := 0; i < 300; i++ {
		d.HandleBookingCreated(context.Background(), events.BookingCreated{Booking: testBooking()})
	}
}

func TestConfirmationText(t *testing.T) {
	text := ConfirmationText(testBooking())
	assert.Contains(t, text, "2025-06-04")
	assert.Contains(t, text, "13:00")
	assert.Contains(t, text, "gel")
	assert.Contains(t, text, "ref-1")

	b := testBooking()
	b.Item = ""
	assert.NotContains(t, ConfirmationText(b), "Service:")
}

func TestAdminAlertText(t *testing.T) {
	text := AdminAlertText(testBooking())
	assert.Contains(t, text, "Mei")
	assert.Contains(t, text, "0912")
	assert.Contains(t, text, "gel")
}
