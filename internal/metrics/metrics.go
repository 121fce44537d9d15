package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "glowslot",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by route.",
		},
		[]string{"route"},
	)

	bookingCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "glowslot",
			Name:      "booking_created_total",
			Help:      "Count of bookings created.",
		},
	)

	bookingConflict = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "glowslot",
			Name:      "booking_conflict_total",
			Help:      "Count of booking attempts that lost the slot race.",
		},
	)

	bookingCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "glowslot",
			Name:      "booking_cancelled_total",
			Help:      "Count of bookings cancelled.",
		},
	)

	closureChanged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "glowslot",
			Name:      "closure_changed_total",
			Help:      "Count of closure mutations by action.",
		},
		[]string{"action"},
	)

	notification = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "glowslot",
			Name:      "notification_total",
			Help:      "Count of outbound notifications by channel and outcome.",
		},
		[]string{"channel", "outcome"},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "glowslot",
			Name:      "availability_cache_lookups_total",
			Help:      "Count of availability cache lookups by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests, bookingCreated, bookingConflict,
			bookingCancelled, closureChanged, notification, cacheLookups,
		)
	})
}

func IncHTTP(route string) {
	httpRequests.WithLabelValues(route).Inc()
}

func IncBookingCreated() {
	bookingCreated.Inc()
}

func IncBookingConflict() {
	bookingConflict.Inc()
}

func IncBookingCancelled() {
	bookingCancelled.Inc()
}

func IncClosure(action string) {
	closureChanged.WithLabelValues(action).Inc()
}

func IncNotification(channel, outcome string) {
	notification.WithLabelValues(channel, outcome).Inc()
}

func IncCacheLookup(outcome string) {
	cacheLookups.WithLabelValues(outcome).Inc()
}
