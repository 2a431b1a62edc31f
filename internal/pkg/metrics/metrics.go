package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "slot_engine"

const (
	ExpirySourceLazy    = "lazy"
	ExpirySourceSweeper = "sweeper"
)

// Metrics groups the engine's collectors. A nil *Metrics is a valid no-op
// so use cases can be built without a registry in tests.
type Metrics struct {
	holdsPlaced     prometheus.Counter
	holdsExpired    *prometheus.CounterVec
	transitions     *prometheus.CounterVec
	generated       *prometheus.CounterVec
	dayBookings     *prometheus.CounterVec
	notifications   *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	sweeperDuration prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		holdsPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "holds_placed_total",
			Help:      "Holds placed on available slots.",
		}),
		holdsExpired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "holds_expired_total",
			Help:      "Stale holds reverted to available, by detection path.",
		}, []string{"source"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_transitions_total",
			Help:      "Slot status transitions by target status.",
		}, []string{"to"}),
		generated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generated_slots_total",
			Help:      "Bulk generation candidates by outcome.",
		}, []string{"outcome"}),
		dayBookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "day_bookings_total",
			Help:      "Per-day booking attempts by outcome.",
		}, []string{"outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "waitlist_notifications_total",
			Help:      "Waitlist notifications handed to the notification channel.",
		}, []string{"outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		sweeperDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweeper_run_duration_seconds",
			Help:      "Duration of one expiry sweep.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.holdsPlaced,
			m.holdsExpired,
			m.transitions,
			m.generated,
			m.dayBookings,
			m.notifications,
			m.httpRequests,
			m.httpDuration,
			m.sweeperDuration,
		)
	}
	return m
}

func (m *Metrics) HoldPlaced() {
	if m == nil {
		return
	}
	m.holdsPlaced.Inc()
}

func (m *Metrics) HoldExpired(source string) {
	if m == nil {
		return
	}
	m.holdsExpired.WithLabelValues(source).Inc()
}

func (m *Metrics) Transition(to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(to).Inc()
}

func (m *Metrics) Generated(created, skipped int) {
	if m == nil {
		return
	}
	m.generated.WithLabelValues("created").Add(float64(created))
	m.generated.WithLabelValues("skipped").Add(float64(skipped))
}

func (m *Metrics) DayBooking(outcome string) {
	if m == nil {
		return
	}
	m.dayBookings.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Notification(outcome string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveSweep(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.sweeperDuration.Observe(elapsed.Seconds())
}
