package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "slotwise"

// Metrics exposes counters and histograms for the scheduling core. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	availabilityChecks *prometheus.CounterVec
	slotsReturned      prometheus.Histogram
	bookingOutcomes    *prometheus.CounterVec
	txLatency          *prometheus.HistogramVec
	eventsPublished    *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
	httpLatency        *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		availabilityChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "availability",
			Name:      "checks_total",
			Help:      "Availability evaluations by outcome reason",
		}, []string{"reason"}),
		slotsReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "availability",
			Name:      "slots_returned",
			Help:      "Number of slots returned per enumeration",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20},
		}),
		bookingOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "operations_total",
			Help:      "Booking coordinator operations by operation and outcome",
		}, []string{"operation", "outcome"}),
		txLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "transaction_seconds",
			Help:      "Latency of booking transactions",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Booking lifecycle events delivered to sinks",
		}, []string{"kind", "sink", "status"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	reg.MustRegister(
		m.availabilityChecks,
		m.slotsReturned,
		m.bookingOutcomes,
		m.txLatency,
		m.eventsPublished,
		m.httpRequests,
		m.httpLatency,
	)

	return m
}

func (m *Metrics) ObserveAvailability(reason string) {
	if m == nil {
		return
	}

	m.availabilityChecks.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveSlots(count int) {
	if m == nil {
		return
	}

	m.slotsReturned.Observe(float64(count))
}

func (m *Metrics) ObserveBooking(operation, outcome string) {
	if m == nil {
		return
	}

	m.bookingOutcomes.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) ObserveTransaction(operation string, seconds float64) {
	if m == nil {
		return
	}

	m.txLatency.WithLabelValues(operation).Observe(seconds)
}

func (m *Metrics) ObserveEvent(kind, sink string, delivered bool) {
	if m == nil {
		return
	}

	status := "delivered"
	if !delivered {
		status = "failed"
	}

	m.eventsPublished.WithLabelValues(kind, sink, status).Inc()
}

func (m *Metrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m == nil {
		return
	}

	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(seconds)
}
