package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics exposes request counters and latency histograms.
type HTTPMetrics struct {
	requestsTotal  *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "easyhora",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "easyhora",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.requestLatency)
	return m
}

func (m *HTTPMetrics) ObserveRequest(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestLatency.WithLabelValues(method, route).Observe(seconds)
}

// BookingMetrics counts booking attempts, status transitions and reminders.
type BookingMetrics struct {
	bookingsTotal    *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
	remindersTotal   *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "easyhora",
			Subsystem: "booking",
			Name:      "attempts_total",
			Help:      "Booking attempts by source and outcome",
		}, []string{"source", "outcome"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "easyhora",
			Subsystem: "booking",
			Name:      "transitions_total",
			Help:      "Appointment status transitions by target status and outcome",
		}, []string{"status", "outcome"}),
		remindersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "easyhora",
			Subsystem: "reminders",
			Name:      "sent_total",
			Help:      "Appointment reminders by channel and status",
		}, []string{"channel", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.transitionsTotal, m.remindersTotal)
	return m
}

func (m *BookingMetrics) ObserveBooking(source, outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(source, outcome).Inc()
}

func (m *BookingMetrics) ObserveTransition(status, outcome string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(status, outcome).Inc()
}

func (m *BookingMetrics) ObserveReminder(channel, status string) {
	if m == nil {
		return
	}
	m.remindersTotal.WithLabelValues(channel, status).Inc()
}
