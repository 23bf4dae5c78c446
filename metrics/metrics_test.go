package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBookingMetricsCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.ObserveBooking("public", "created")
	m.ObserveBooking("public", "created")
	m.ObserveBooking("dashboard", "slot_occupied")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookingsTotal.WithLabelValues("public", "created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingsTotal.WithLabelValues("dashboard", "slot_occupied")))
}

func TestHTTPMetricsCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.ObserveRequest("GET", "/api/clients", 200, 0.01)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/api/clients", "200")))
}

func TestMetricsNilSafe(t *testing.T) {
	var h *HTTPMetrics
	h.ObserveRequest("GET", "/", 200, 0.1)

	var b *BookingMetrics
	b.ObserveBooking("public", "created")
	b.ObserveTransition("completed", "ok")
	b.ObserveReminder("sms", "sent")
}
