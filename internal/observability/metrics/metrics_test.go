package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBookingMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.ObserveSlotsGenerated("appointment", 5)
	m.ObserveSlotsGenerated("appointment", 0)
	m.ObserveValidation("appointment", true)
	m.ObserveValidation("block", false)
	m.ObserveValidation("block", false)
	m.ObserveCommit("block", "create")
	m.ObserveDigest("sent")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.slotsGenerated.WithLabelValues("appointment")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validations.WithLabelValues("appointment", "accepted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.validations.WithLabelValues("block", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commits.WithLabelValues("block", "create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.digests.WithLabelValues("sent")))
}

func TestHTTPMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("/api/professionals/{id}/slots", 200, 0.01)
	m.ObserveRequest("/api/professionals/{id}/slots", 400, 0.02)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/professionals/{id}/slots", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/professionals/{id}/slots", "400")))
}

func TestMetricsNilSafe(t *testing.T) {
	var b *BookingMetrics
	b.ObserveSlotsGenerated("appointment", 3)
	b.ObserveValidation("block", true)
	b.ObserveCommit("appointment", "update")
	b.ObserveDigest("failed")

	var h *HTTPMetrics
	h.ObserveRequest("/healthz", 200, 0.001)
}
