package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// BookingMetrics счётчики генерации слотов, проверок и сохранений
type BookingMetrics struct {
	slotsGenerated *prometheus.CounterVec
	slotsOffered   *prometheus.HistogramVec
	validations    *prometheus.CounterVec
	commits        *prometheus.CounterVec
	digests        *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		slotsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "booking",
			Name:      "slot_generations_total",
			Help:      "Total slot list generations",
		}, []string{"kind"}),
		slotsOffered: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agenda",
			Subsystem: "booking",
			Name:      "slots_offered",
			Help:      "Number of slots offered per generation",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32},
		}, []string{"kind"}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "booking",
			Name:      "validations_total",
			Help:      "Slot validations by outcome",
		}, []string{"kind", "outcome"}),
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "booking",
			Name:      "commits_total",
			Help:      "Persisted appointments and blocks",
		}, []string{"kind", "op"}),
		digests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "digest",
			Name:      "sent_total",
			Help:      "Daily agenda digests by status",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.slotsGenerated, m.slotsOffered, m.validations, m.commits, m.digests)
	return m
}

func (m *BookingMetrics) ObserveSlotsGenerated(kind string, count int) {
	if m == nil {
		return
	}
	m.slotsGenerated.WithLabelValues(kind).Inc()
	m.slotsOffered.WithLabelValues(kind).Observe(float64(count))
}

func (m *BookingMetrics) ObserveValidation(kind string, accepted bool) {
	if m == nil {
		return
	}
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	m.validations.WithLabelValues(kind, outcome).Inc()
}

// ObserveCommit op: create, update, cancel, delete
func (m *BookingMetrics) ObserveCommit(kind, op string) {
	if m == nil {
		return
	}
	m.commits.WithLabelValues(kind, op).Inc()
}

func (m *BookingMetrics) ObserveDigest(status string) {
	if m == nil {
		return
	}
	m.digests.WithLabelValues(status).Inc()
}

// HTTPMetrics запросы к API доступности
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agenda",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requests, m.latency)
	return m
}

func (m *HTTPMetrics) ObserveRequest(route string, code int, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.latency.WithLabelValues(route).Observe(seconds)
}
