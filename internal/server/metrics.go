package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pakrecharge/topup/internal/form"
	"github.com/pakrecharge/topup/internal/topup"
)

const metricsNamespace = "pakrecharge"

// Outcome label values
const (
	outcomeSucceeded = "succeeded"
	outcomeFailed    = "failed"
	outcomeInvalid   = "invalid"
)

// Metrics holds the server's collectors. It implements form.Observer so
// every session and API submission reports through the same counters.
type Metrics struct {
	registry *prometheus.Registry

	Submissions      *prometheus.CounterVec
	ValidationErrors *prometheus.CounterVec
	PaymentDuration  prometheus.Histogram
	ActiveSessions   prometheus.Gauge
	Requests         *prometheus.CounterVec
}

// NewMetrics creates collectors on a private registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "submissions_total",
			Help:      "Top-up submissions by outcome.",
		}, []string{"outcome"}),
		ValidationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "validation_errors_total",
			Help:      "Validation errors raised on submit, by field.",
		}, []string{"field"}),
		PaymentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "payment_duration_seconds",
			Help:      "Time spent in the payment call.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 3, 5, 10},
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "active_sessions",
			Help:      "Open websocket form sessions.",
		}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}

	m.registry.MustRegister(
		m.Submissions,
		m.ValidationErrors,
		m.PaymentDuration,
		m.ActiveSessions,
		m.Requests,
		prometheus.NewGoCollector(),
	)
	return m
}

// Invalid implements form.Observer
func (m *Metrics) Invalid(errs topup.ValidationErrors) {
	m.Submissions.WithLabelValues(outcomeInvalid).Inc()
	for _, e := range errs {
		m.ValidationErrors.WithLabelValues(string(e.Field)).Inc()
	}
}

// Completed implements form.Observer
func (m *Metrics) Completed(out *form.Outcome) {
	if out.Succeeded() {
		m.Submissions.WithLabelValues(outcomeSucceeded).Inc()
	} else {
		m.Submissions.WithLabelValues(outcomeFailed).Inc()
	}
	m.PaymentDuration.Observe(out.Elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the registry for gathering in tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
