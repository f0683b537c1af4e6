package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so tests can build as many as they like.
type Metrics struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	gateDecisions *prometheus.CounterVec
	exports       *prometheus.CounterVec
	validations   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "freight_desk",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		gateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "freight_desk",
			Name:      "session_gate_decisions_total",
			Help:      "Session gate routing decisions by outcome.",
		}, []string{"outcome"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "freight_desk",
			Name:      "exports_total",
			Help:      "Generated export documents by format.",
		}, []string{"format"}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "freight_desk",
			Name:      "form_validations_total",
			Help:      "Form validations by schema and result.",
		}, []string{"schema", "result"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.gateDecisions,
		m.exports,
		m.validations,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveRequest(method, route, status string) {
	m.requests.WithLabelValues(method, route, status).Inc()
}

func (m *Metrics) ObserveGateDecision(ok bool, redirect string) {
	outcome := "allowed"
	if !ok {
		outcome = redirect
	}
	m.gateDecisions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveExport(format string) {
	m.exports.WithLabelValues(format).Inc()
}

func (m *Metrics) ObserveValidation(schema string, valid bool) {
	result := "valid"
	if !valid {
		result = "invalid"
	}
	m.validations.WithLabelValues(schema, result).Inc()
}
