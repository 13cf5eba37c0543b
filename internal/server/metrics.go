package server

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rocketship-ai/scriptrunner/internal/runner"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ExecutionsTotal    *prometheus.CounterVec
	ExecutionDuration  *prometheus.HistogramVec
	ExecutionsInFlight prometheus.Gauge
	ValidationsTotal   *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scriptrunner_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scriptrunner_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		ExecutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scriptrunner_executions_total",
				Help: "Total number of script executions by outcome",
			},
			[]string{"outcome"},
		),
		ExecutionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scriptrunner_execution_duration_seconds",
				Help:    "Script execution wall-clock duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
			},
			[]string{"outcome"},
		),
		ExecutionsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "scriptrunner_executions_in_flight",
				Help: "Number of scripts currently running",
			},
		),
		ValidationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scriptrunner_validations_total",
				Help: "Total number of syntax validations by outcome",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ExecutionsTotal,
		m.ExecutionDuration,
		m.ExecutionsInFlight,
		m.ValidationsTotal,
	)
	return m
}

func (m *Metrics) observeExecution(res runner.Result) {
	outcome := kindLabel(res.Kind)
	m.ExecutionsTotal.WithLabelValues(outcome).Inc()
	m.ExecutionDuration.WithLabelValues(outcome).Observe(res.Duration.Seconds())
}

func kindLabel(kind runner.Kind) string {
	if kind == runner.KindNone {
		return "success"
	}
	return string(kind)
}
