package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// failure reasons used as the "reason" label
const (
	failureConfiguration = "configuration"
	failureStateMismatch = "state_mismatch"
	failureMissingCode   = "missing_code"
	failureSessionStore  = "session_store"
)

// flowMetrics uses its own registry so several servers can live in one process
type flowMetrics struct {
	registry  *prometheus.Registry
	started   prometheus.Counter
	completed prometheus.Counter
	failed    *prometheus.CounterVec
}

func newFlowMetrics() *flowMetrics {
	m := &flowMetrics{
		registry: prometheus.NewRegistry(),
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pkce_flows_started_total",
			Help: "Authorization flows redirected to the provider.",
		}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pkce_flows_completed_total",
			Help: "Callbacks that returned an authorization code and verifier.",
		}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pkce_flows_failed_total",
			Help: "Flow requests rejected, by reason.",
		}, []string{"reason"}),
	}
	m.registry.MustRegister(
		m.started,
		m.completed,
		m.failed,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *flowMetrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
