package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for API calls and the selection workflow.
type Metrics struct {
	// API client metrics.
	APIRequests *prometheus.CounterVec   // labels: endpoint={search,reverse,forecast,locate}, outcome={success,error,empty}
	APIDuration *prometheus.HistogramVec // labels: endpoint

	// Workflow metrics.
	Transitions *prometheus.CounterVec // labels: state
	Refreshes   *prometheus.CounterVec // labels: trigger={manual,visibility,timer}, outcome={success,error,initial,skipped}
	StaleDrops  *prometheus.CounterVec // labels: operation={search,select,refresh,initial}
}

// NewMetrics creates all collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.APIRequests,
		m.APIDuration,
		m.Transitions,
		m.Refreshes,
		m.StaleDrops,
	)
	return m
}

// NewMetricsForTesting creates unregistered collectors so tests can build
// as many as they need without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wx",
			Name:      "api_requests_total",
			Help:      "Remote API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		APIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wx",
			Name:      "api_request_duration_seconds",
			Help:      "Remote API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wx",
			Name:      "workflow_transitions_total",
			Help:      "Selection workflow state transitions by target state.",
		}, []string{"state"}),
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wx",
			Name:      "refreshes_total",
			Help:      "Weather refreshes by trigger and outcome.",
		}, []string{"trigger", "outcome"}),
		StaleDrops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wx",
			Name:      "stale_responses_total",
			Help:      "Responses discarded because a newer operation superseded them.",
		}, []string{"operation"}),
	}
}
