package metrics

import "github.com/prometheus/client_golang/prometheus"

// Check outcomes recorded by the attendance handler.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
	OutcomeInvalid  = "invalid"
	OutcomeAborted  = "aborted"
)

// Metrics holds the application-level Prometheus collectors.
type Metrics struct {
	checks *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "attendance",
			Name:      "checks_total",
			Help:      "Attendance check submissions by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.checks)
	return m
}

// RecordCheck counts one submission with the given outcome.
func (m *Metrics) RecordCheck(outcome string) {
	if m == nil {
		return
	}
	m.checks.WithLabelValues(outcome).Inc()
}
