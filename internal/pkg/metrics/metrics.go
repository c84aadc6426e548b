package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects the service's Prometheus instruments.
//
// Instruments are registered against the Registerer passed to NewMetrics so tests
// can use an isolated prometheus.NewRegistry().
type Metrics struct {
	// TransitionCounter counts authorization request state transitions.
	// Labels: from, to, channel (initiator|push|popup|poller|status)
	TransitionCounter *prometheus.CounterVec

	// PollOutcomeCounter counts finished CompletionPoller runs.
	// Labels: outcome (completed|rejected|expired|timed_out|not_found|canceled|error)
	PollOutcomeCounter *prometheus.CounterVec

	// PollAttempts observes how many polls a run needed before it finished.
	PollAttempts prometheus.Histogram

	// CompletionCounter counts side effect executions.
	// Labels: status (applied|replayed|error)
	CompletionCounter *prometheus.CounterVec

	// HTTPRequestDuration measures HTTP API request latency.
	// Labels: method, path, status_code
	HTTPRequestDuration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TransitionCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_authorization_transitions_total",
				Help: "Total number of authorization request state transitions",
			},
			[]string{"from", "to", "channel"},
		),

		PollOutcomeCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_poll_outcomes_total",
				Help: "Total number of completion poller runs by outcome",
			},
			[]string{"outcome"},
		),

		PollAttempts: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "checkout_poll_attempts",
				Help:    "Number of polls performed per completion poller run",
				Buckets: []float64{1, 2, 3, 5, 10, 20, 40, 60},
			},
		),

		CompletionCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_completions_total",
				Help: "Total number of approved checkout side effect executions by status",
			},
			[]string{"status"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "checkout_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"method", "path", "status_code"},
		),
	}
}

// RecordTransition records a state change of an authorization request.
func (m *Metrics) RecordTransition(from, to, channel string) {
	if m == nil {
		return
	}
	m.TransitionCounter.WithLabelValues(from, to, channel).Inc()
}

// RecordPollOutcome records a finished poller run.
func (m *Metrics) RecordPollOutcome(outcome string, attempts int) {
	if m == nil {
		return
	}
	m.PollOutcomeCounter.WithLabelValues(outcome).Inc()
	m.PollAttempts.Observe(float64(attempts))
}

func (m *Metrics) RecordCompletion(status string) {
	if m == nil {
		return
	}
	m.CompletionCounter.WithLabelValues(status).Inc()
}
