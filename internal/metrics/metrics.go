// Package metrics counts agent activity for the Prometheus /metrics
// endpoint. All methods are safe on a nil *Recorder, so callers that run
// without a registry (the chat REPL, most tests) pass nil and skip the
// bookkeeping entirely.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels shared across counters.
const (
	OutcomeOK        = "ok"
	OutcomeError     = "error"
	OutcomeNoResult  = "no_result"
	OutcomeTurnLimit = "turn_limit"
)

// Recorder holds the counters the agent loop increments.
type Recorder struct {
	queries        *prometheus.CounterVec
	modelCalls     *prometheus.CounterVec
	toolExecutions *prometheus.CounterVec
	clarifications prometheus.Counter
}

// NewRecorder registers the agent counters on registry and returns a
// Recorder bound to them. A nil registry yields a nil (no-op) Recorder.
func NewRecorder(registry *prometheus.Registry) *Recorder {
	if registry == nil {
		return nil
	}

	r := &Recorder{
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockagent_queries_total",
				Help: "Total number of queries processed by outcome",
			},
			[]string{"outcome"},
		),
		modelCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockagent_model_calls_total",
				Help: "Total number of model completion calls by outcome",
			},
			[]string{"outcome"},
		),
		toolExecutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockagent_tool_executions_total",
				Help: "Total number of tool executions by tool name and outcome",
			},
			[]string{"tool", "outcome"},
		),
		clarifications: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "stockagent_clarifications_total",
				Help: "Total number of clarification questions posed to the user",
			},
		),
	}

	registry.MustRegister(
		r.queries,
		r.modelCalls,
		r.toolExecutions,
		r.clarifications,
	)

	return r
}

// QueryProcessed records the terminal outcome of one ProcessQuery call.
func (r *Recorder) QueryProcessed(outcome string) {
	if r != nil && r.queries != nil {
		r.queries.WithLabelValues(outcome).Inc()
	}
}

// ModelCall records one round trip to the model provider.
func (r *Recorder) ModelCall(outcome string) {
	if r != nil && r.modelCalls != nil {
		r.modelCalls.WithLabelValues(outcome).Inc()
	}
}

// ToolExecution records one tool dispatch.
func (r *Recorder) ToolExecution(tool, outcome string) {
	if r != nil && r.toolExecutions != nil {
		r.toolExecutions.WithLabelValues(tool, outcome).Inc()
	}
}

// Clarification records one question routed to the user.
func (r *Recorder) Clarification() {
	if r != nil && r.clarifications != nil {
		r.clarifications.Inc()
	}
}
