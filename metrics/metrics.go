package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "localllm"

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"

	// StatusTransportError labels upstream requests that never got an HTTP response
	StatusTransportError = "transport_error"
)

// Metrics holds the collectors for tool calls and upstream requests.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ToolCalls        *prometheus.CounterVec
	ToolCallDuration *prometheus.HistogramVec
	UpstreamRequests *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ToolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Total tool calls by tool and outcome",
		}, []string{"tool", "outcome"}),
		ToolCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "Tool call latency including the upstream completion",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"tool"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Chat completion requests sent to the inference server by response status",
		}, []string{"status"}),
	}
	reg.MustRegister(m.ToolCalls, m.ToolCallDuration, m.UpstreamRequests)
	return m
}

// ObserveToolCall records one finished tool call
func (m *Metrics) ObserveToolCall(tool string, failed bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if failed {
		outcome = OutcomeError
	}
	m.ToolCalls.WithLabelValues(tool, outcome).Inc()
	m.ToolCallDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// ObserveUpstream records one upstream response status, or a transport error when status is 0
func (m *Metrics) ObserveUpstream(status int) {
	if m == nil {
		return
	}
	label := StatusTransportError
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.UpstreamRequests.WithLabelValues(label).Inc()
}
