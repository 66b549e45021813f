// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "aicrm"

var (
	DispatchActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "actions_total",
			Help:      "Dispatch decisions handled, by action.",
		},
		[]string{"action"},
	)

	DispatchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "failures_total",
			Help:      "Dispatch outcomes that were not a normal reply, by kind.",
		},
		[]string{"kind"},
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "request_duration_seconds",
			Help:      "Latency of chat model calls, by call site and outcome.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"call", "outcome"},
	)
)

// Failure kinds recorded in DispatchFailures.
const (
	FailureValidation = "validation"
	FailureNotFound   = "not_found"
	FailureUnknown    = "unknown_action"
	FailureInternal   = "internal"
)

// ObserveLLM records one chat model call started at start.
func ObserveLLM(call string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	LLMRequestDuration.WithLabelValues(call, outcome).Observe(time.Since(start).Seconds())
}
