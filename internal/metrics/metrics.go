package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LLMRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "LLM completions by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "Duration of a single LLM completion attempt in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"provider"},
	)

	ToolInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_invocations_total",
			Help: "Tool calls executed on behalf of the LLM",
		},
		[]string{"tool", "outcome"},
	)

	ChainFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chain_fallbacks_total",
			Help: "Evaluation chain results replaced by a fallback value",
		},
		[]string{"chain", "kind"},
	)
)
