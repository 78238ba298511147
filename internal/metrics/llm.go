package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	llmRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cvlens",
			Subsystem: "llm",
			Name:      "requests_total",
			Help:      "Generative model calls by operation and outcome.",
		},
		[]string{"operation", "status"},
	)

	llmRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cvlens",
			Subsystem: "llm",
			Name:      "request_duration_seconds",
			Help:      "Generative model call latency, retries included.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		},
		[]string{"operation"},
	)
)

// ObserveLLMRequest records one completed (or failed) model call.
func ObserveLLMRequest(operation, status string, elapsed time.Duration) {
	llmRequestsTotal.WithLabelValues(operation, status).Inc()
	llmRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
