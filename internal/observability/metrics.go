package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dreamdeck_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// GenerationRequests counts text-generation calls by endpoint and outcome.
	GenerationRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dreamdeck_generation_requests_total",
		Help: "Total number of text-generation requests by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	// GenerationTokens counts estimated tokens sent to and received from the
	// text-generation provider. Estimated as len(text)/4, the same heuristic
	// the provider documents for rough accounting.
	GenerationTokens = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dreamdeck_generation_tokens_total",
		Help: "Estimated prompt/response tokens exchanged with the generation provider",
	}, []string{"endpoint", "direction"})

	// GenerationLatency records end-to-end generation call latency.
	GenerationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dreamdeck_generation_latency_seconds",
		Help:    "Text-generation call latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
)

// EstimateTokens approximates token usage for accounting metrics.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// RecordGeneration records one generation call for an endpoint.
func RecordGeneration(endpoint string, prompt, response string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	GenerationRequests.WithLabelValues(endpoint, outcome).Inc()
	GenerationTokens.WithLabelValues(endpoint, "prompt").Add(float64(EstimateTokens(prompt)))
	if err == nil {
		GenerationTokens.WithLabelValues(endpoint, "response").Add(float64(EstimateTokens(response)))
	}
}
