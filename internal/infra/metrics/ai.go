package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(generationsTotal, promptTokens) }

var generationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "content_generations_total",
		Help: "Content generation attempts, labeled by source and outcome.",
	},
	[]string{"source", "outcome"}, // source: 'provider'|'fallback'
)

var promptTokens = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "content_prompt_tokens",
		Help:    "Estimated prompt token counts submitted to providers.",
		Buckets: prometheus.ExponentialBuckets(64, 2, 8),
	},
)

func IncGeneration(source string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	generationsTotal.WithLabelValues(norm(source), outcome).Inc()
}

func ObservePromptTokens(n int) {
	if n > 0 {
		promptTokens.Observe(float64(n))
	}
}
