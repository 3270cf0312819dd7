package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(jobsFinishedTotal, jobDuration) }

var jobsFinishedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "homework_jobs_finished_total",
		Help: "Total number of homework jobs finished, labeled by final status.",
	},
	[]string{"status"}, // 'sent', 'failed'
)

var jobDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "homework_job_duration_seconds",
		Help:    "Wall time of a homework job from creation to final status.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	},
)

func ObserveJobFinished(status string, elapsed time.Duration) {
	jobsFinishedTotal.WithLabelValues(norm(status)).Inc()
	jobDuration.Observe(elapsed.Seconds())
}
