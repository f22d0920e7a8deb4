package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ChatRequestsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_requests_total",
			Help: "Total number of /chat requests received",
		},
	)

	RejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_rejected_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"reason"},
	)

	UpstreamErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_upstream_errors_total",
			Help: "Total number of failed completion API calls",
		},
	)

	UpstreamLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_upstream_latency_seconds",
			Help:    "Latency of completion API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func Register() {
	prometheus.MustRegister(
		ChatRequestsTotal,
		RejectedTotal,
		UpstreamErrorsTotal,
		UpstreamLatency,
	)
}
