// Package observability provides logging, metrics, and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BackendRequests counts calls to the board API by method and status class.
	BackendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amumal_backend_requests_total",
		Help: "Total number of board API calls by method and status",
	}, []string{"method", "status"})

	// BackendRequestLatency records board API call latency by method.
	BackendRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "amumal_backend_request_latency_seconds",
		Help:    "Board API call latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	// BackendErrors counts transport-level failures talking to the board API.
	BackendErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "amumal_backend_errors_total",
		Help: "Total number of transport failures talking to the board API",
	})

	// SessionOps counts session store operations by op and outcome.
	SessionOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amumal_session_ops_total",
		Help: "Total number of session store operations",
	}, []string{"op", "outcome"})

	// PageRenders counts full page renders by page name.
	PageRenders = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amumal_page_renders_total",
		Help: "Total number of full page renders by page",
	}, []string{"page"})
)

// ObserveBackendCall records latency and outcome of one board API call.
func ObserveBackendCall(method, status string, start time.Time) {
	BackendRequests.WithLabelValues(method, status).Inc()
	BackendRequestLatency.WithLabelValues(method).Observe(time.Since(start).Seconds())
}
