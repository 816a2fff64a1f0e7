package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts API requests by path and status code
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "transit",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests served.",
	}, []string{"path", "status"})

	// HTTPRequestDuration observes request latency by path
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "transit",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"path"})

	// ShortestPathComputations counts Dijkstra runs by outcome (found, not_found)
	ShortestPathComputations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "transit",
		Subsystem: "graph",
		Name:      "shortest_path_computations_total",
		Help:      "Total number of shortest-path computations.",
	}, []string{"outcome"})

	// ORSRequestsTotal counts OpenRouteService calls by outcome (ok, error)
	ORSRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "transit",
		Subsystem: "ors",
		Name:      "requests_total",
		Help:      "Total number of OpenRouteService API calls.",
	}, []string{"outcome"})
)

// Handler returns the Prometheus scrape handler
func Handler() http.Handler {
	return promhttp.Handler()
}
