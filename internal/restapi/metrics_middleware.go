package restapi

import (
	"net/http"
	"strconv"
	"time"

	"transit.sullia.org/internal/metrics"
)

// NewMetricsMiddleware creates middleware that records request counts and
// latency in Prometheus collectors.
func NewMetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(wrapped, r)

			metrics.HTTPRequestsTotal.
				WithLabelValues(r.URL.Path, strconv.Itoa(wrapped.statusCode)).
				Inc()
			metrics.HTTPRequestDuration.
				WithLabelValues(r.URL.Path).
				Observe(time.Since(start).Seconds())
		})
	}
}
