package middlewarectx

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of handled HTTP requests.",
	}, []string{"method", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request handling duration.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)

// MetricsMiddleware считает число запросов и время их обработки.
func MetricsMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			requestsTotal.WithLabelValues(r.Method, strconv.Itoa(ww.Status())).Inc()
			requestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
		})
	}
}
