// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by route and method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	RecommendationsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recommendations_generated_total",
		Help: "Recommendation rows persisted by generate calls.",
	})

	RecommendationsDispensed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recommendations_dispensed_total",
		Help: "Recommendations popped and marked as shown.",
	})

	InteractionsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "interactions_recorded_total",
		Help: "Interactions recorded by kind.",
	}, []string{"kind"})

	SearchCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_search_cache_total",
		Help: "Catalog search cache lookups by result (hit, miss).",
	}, []string{"result"})

	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Circuit breaker state (0 closed, 1 half-open, 2 open).",
	}, []string{"name"})

	CatalogSynced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_sync_items_total",
		Help: "Media items upserted by the catalog sync worker.",
	}, []string{"kind"})
)

// Middleware records request count and latency per chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		HTTPDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
