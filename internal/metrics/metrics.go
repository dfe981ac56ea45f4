// Package metrics exposes the prometheus collectors of the derivation engine
// and its HTTP host API.
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
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gridmeta_build_info",
			Help: "Build information of gridmeta",
		},
		[]string{"version", "commit", "date"},
	)

	// Derivation metrics
	DerivationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridmeta_derivations_total",
			Help: "Total number of property info derivation passes",
		},
		[]string{"status"},
	)

	DerivationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gridmeta_derivation_duration_seconds",
			Help:    "Duration of property info derivation passes in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 100us to ~1.6s
		},
	)

	PathResolutionFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gridmeta_path_resolution_failures_total",
			Help: "Total number of column paths that did not resolve against the metadata",
		},
	)

	DraftAssignments = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gridmeta_draft_indicator_assignments_total",
			Help: "Total number of draft indicator assignments",
		},
	)

	// Cache metrics
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridmeta_cache_requests_total",
			Help: "Total number of derivation cache lookups",
		},
		[]string{"result"}, // "hit", "miss"
	)

	CacheInvalidationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gridmeta_cache_invalidations_total",
			Help: "Total number of derivation cache invalidations",
		},
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gridmeta_cache_entries",
			Help: "Number of tables with a cached derivation",
		},
	)

	// Snapshot metrics
	SnapshotPublishTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridmeta_snapshot_publish_total",
			Help: "Total number of published property info snapshots",
		},
		[]string{"status"},
	)

	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridmeta_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gridmeta_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gridmeta_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Middleware records request metrics for every route.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// Use the route pattern if available, otherwise use the path
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}

		status := strconv.Itoa(ww.Status())
		HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// RecordDerivation records metrics for a derivation pass.
func RecordDerivation(duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DerivationsTotal.WithLabelValues(status).Inc()
	DerivationDuration.Observe(duration.Seconds())
}

// RecordCacheLookup records a derivation cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheRequestsTotal.WithLabelValues(result).Inc()
}

// RecordSnapshotPublish records the outcome of a snapshot publication.
func RecordSnapshotPublish(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	SnapshotPublishTotal.WithLabelValues(status).Inc()
}
