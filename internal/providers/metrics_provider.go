package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"cvdd/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncStoreWrites()
	IncStoreWriteErrors()
	IncCacheExpirations()
	SetStoreKeys(count int)
	SetOfflineActions(count int)
	ObservePersistenceDuration(duration time.Duration)
	ObserveBackendRequest(endpoint string, duration time.Duration, failed bool)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	storeWrites         prometheus.Counter
	storeWriteErrors    prometheus.Counter
	cacheExpirations    prometheus.Counter
	storeKeys           prometheus.Gauge
	offlineActions      prometheus.Gauge
	persistenceDuration prometheus.Histogram
	backendRequests     *prometheus.CounterVec
	backendDuration     *prometheus.HistogramVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncStoreWrites() {
	m.storeWrites.Inc()
}

func (m *MetricsProvider) IncStoreWriteErrors() {
	m.storeWriteErrors.Inc()
}

func (m *MetricsProvider) IncCacheExpirations() {
	m.cacheExpirations.Inc()
}

func (m *MetricsProvider) SetStoreKeys(count int) {
	m.storeKeys.Set(float64(count))
}

func (m *MetricsProvider) SetOfflineActions(count int) {
	m.offlineActions.Set(float64(count))
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) ObserveBackendRequest(endpoint string, duration time.Duration, failed bool) {
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	m.backendRequests.WithLabelValues(endpoint, outcome).Inc()
	m.backendDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cvdd_requests_total",
			Help: "Total number of local HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cvdd_request_duration_seconds",
			Help:    "Local HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cvdd_cache_hits_total",
			Help: "Total number of response cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cvdd_cache_misses_total",
			Help: "Total number of response cache misses",
		}),

		storeWrites: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cvdd_store_writes_total",
			Help: "Total number of key-value store writes",
		}),

		storeWriteErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cvdd_store_write_errors_total",
			Help: "Total number of failed key-value store writes",
		}),

		cacheExpirations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cvdd_cache_expirations_total",
			Help: "Total number of persisted cache entries removed as stale",
		}),

		storeKeys: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "cvdd_store_keys_total",
			Help: "Current number of keys in the on-device namespace",
		}),

		offlineActions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "cvdd_offline_actions_pending",
			Help: "Current number of queued offline actions",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cvdd_persistence_duration_seconds",
			Help:    "Duration of snapshot persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		backendRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cvdd_backend_requests_total",
			Help: "Total number of remote backend requests",
		}, []string{"endpoint", "outcome"}),

		backendDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cvdd_backend_request_duration_seconds",
			Help:    "Remote backend request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                        {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)        {}
func (n *noopMetrics) IncCacheHits()                                           {}
func (n *noopMetrics) IncCacheMisses()                                         {}
func (n *noopMetrics) IncStoreWrites()                                         {}
func (n *noopMetrics) IncStoreWriteErrors()                                    {}
func (n *noopMetrics) IncCacheExpirations()                                    {}
func (n *noopMetrics) SetStoreKeys(_ int)                                      {}
func (n *noopMetrics) SetOfflineActions(_ int)                                 {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)              {}
func (n *noopMetrics) ObserveBackendRequest(_ string, _ time.Duration, _ bool) {}
