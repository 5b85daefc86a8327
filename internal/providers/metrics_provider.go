package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"guildcloner/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObserveCachedImageBytes(size int)
	ObservePersistenceDuration(duration time.Duration)
	IncOperations(category string, outcome string)
	ObservePhaseDuration(phase string, duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	cachedImageBytes    prometheus.Histogram
	persistenceDuration prometheus.Histogram
	operationsTotal     *prometheus.CounterVec
	phaseDuration       *prometheus.HistogramVec
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

func (m *MetricsProvider) ObserveCachedImageBytes(size int) {
	m.cachedImageBytes.Observe(float64(size))
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncOperations(category string, outcome string) {
	m.operationsTotal.WithLabelValues(category, outcome).Inc()
}

func (m *MetricsProvider) ObservePhaseDuration(phase string, duration time.Duration) {
	m.phaseDuration.WithLabelValues(phase).Observe(duration.Seconds())
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
			Name: "guildcloner_status_requests_total",
			Help: "Total number of status server requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "guildcloner_status_request_duration_seconds",
			Help:    "Status server request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guildcloner_image_cache_hits_total",
			Help: "Total number of image cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guildcloner_image_cache_misses_total",
			Help: "Total number of image cache misses",
		}),

		cachedImageBytes: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "guildcloner_image_cache_entry_bytes",
			Help:    "Size of image data URIs stored in the cache",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "guildcloner_snapshot_persistence_duration_seconds",
			Help:    "Duration of snapshot save and load operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		operationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "guildcloner_operations_total",
			Help: "Remote operations by category and outcome",
		}, []string{"category", "outcome"}),

		phaseDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "guildcloner_phase_duration_seconds",
			Help:    "Duration of each replication phase in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"phase"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObserveCachedImageBytes(_ int)                    {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncOperations(_ string, _ string)                 {}
func (n *noopMetrics) ObservePhaseDuration(_ string, _ time.Duration)   {}
