package providers

import (
	"presetd/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits(kind string)
	IncCacheMisses(kind string)
	ObservePersistenceDuration(duration time.Duration)
	IncPersistenceFailures(key string)
	SetPresetsTotal(count int)
	IncSelectorMatch(ruleID string)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
	persistenceDuration prometheus.Histogram
	persistenceFailures *prometheus.CounterVec
	presetsTotal        prometheus.Gauge
	selectorMatches     *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits(kind string) {
	m.cacheHits.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) IncCacheMisses(kind string) {
	m.cacheMisses.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncPersistenceFailures(key string) {
	m.persistenceFailures.WithLabelValues(key).Inc()
}

func (m *MetricsProvider) SetPresetsTotal(count int) {
	m.presetsTotal.Set(float64(count))
}

func (m *MetricsProvider) IncSelectorMatch(ruleID string) {
	m.selectorMatches.WithLabelValues(ruleID).Inc()
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
	return newMetricsProvider(conf, prometheus.DefaultRegisterer)
}

func newMetricsProvider(conf *structures.Config, reg prometheus.Registerer) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}
	factory := promauto.With(reg)

	return &MetricsProvider{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "presetd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "presetd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "presetd_cache_hits_total",
			Help: "Response cache hits by response kind",
		}, []string{"kind"}),

		cacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "presetd_cache_misses_total",
			Help: "Response cache misses by response kind",
		}, []string{"kind"}),

		persistenceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "presetd_persistence_duration_seconds",
			Help:    "Duration of key-value writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		persistenceFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "presetd_persistence_failures_total",
			Help: "Key-value writes that failed and were dropped",
		}, []string{"key"}),

		presetsTotal: factory.NewGauge(prometheus.GaugeOpts{
			Name: "presetd_presets_total",
			Help: "Number of presets in the store",
		}),

		selectorMatches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "presetd_selector_matches_total",
			Help: "Selector evaluations that resolved a preset, per rule. Cached /match responses count under presetd_cache_hits_total{kind=\"match\"}",
		}, []string{"rule"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits(_ string)                            {}
func (n *noopMetrics) IncCacheMisses(_ string)                          {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncPersistenceFailures(_ string)                  {}
func (n *noopMetrics) SetPresetsTotal(_ int)                            {}
func (n *noopMetrics) IncSelectorMatch(_ string)                        {}
