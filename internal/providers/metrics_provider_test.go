package providers

import (
	"presetd/internal/structures"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	// Ensure no-op methods don't panic
	m.IncRequestsTotal("/test", 200)
	m.ObserveRequestDuration("/test", time.Millisecond)
	m.IncCacheHits("presets")
	m.IncCacheMisses("match")
	m.ObservePersistenceDuration(time.Millisecond)
	m.IncPersistenceFailures("pqtr_presets")
	m.SetPresetsTotal(10)
	m.IncSelectorMatch("track-day")
}

func enabledMetrics(t *testing.T) (*MetricsProvider, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m, ok := newMetricsProvider(conf, reg).(*MetricsProvider)
	require.True(t, ok, "should return MetricsProvider when enabled")
	return m, reg
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	enabledMetrics(t)
}

func TestMetricsProvider_IncrementCounters(t *testing.T) {
	m, _ := enabledMetrics(t)

	m.IncRequestsTotal("/presets", 200)
	m.IncRequestsTotal("/presets", 404)
	m.ObserveRequestDuration("/presets", 5*time.Millisecond)
	m.IncCacheHits("presets")
	m.IncCacheMisses("presets")
	m.IncCacheMisses("match")
	m.ObservePersistenceDuration(100 * time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/presets", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/presets", "4xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheHits.WithLabelValues("presets")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheMisses.WithLabelValues("presets")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheMisses.WithLabelValues("match")))
}

func TestMetricsProvider_DomainMetrics(t *testing.T) {
	m, reg := enabledMetrics(t)

	m.SetPresetsTotal(6)
	m.IncPersistenceFailures("pqtr_presets")
	m.IncSelectorMatch("track-day")
	m.IncSelectorMatch("track-day")

	assert.Equal(t, 6.0, testutil.ToFloat64(m.presetsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.persistenceFailures.WithLabelValues("pqtr_presets")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.selectorMatches.WithLabelValues("track-day")))

	n, err := testutil.GatherAndCount(reg, "presetd_selector_matches_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{404, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
