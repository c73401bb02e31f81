package providers

import (
	"presetd/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type cacheMetricsTestMetrics struct {
	hits   map[string]int
	misses map[string]int
}

func newCacheMetricsTestMetrics() *cacheMetricsTestMetrics {
	return &cacheMetricsTestMetrics{hits: map[string]int{}, misses: map[string]int{}}
}

func (m *cacheMetricsTestMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *cacheMetricsTestMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *cacheMetricsTestMetrics) IncCacheHits(kind string)                         { m.hits[kind]++ }
func (m *cacheMetricsTestMetrics) IncCacheMisses(kind string)                       { m.misses[kind]++ }
func (m *cacheMetricsTestMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (m *cacheMetricsTestMetrics) IncPersistenceFailures(_ string)                  {}
func (m *cacheMetricsTestMetrics) SetPresetsTotal(_ int)                            {}
func (m *cacheMetricsTestMetrics) IncSelectorMatch(_ string)                        {}

type cacheMetricsTestInner struct {
	data map[string][]byte
}

func (c *cacheMetricsTestInner) Get(key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}
func (c *cacheMetricsTestInner) Set(key string, value []byte) {
	c.data[key] = value
}
func (c *cacheMetricsTestInner) Entries() int64 { return int64(len(c.data)) }

func TestCacheKind(t *testing.T) {
	tests := []struct {
		key  string
		kind string
	}{
		{"4:presets", "presets"},
		{"4:preset:abc", "preset"},
		{"12:match:9f2c", "match"},
		{"plain", "other"},
		{"4:", "other"},
		{"", "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.kind, cacheKind(tt.key), tt.key)
	}
}

func TestMetricsCacheProvider_CountsPerKind(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{"1:presets": []byte("[]")}}
	metrics := newCacheMetricsTestMetrics()
	cache := &MetricsCacheProvider{inner: inner, metrics: metrics}

	val, ok := cache.Get("1:presets")
	assert.True(t, ok)
	assert.Equal(t, []byte("[]"), val)

	_, ok = cache.Get("1:match:abc")
	assert.False(t, ok)
	cache.Get("1:match:def")

	assert.Equal(t, map[string]int{"presets": 1}, metrics.hits)
	assert.Equal(t, map[string]int{"match": 2}, metrics.misses)
}

func TestMetricsCacheProvider_SetAndEntriesDelegate(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{}}
	cache := &MetricsCacheProvider{inner: inner, metrics: newCacheMetricsTestMetrics()}

	cache.Set("2:preset:x", []byte("{}"))

	val, ok := inner.Get("2:preset:x")
	assert.True(t, ok)
	assert.Equal(t, []byte("{}"), val)
	assert.Equal(t, int64(1), cache.Entries())
}

func TestNewInstrumentedCacheProvider_DisabledIsPlainNoop(t *testing.T) {
	conf := &structures.Config{Cache: structures.CacheConfig{Enabled: false}}
	c := NewInstrumentedCacheProvider(conf, &cacheTestLogger{}, newCacheMetricsTestMetrics())
	assert.IsType(t, &noopCache{}, c)
}

func TestNewInstrumentedCacheProvider_ZeroSizeIsPlainNoop(t *testing.T) {
	conf := &structures.Config{Cache: structures.CacheConfig{Enabled: true, Size: 0}}
	c := NewInstrumentedCacheProvider(conf, &cacheTestLogger{}, newCacheMetricsTestMetrics())
	assert.IsType(t, &noopCache{}, c)
}

func TestNewInstrumentedCacheProvider_EnabledCountsLookups(t *testing.T) {
	conf := &structures.Config{Cache: structures.CacheConfig{Enabled: true, Size: 1, TTL: time.Minute}}
	metrics := newCacheMetricsTestMetrics()
	c := NewInstrumentedCacheProvider(conf, &cacheTestLogger{}, metrics)
	assert.IsType(t, &MetricsCacheProvider{}, c)

	c.Set("1:presets", []byte("[]"))
	c.Get("1:presets")
	c.Get("2:presets")
	assert.Equal(t, 1, metrics.hits["presets"])
	assert.Equal(t, 1, metrics.misses["presets"])
	assert.Equal(t, int64(1), c.Entries())
}
