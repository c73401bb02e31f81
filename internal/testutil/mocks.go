package testutil

import (
	"context"
	"fmt"
	"presetd/internal/kvstore"
	"presetd/internal/providers"
	"strings"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (e LogEntry) Message() string {
	return fmt.Sprintf(e.Format, e.Args...)
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Entries returns the recorded entries of the given level.
func (m *MockLogger) Entries(level string) []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LogEntry
	for _, e := range m.Logs {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// Contains reports whether any entry of the given level contains substr.
func (m *MockLogger) Contains(level, substr string) bool {
	for _, e := range m.Entries(level) {
		if strings.Contains(e.Message(), substr) {
			return true
		}
	}
	return false
}

// MockKVStore implements kvstore.Store on top of a MemoryStore. The Fn hooks
// replace the default behaviour when set.
type MockKVStore struct {
	*kvstore.MemoryStore

	GetFn    func(key string) ([]byte, error)
	SetFn    func(key string, value []byte) error
	DeleteFn func(key string) error

	mu         sync.Mutex
	SetCalls   []string
	DelCalls   []string
	CloseCalls int
}

func NewMockKVStore() *MockKVStore {
	return &MockKVStore{MemoryStore: kvstore.NewMemoryStore()}
}

func (m *MockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFn != nil {
		return m.GetFn(key)
	}
	return m.MemoryStore.Get(ctx, key)
}

func (m *MockKVStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.SetCalls = append(m.SetCalls, key)
	m.mu.Unlock()
	if m.SetFn != nil {
		return m.SetFn(key, value)
	}
	return m.MemoryStore.Set(ctx, key, value)
}

func (m *MockKVStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	m.DelCalls = append(m.DelCalls, key)
	m.mu.Unlock()
	if m.DeleteFn != nil {
		return m.DeleteFn(key)
	}
	return m.MemoryStore.Delete(ctx, key)
}

func (m *MockKVStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalls++
	return nil
}

// Writes returns the keys passed to Set so far.
func (m *MockKVStore) Writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.SetCalls...)
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Entries() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.Data))
}

// MockCompressor implements kvstore.Compressor with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() { m.Closed = true }

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu                  sync.Mutex
	Requests            int
	CacheHits           int
	CacheMisses         int
	PersistenceObserved int
	PersistenceFailures []string
	PresetsTotal        int
	SelectorMatches     map[string]int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}

func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncCacheHits(_ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses(_ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistenceObserved++
}

func (m *MockMetrics) IncPersistenceFailures(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistenceFailures = append(m.PersistenceFailures, key)
}

func (m *MockMetrics) SetPresetsTotal(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PresetsTotal = count
}

func (m *MockMetrics) IncSelectorMatch(ruleID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SelectorMatches == nil {
		m.SelectorMatches = make(map[string]int)
	}
	m.SelectorMatches[ruleID]++
}

// Presets returns the last value passed to SetPresetsTotal.
func (m *MockMetrics) Presets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PresetsTotal
}
