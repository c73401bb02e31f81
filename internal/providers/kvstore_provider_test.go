package providers

import (
	"context"
	"errors"
	"path/filepath"
	"presetd/internal/kvstore"
	"presetd/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func persistenceConfig(p structures.Persistence) *structures.Config {
	return &structures.Config{Persistence: p}
}

func TestNewKVStoreProvider_File(t *testing.T) {
	s, err := NewKVStoreProvider(persistenceConfig(structures.Persistence{Driver: "file", Dir: t.TempDir()}), &cacheTestLogger{})
	require.NoError(t, err)
	defer s.Close()
	assert.IsType(t, &kvstore.FileStore{}, s)
}

func TestNewKVStoreProvider_SQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "presets.db")
	s, err := NewKVStoreProvider(persistenceConfig(structures.Persistence{Driver: "sqlite", DSN: dsn, Timeout: time.Second}), &cacheTestLogger{})
	require.NoError(t, err)
	defer s.Close()
	assert.IsType(t, &kvstore.SQLiteStore{}, s)
}

func TestNewKVStoreProvider_Memory(t *testing.T) {
	s, err := NewKVStoreProvider(persistenceConfig(structures.Persistence{Driver: "memory"}), &cacheTestLogger{})
	require.NoError(t, err)
	assert.IsType(t, &kvstore.MemoryStore{}, s)
}

func TestNewKVStoreProvider_RedisUnreachable(t *testing.T) {
	_, err := NewKVStoreProvider(persistenceConfig(structures.Persistence{Driver: "redis", DSN: "127.0.0.1:1", Timeout: 200 * time.Millisecond}), &cacheTestLogger{})
	assert.Error(t, err)
}

func TestNewKVStoreProvider_UnknownDriver(t *testing.T) {
	_, err := NewKVStoreProvider(persistenceConfig(structures.Persistence{Driver: "mongo"}), &cacheTestLogger{})
	assert.Error(t, err)
}

type failingKV struct {
	kvstore.Store
	err error
}

func (f *failingKV) Set(_ context.Context, _ string, _ []byte) error { return f.err }

func TestMetricsKVStore_CountsFailuresNotMisses(t *testing.T) {
	m := &mockMetrics{}
	s := &MetricsKVStore{inner: &failingKV{Store: kvstore.NewMemoryStore(), err: errors.New("disk full")}, metrics: m}
	ctx := context.Background()

	_, err := s.Get(ctx, "pqtr_presets")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
	assert.Error(t, s.Set(ctx, "pqtr_presets", []byte("[]")))
	assert.NoError(t, s.Delete(ctx, "pqtr_presets"))

	assert.Equal(t, 3, m.persistenceObserved)
	assert.Equal(t, []string{"pqtr_presets"}, m.persistenceFailures)
}

func TestNewInstrumentedKVStoreProvider(t *testing.T) {
	m := &mockMetrics{}
	s, err := NewInstrumentedKVStoreProvider(persistenceConfig(structures.Persistence{Driver: "memory"}), &cacheTestLogger{}, m)
	require.NoError(t, err)

	require.NoError(t, s.Set(context.Background(), "k", []byte("v")))
	val, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(val))
	assert.Equal(t, 2, m.persistenceObserved)
	assert.Empty(t, m.persistenceFailures)
}
