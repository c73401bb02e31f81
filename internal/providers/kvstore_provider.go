package providers

import (
	"context"
	"errors"
	"fmt"
	"presetd/internal/kvstore"
	"presetd/internal/structures"
	"time"
)

func NewKVStoreProvider(conf *structures.Config, logger Logger) (kvstore.Store, error) {
	p := conf.Persistence

	switch p.Driver {
	case "file":
		compressor, err := kvstore.NewZstdCompressor()
		if err != nil {
			return nil, err
		}
		store, err := kvstore.NewFileStore(p.Dir, compressor)
		if err != nil {
			compressor.Close()
			return nil, err
		}
		logger.Infof(TypeApp, "File store initialized in %s", p.Dir)
		return store, nil
	case "sqlite":
		store, err := kvstore.NewSQLiteStore(p.DSN, p.Timeout)
		if err != nil {
			return nil, err
		}
		logger.Infof(TypeApp, "SQLite store initialized: %s", p.DSN)
		return store, nil
	case "redis":
		store, err := kvstore.NewRedisStore(p.DSN, p.Timeout)
		if err != nil {
			return nil, err
		}
		logger.Infof(TypeApp, "Redis store initialized")
		return store, nil
	case "memory":
		logger.Warnf(TypeApp, "Memory store in use, presets will not survive a restart")
		return kvstore.NewMemoryStore(), nil
	}

	return nil, fmt.Errorf("unknown persistence driver %q", p.Driver)
}

// MetricsKVStore times every backend call and counts failures per key.
// A missing key is not a failure.
type MetricsKVStore struct {
	inner   kvstore.Store
	metrics MetricsProviderInterface
}

func (s *MetricsKVStore) observe(key string, start time.Time, err error) {
	s.metrics.ObservePersistenceDuration(time.Since(start))
	if err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		s.metrics.IncPersistenceFailures(key)
	}
}

func (s *MetricsKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	val, err := s.inner.Get(ctx, key)
	s.observe(key, start, err)
	return val, err
}

func (s *MetricsKVStore) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.inner.Set(ctx, key, value)
	s.observe(key, start, err)
	return err
}

func (s *MetricsKVStore) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.inner.Delete(ctx, key)
	s.observe(key, start, err)
	return err
}

func (s *MetricsKVStore) Close() error {
	return s.inner.Close()
}

func NewInstrumentedKVStoreProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) (kvstore.Store, error) {
	inner, err := NewKVStoreProvider(conf, logger)
	if err != nil {
		return nil, err
	}
	return &MetricsKVStore{inner: inner, metrics: metrics}, nil
}
