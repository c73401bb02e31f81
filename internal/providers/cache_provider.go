package providers

import (
	"presetd/internal/structures"
	"unsafe"

	"github.com/coocood/freecache"
)

type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Entries() int64
}

// CacheProvider is a freecache-backed response cache. Entries live for the
// configured TTL; stale entries are never read because callers key them by
// store revision.
type CacheProvider struct {
	cache *freecache.Cache
	ttl   int
}

func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	c := conf.Cache
	if !c.Enabled || c.Size <= 0 {
		logger.Infof(TypeApp, "Response cache disabled")
		return &noopCache{}
	}

	// freecache works in whole seconds; anything shorter still lives one second.
	ttl := max(int(c.TTL.Seconds()), 1)
	logger.Infof(TypeApp, "Response cache: %dMB, entries expire after %ds", c.Size, ttl)

	return &CacheProvider{
		cache: freecache.NewCache(c.Size << 20),
		ttl:   ttl,
	}
}

// keyBytes views key as bytes without copying. freecache copies keys on Set
// and only reads them on Get.
func keyBytes(key string) []byte {
	if key == "" {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(key), len(key))
}

func (c *CacheProvider) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get(keyBytes(key))
	return val, err == nil
}

func (c *CacheProvider) Set(key string, value []byte) {
	_ = c.cache.Set(keyBytes(key), value, c.ttl)
}

func (c *CacheProvider) Entries() int64 {
	return c.cache.EntryCount()
}

type noopCache struct{}

func (n *noopCache) Get(_ string) ([]byte, bool) { return nil, false }
func (n *noopCache) Set(_ string, _ []byte)      {}
func (n *noopCache) Entries() int64              { return 0 }
