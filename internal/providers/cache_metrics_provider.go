package providers

import "guildcloner/internal/structures"

// MeteredImageCache counts image cache lookups by CDN reference and the
// size of every data URI it stores.
type MeteredImageCache struct {
	inner   CacheProviderInterface
	metrics MetricsProviderInterface
}

func (c *MeteredImageCache) Get(reference string) ([]byte, bool) {
	uri, ok := c.inner.Get(reference)
	if ok {
		c.metrics.IncCacheHits()
	} else {
		c.metrics.IncCacheMisses()
	}
	return uri, ok
}

func (c *MeteredImageCache) Set(reference string, uri []byte) {
	c.metrics.ObserveCachedImageBytes(len(uri))
	c.inner.Set(reference, uri)
}

// NewImageCacheProvider returns the image cache, metered when enabled. A
// disabled cache is returned bare so every download is not counted as a miss.
func NewImageCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	inner := NewCacheProvider(conf, logger)
	if !conf.Cache.Enabled {
		return inner
	}
	return &MeteredImageCache{
		inner:   inner,
		metrics: metrics,
	}
}
