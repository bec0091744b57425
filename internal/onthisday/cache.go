package onthisday

import (
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tartampluch/birthday-insights/internal/config"
	"github.com/tartampluch/birthday-insights/internal/metrics"
)

type cacheItem[V any] struct {
	value   V
	expires time.Time
}

// ttlCache keeps successful loads for ttl. Concurrent misses on one key share a single load.
type ttlCache[V any] struct {
	mu      sync.Mutex
	items   map[string]cacheItem[V]
	group   singleflight.Group
	ttl     time.Duration
	now     func() time.Time
	metrics *metrics.Metrics
}

func newTTLCache[V any](ttl time.Duration, now func() time.Time, m *metrics.Metrics) *ttlCache[V] {
	return &ttlCache[V]{
		items:   make(map[string]cacheItem[V]),
		ttl:     ttl,
		now:     now,
		metrics: m,
	}
}

func (c *ttlCache[V]) get(key string, load func() (V, error)) (V, error) {
	c.mu.Lock()
	item, ok := c.items[key]
	if ok && !c.now().Before(item.expires) {
		delete(c.items, key)
		ok = false
	}
	c.mu.Unlock()

	c.metrics.ObserveCache(ok)
	if ok {
		slog.Debug(config.MsgCacheHit,
			slog.String(config.LogKeyComponent, config.CompOnThisDay),
			slog.String(config.LogKeyKey, key),
		)
		return item.value, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		value, err := load()
		if err != nil {
			return nil, err
		}
		if c.ttl > 0 {
			c.mu.Lock()
			c.items[key] = cacheItem[V]{value: value, expires: c.now().Add(c.ttl)}
			c.mu.Unlock()
		}
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}
