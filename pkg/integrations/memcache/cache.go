package memcache

import (
	"sync"
	"time"

	"github.com/dsparrowm/blockfundz-sub001/pkg/types/cache"
)

var _ cache.Cache[string, any] = (*Cache[string, any])(nil)

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Cache is an in-process cache with an optional per-entry TTL. A zero TTL
// means entries never expire. Expired entries read as misses and are
// dropped lazily.
type Cache[K comparable, V any] struct {
	ttl   time.Duration
	data  map[K]entry[V]
	mutex sync.RWMutex
}

func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		data: make(map[K]entry[V]),
	}
}

func NewWithTTL[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	c := New[K, V]()
	c.ttl = ttl
	return c
}

func (c *Cache[K, V]) expired(e entry[V]) bool {
	return c.ttl > 0 && time.Since(e.storedAt) > c.ttl
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mutex.RLock()
	e, ok := c.data[key]
	c.mutex.RUnlock()
	if !ok {
		var zero V
		return zero, false
	}
	if c.expired(e) {
		c.Delete(key)
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data[key] = entry[V]{value: value, storedAt: time.Now()}
}

func (c *Cache[K, V]) Delete(key K) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.data, key)
}

func (c *Cache[K, V]) Keys() []K {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	keys := make([]K, 0, len(c.data))
	for k, e := range c.data {
		if c.expired(e) {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

func (c *Cache[K, V]) Len() int {
	return len(c.Keys())
}

func (c *Cache[K, V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[K]entry[V])
}
