package cache

// Cache is a generic key/value cache. Implementations decide expiry policy;
// expired entries read as misses.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V)
	Delete(key K)
	Keys() []K
	Len() int
	Clear()
}
