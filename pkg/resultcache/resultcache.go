// Package resultcache provides a small in-process memoization cache for
// completed check reports: TTL-bounded, capacity-bounded, evicting the
// oldest-inserted entry first.
//
// The cache is a pure performance optimization; a miss always falls back to a
// correct recomputation, so entries are never updated in place and nothing is
// persisted.
package resultcache

import (
	"container/list"
	"sync"
	"time"
)

// Defaults matching the service's request-level caching policy.
const (
	DefaultTTL      = 5 * time.Minute
	DefaultCapacity = 500
)

type entry[V any] struct {
	key        string
	insertedAt time.Time
	payload    V
}

// Cache is a TTL and capacity bounded map. Safe for concurrent use; a single
// mutex is enough since entries are immutable once written.
type Cache[V any] struct {
	mu    sync.Mutex
	ttl   time.Duration
	cap   int
	items map[string]*list.Element
	order *list.List // front = oldest inserted
	now   func() time.Time
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	ttl time.Duration
	cap int
	now func() time.Time
}

// WithTTL overrides the default 5 minute entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) { o.ttl = ttl }
}

// WithCapacity overrides the default 500 entry bound.
func WithCapacity(n int) Option {
	return func(o *options) { o.cap = n }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates an empty cache.
func New[V any](opts ...Option) *Cache[V] {
	o := &options{ttl: DefaultTTL, cap: DefaultCapacity, now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return &Cache[V]{
		ttl:   o.ttl,
		cap:   o.cap,
		items: make(map[string]*list.Element),
		order: list.New(),
		now:   o.now,
	}
}

// Get returns the cached payload for key. Entries older than the TTL are
// deleted on access and reported as misses.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		return zero, false
	}
	ent := el.Value.(*entry[V])
	if c.now().Sub(ent.insertedAt) > c.ttl {
		c.order.Remove(el)
		delete(c.items, key)
		return zero, false
	}
	return ent.payload, true
}

// Set stores payload under key. When the cache is full, the single
// oldest-inserted entry is evicted first. Setting an existing key refreshes
// its insertion time.
func (c *Cache[V]) Set(key string, payload V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.order.Remove(el)
		delete(c.items, key)
	}
	if c.order.Len() >= c.cap {
		if oldest := c.order.Front(); oldest != nil {
			delete(c.items, oldest.Value.(*entry[V]).key)
			c.order.Remove(oldest)
		}
	}
	el := c.order.PushBack(&entry[V]{key: key, insertedAt: c.now(), payload: payload})
	c.items[key] = el
}

// Len reports the number of entries, including any not yet lazily expired.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
