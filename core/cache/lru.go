package cache

import (
	"container/list"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fetchkit/snapcache/core/ds"
	"github.com/fetchkit/snapcache/core/signal"
)

// lruEntry is the value stored in each list element.
type lruEntry[K comparable, V any] struct {
	key            K
	val            V
	insertedAt     time.Time
	lastAccessedAt time.Time
	ttl            time.Duration
}

// LRU is the in-memory Cache implementation: bounded size with
// least-recently-used eviction and absolute per-entry TTL (measured from
// insertion, never extended by reads).
//
// Safe for concurrent use. Change notifications fire on the mutating
// goroutine after the internal lock is released, so subscribers may call
// back into the cache.
type LRU[K comparable, V any] struct {
	name       string
	maxSize    int
	defaultTTL time.Duration
	now        func() time.Time
	metrics    Metrics
	log        *slog.Logger
	hub        *signal.Hub[Change[K]]

	mu    sync.Mutex
	ll    *list.List // front = most recently used
	items map[K]*list.Element
}

// New creates an LRU cache. MaxSize and DefaultTTL must be > 0; anything
// else is a configuration error and fails here rather than at first use.
func New[K comparable, V any](opts Options) (*LRU[K, V], error) {
	if opts.MaxSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBadMaxSize, opts.MaxSize)
	}
	if opts.DefaultTTL <= 0 {
		return nil, fmt.Errorf("%w: got %s", ErrBadTTL, opts.DefaultTTL)
	}
	if opts.Name == "" {
		opts.Name = "default"
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Metrics == nil {
		opts.Metrics = NopMetrics()
	}
	if opts.Log == nil {
		opts.Log = slog.New(slog.DiscardHandler)
	}

	return &LRU[K, V]{
		name:       opts.Name,
		maxSize:    opts.MaxSize,
		defaultTTL: opts.DefaultTTL,
		now:        opts.Clock,
		metrics:    opts.Metrics,
		log:        opts.Log.With(slog.String("cache", opts.Name)),
		hub:        signal.NewHub[Change[K]](),
		ll:         list.New(),
		items:      make(map[K]*list.Element, opts.MaxSize),
	}, nil
}

// Get returns the value for key and true if present and not expired.
// An expired entry is purged as a side effect and reported as a miss;
// stale data is never returned. A hit marks the entry most recently used.
func (c *LRU[K, V]) Get(key K) (val V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ele, found := c.items[key]
	if !found {
		c.metrics.Miss(c.name)
		return val, false
	}

	e := ele.Value.(*lruEntry[K, V])
	now := c.now()
	if c.expired(e, now) {
		c.ll.Remove(ele)
		delete(c.items, key)
		c.metrics.Expired(c.name, 1)
		c.metrics.Miss(c.name)
		return val, false
	}

	e.lastAccessedAt = now
	c.ll.MoveToFront(ele)
	c.metrics.Hit(c.name)
	return e.val, true
}

// Set inserts or replaces the entry for key. The TTL window restarts from
// now, using the cache default unless WithTTL is given. If the write would
// exceed MaxSize, least-recently-used entries are evicted first (insertion
// order breaks ties between never-read entries); the entry just written is
// never a candidate. Fires one ChangeSet notification after commit.
func (c *LRU[K, V]) Set(key K, val V, opts ...SetOption) {
	so := SetOptions{TTL: c.defaultTTL}
	for _, o := range opts {
		o(&so)
	}

	c.mu.Lock()
	now := c.now()

	if ele, found := c.items[key]; found {
		e := ele.Value.(*lruEntry[K, V])
		e.val = val
		e.insertedAt = now
		e.lastAccessedAt = now
		e.ttl = so.TTL
		c.ll.MoveToFront(ele)
	} else {
		ele := c.ll.PushFront(&lruEntry[K, V]{
			key:            key,
			val:            val,
			insertedAt:     now,
			lastAccessedAt: now,
			ttl:            so.TTL,
		})
		c.items[key] = ele

		for c.ll.Len() > c.maxSize {
			c.evictOldest(now)
		}
	}

	c.metrics.Size(c.name, c.ll.Len())
	c.mu.Unlock()

	c.hub.Publish(Change[K]{Kind: ChangeSet, Keys: []K{key}})
}

// evictOldest removes the back of the list. Caller holds the lock.
func (c *LRU[K, V]) evictOldest(now time.Time) {
	last := c.ll.Back()
	if last == nil {
		return
	}
	e := last.Value.(*lruEntry[K, V])
	c.ll.Remove(last)
	delete(c.items, e.key)

	if c.expired(e, now) {
		c.metrics.Expired(c.name, 1)
	} else {
		c.metrics.Eviction(c.name)
	}
	c.log.Debug("evicted", slog.Any("key", e.key))
}

// Remove deletes the entry for key. Idempotent; a second call is a no-op.
// Notifies subscribers only if an entry was actually removed.
func (c *LRU[K, V]) Remove(key K) {
	c.mu.Lock()
	ele, found := c.items[key]
	if found {
		c.ll.Remove(ele)
		delete(c.items, key)
		c.metrics.Size(c.name, c.ll.Len())
	}
	c.mu.Unlock()

	if found {
		c.hub.Publish(Change[K]{Kind: ChangeRemove, Keys: []K{key}})
	}
}

// Contains reports whether a live entry exists for key. A pure probe:
// it bumps no recency and purges nothing, but never reports a dead entry.
func (c *LRU[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ele, found := c.items[key]
	if !found {
		return false
	}
	return !c.expired(ele.Value.(*lruEntry[K, V]), c.now())
}

// Keys returns the keys of all live entries, most recently used first.
func (c *LRU[K, V]) Keys() *ds.Set[K] {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	keys := ds.NewSet[K]()
	for ele := c.ll.Front(); ele != nil; ele = ele.Next() {
		e := ele.Value.(*lruEntry[K, V])
		if !c.expired(e, now) {
			keys.Add(e.key)
		}
	}
	return keys
}

// Len returns the number of live entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for ele := c.ll.Front(); ele != nil; ele = ele.Next() {
		if !c.expired(ele.Value.(*lruEntry[K, V]), now) {
			n++
		}
	}
	return n
}

// RemoveExpired purges every expired entry and returns the count removed.
// Fires one aggregate ChangeExpire notification if anything was purged.
// Intended for periodic maintenance, see [Sweeper].
func (c *LRU[K, V]) RemoveExpired() int {
	c.mu.Lock()
	now := c.now()

	var removed []K
	for ele := c.ll.Front(); ele != nil; {
		next := ele.Next()
		e := ele.Value.(*lruEntry[K, V])
		if c.expired(e, now) {
			c.ll.Remove(ele)
			delete(c.items, e.key)
			removed = append(removed, e.key)
		}
		ele = next
	}

	if len(removed) > 0 {
		c.metrics.Expired(c.name, len(removed))
		c.metrics.Size(c.name, c.ll.Len())
	}
	c.mu.Unlock()

	if len(removed) > 0 {
		c.hub.Publish(Change[K]{Kind: ChangeExpire, Keys: removed})
	}
	return len(removed)
}

// Clear removes all entries and resets internal bookkeeping. Notifies
// subscribers once if the cache was non-empty.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	wasEmpty := c.ll.Len() == 0
	c.ll.Init()
	clear(c.items)
	c.metrics.Size(c.name, 0)
	c.mu.Unlock()

	if !wasEmpty {
		c.hub.Publish(Change[K]{Kind: ChangeClear})
	}
}

// Subscribe registers fn for change notifications. fn runs synchronously on
// the mutating goroutine after the mutation commits.
func (c *LRU[K, V]) Subscribe(fn func(Change[K])) *signal.Subscription {
	return c.hub.Subscribe(fn)
}

// expired reports TTL expiry measured from insertion (absolute, not sliding).
func (c *LRU[K, V]) expired(e *lruEntry[K, V], now time.Time) bool {
	return now.Sub(e.insertedAt) >= e.ttl
}

var _ Cache[string, any] = (*LRU[string, any])(nil)
