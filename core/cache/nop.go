package cache

import (
	"github.com/fetchkit/snapcache/core/ds"
	"github.com/fetchkit/snapcache/core/signal"
)

// Nop is a Cache that stores nothing. Every read misses and every write is
// discarded. Useful for disabling caching without branching at call sites.
type Nop[K comparable, V any] struct {
	hub *signal.Hub[Change[K]]
}

// NewNop creates a no-op cache.
func NewNop[K comparable, V any]() *Nop[K, V] {
	return &Nop[K, V]{hub: signal.NewHub[Change[K]]()}
}

func (n *Nop[K, V]) Get(K) (val V, ok bool) { return val, false }

func (n *Nop[K, V]) Set(K, V, ...SetOption) {}

func (n *Nop[K, V]) Remove(K) {}

func (n *Nop[K, V]) Contains(K) bool { return false }

func (n *Nop[K, V]) Keys() *ds.Set[K] { return ds.NewSet[K]() }

func (n *Nop[K, V]) Len() int { return 0 }

func (n *Nop[K, V]) RemoveExpired() int { return 0 }

func (n *Nop[K, V]) Clear() {}

// Subscribe registers fn, which will never be called: a Nop cache never
// changes.
func (n *Nop[K, V]) Subscribe(fn func(Change[K])) *signal.Subscription {
	return n.hub.Subscribe(fn)
}

var _ Cache[string, any] = (*Nop[string, any])(nil)
