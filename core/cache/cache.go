package cache

import (
	"log/slog"
	"time"

	"github.com/fetchkit/snapcache/core/ds"
	"github.com/fetchkit/snapcache/core/signal"
)

// SetOptions carries per-entry overrides for Set.
type SetOptions struct {
	TTL time.Duration
}

// SetOption mutates SetOptions.
type SetOption func(*SetOptions)

// WithTTL overrides the cache's default TTL for a single entry. ttl must be
// > 0; non-positive values are ignored and the default applies.
func WithTTL(ttl time.Duration) SetOption {
	return func(o *SetOptions) {
		if ttl > 0 {
			o.TTL = ttl
		}
	}
}

// ChangeKind identifies what mutated the cache.
type ChangeKind string

const (
	ChangeSet    ChangeKind = "set"
	ChangeRemove ChangeKind = "remove"
	ChangeExpire ChangeKind = "expire"
	ChangeClear  ChangeKind = "clear"
)

// Change is the payload delivered to subscribers after a mutation commits.
// Keys holds the affected keys; it is empty for ChangeClear.
type Change[K comparable] struct {
	Kind ChangeKind
	Keys []K
}

// Cache is a bounded in-memory key-value store with per-entry TTL.
// All operations are synchronous and never perform I/O; populating the cache
// is always the caller's job (no read-through).
type Cache[K comparable, V any] interface {
	// Get returns the value for key and true if present and not expired.
	// A hit refreshes the entry's recency for eviction ordering.
	Get(key K) (V, bool)

	// Set inserts or replaces the entry for key, resetting its TTL window.
	// Subscribers are notified after the write commits.
	Set(key K, val V, opts ...SetOption)

	// Remove deletes the entry for key if present. No-op otherwise.
	Remove(key K)

	// Contains reports whether a live entry exists for key. Unlike Get it
	// does not refresh recency and does not purge.
	Contains(key K) bool

	// Keys returns the keys of all live entries, most recently used first.
	Keys() *ds.Set[K]

	// Len returns the number of live entries.
	Len() int

	// RemoveExpired purges all expired entries and returns the count removed.
	RemoveExpired() int

	// Clear removes all entries unconditionally.
	Clear()

	// Subscribe registers fn to be called synchronously after each mutation.
	Subscribe(fn func(Change[K])) *signal.Subscription
}

// Options configures a cache instance.
type Options struct {
	// Name labels the logical dataset (e.g. "health_events") in logs and
	// metrics. Defaults to "default".
	Name string

	// MaxSize is the hard cap on entry count. Must be > 0.
	MaxSize int

	// DefaultTTL applies to entries written without WithTTL. Must be > 0.
	DefaultTTL time.Duration

	// Clock returns the current time. Defaults to time.Now. Injected by
	// tests to drive expiry deterministically. Expiry assumes the clock
	// never moves backward; a backward step under-evicts.
	Clock func() time.Time

	// Metrics receives cache events. Defaults to NopMetrics().
	Metrics Metrics

	// Log defaults to a discarding logger.
	Log *slog.Logger
}
