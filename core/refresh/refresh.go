// Package refresh implements the render-then-refresh pattern over a cache:
// read whatever snapshot is cached and show it immediately, fetch fresh data
// in the background, and let the cache's change notification trigger a
// re-render when the fetch lands.
//
// Concurrent refreshes of the same key are collapsed to a single upstream
// fetch. A failed fetch leaves the existing cached value untouched, so
// readers keep seeing last-known-good data while the caller surfaces the
// error however it likes.
//
//	r, err := refresh.New(refresh.Options[string, []Event]{
//	    Cache:   events,
//	    Fetcher: api,
//	})
//
//	if v, ok := r.Snapshot("pet-1"); ok {
//	    render(v) // immediate, possibly stale
//	}
//	r.Go(ctx, "pet-1") // fresh data arrives via the cache's Subscribe
package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fetchkit/snapcache/core/cache"
	"github.com/fetchkit/snapcache/core/sf"
	"github.com/fetchkit/snapcache/ports/fetch"
)

var (
	ErrCacheRequired   = errors.New("cache is required")
	ErrFetcherRequired = errors.New("fetcher is required")
)

// Options configures a Refresher.
type Options[K comparable, V any] struct {
	// Cache receives fetched values. Required.
	Cache cache.Cache[K, V]

	// Fetcher loads fresh values from upstream. Required.
	Fetcher fetch.Fetcher[K, V]

	// TTL overrides the cache's default TTL for refreshed entries.
	// Zero keeps the default.
	TTL time.Duration

	// Log defaults to a discarding logger.
	Log *slog.Logger
}

// Refresher couples a cache with an upstream fetcher.
type Refresher[K comparable, V any] struct {
	cache   cache.Cache[K, V]
	fetcher fetch.Fetcher[K, V]
	ttl     time.Duration
	log     *slog.Logger
	group   sf.Group[V]
}

// New creates a Refresher.
func New[K comparable, V any](opts Options[K, V]) (*Refresher[K, V], error) {
	if opts.Cache == nil {
		return nil, ErrCacheRequired
	}
	if opts.Fetcher == nil {
		return nil, ErrFetcherRequired
	}
	if opts.Log == nil {
		opts.Log = slog.New(slog.DiscardHandler)
	}
	return &Refresher[K, V]{
		cache:   opts.Cache,
		fetcher: opts.Fetcher,
		ttl:     opts.TTL,
		log:     opts.Log,
	}, nil
}

// Snapshot returns the cached value for key, if live. Synchronous, never
// blocks on I/O.
func (r *Refresher[K, V]) Snapshot(key K) (V, bool) {
	return r.cache.Get(key)
}

// Refresh fetches key from upstream and writes the result to the cache,
// firing the cache's change notification. Concurrent calls for the same key
// share one fetch (joined callers also share the first caller's context).
// On failure the cached value is left as is and the classified fetch error
// is returned.
func (r *Refresher[K, V]) Refresh(ctx context.Context, key K) (V, error) {
	v, err, _ := r.group.Do(fmt.Sprintf("%v", key), func() (V, error) {
		v, err := r.fetcher.Fetch(ctx, key)
		if err != nil {
			return v, err
		}
		if r.ttl > 0 {
			r.cache.Set(key, v, cache.WithTTL(r.ttl))
		} else {
			r.cache.Set(key, v)
		}
		return v, nil
	})
	if err != nil {
		r.log.Warn("refresh failed, keeping last known value",
			slog.Any("key", key),
			slog.String("kind", string(fetch.KindOf(err))),
			slog.Any("error", err),
		)
		var zero V
		return zero, err
	}
	return v, nil
}

// Go runs Refresh on its own goroutine. Failures are logged and otherwise
// dropped; a cancelled fetch simply never reaches the cache.
func (r *Refresher[K, V]) Go(ctx context.Context, key K) {
	go func() {
		_, _ = r.Refresh(ctx, key)
	}()
}
