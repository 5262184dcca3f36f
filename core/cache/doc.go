// Package cache provides a bounded, generic in-memory key-value cache with
// per-entry TTL, LRU eviction and synchronous change notifications.
//
// The cache is passive storage: it never fetches, never blocks on I/O, and a
// miss is an empty result rather than an error. Callers decide when to fetch
// and when to write; see the refresh package for the usual
// render-then-refresh wiring.
//
// # Usage
//
//	events, err := cache.New[string, []HealthEvent](cache.Options{
//	    Name:       "health_events",
//	    MaxSize:    50,
//	    DefaultTTL: 30 * time.Minute,
//	})
//	if err != nil {
//	    return err
//	}
//
//	events.Set("pet-1", fetched)
//	if v, ok := events.Get("pet-1"); ok {
//	    render(v)
//	}
//
// # Expiry
//
// TTL is absolute: an entry is live while now - insertedAt < ttl, and reads
// never extend its life. Last access time only orders eviction. Expired
// entries are purged lazily on access or in bulk by [LRU.RemoveExpired];
// run a [Sweeper] to do the latter periodically.
//
// Expiry compares wall-clock times and assumes the clock does not move
// backward. If it does, entries may outlive their TTL until the clock
// catches up.
//
// # Change notifications
//
// Subscribers are invoked synchronously on the mutating goroutine, after the
// mutation commits and the internal lock is released, so a subscriber can
// read back a consistent snapshot immediately:
//
//	sub := events.Subscribe(func(ch cache.Change[string]) {
//	    rerender(ch.Keys)
//	})
//	defer sub.Unsubscribe()
//
// Reads do not notify; Get is a pure read whose only side effects are
// recency bookkeeping and lazy purging.
package cache
