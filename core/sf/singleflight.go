// Package sf provides a typed single-flight group for deduplicating
// concurrent calls that share a key.
//
// While a call for a key is in flight, further calls with the same key block
// and receive the first call's result instead of executing again. This is
// the coordination a cache-filling caller needs for at-most-one-fetch-per-key
// semantics; the cache itself makes no such promise.
package sf

import "golang.org/x/sync/singleflight"

// Group deduplicates concurrent calls per key. The zero value is ready to use.
type Group[T any] struct {
	g singleflight.Group
}

// Do executes fn for key, collapsing concurrent duplicates. shared reports
// whether the result was also delivered to other callers.
func (g *Group[T]) Do(key string, fn func() (T, error)) (out T, err error, shared bool) {
	v, err, shared := g.g.Do(key, func() (any, error) {
		return fn()
	})
	if err != nil {
		return out, err, shared
	}
	return v.(T), nil, shared
}

// Forget drops the in-flight record for key, so the next Do starts a fresh
// execution instead of joining an older one.
func (g *Group[T]) Forget(key string) {
	g.g.Forget(key)
}
