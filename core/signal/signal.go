// Package signal provides a minimal synchronous publish/subscribe hub.
//
// A [Hub] fans a value out to all current subscribers, in subscription order,
// on the goroutine that calls [Hub.Publish]. There is no buffering and no
// delivery goroutine: by the time Publish returns, every subscriber has run.
// This is the change-notification contract the cache relies on, where an
// observer reads a fresh snapshot synchronously in response to a change and
// must never observe a torn state.
//
// Subscribers must not block; they run on the publisher's goroutine.
package signal

import (
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Hub dispatches published values to subscribers synchronously.
// Safe for concurrent use.
type Hub[T any] struct {
	mu   sync.RWMutex
	subs []subscriber[T]
}

type subscriber[T any] struct {
	id string
	fn func(T)
}

// NewHub creates an empty hub.
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{}
}

// Subscribe registers fn to be called on every subsequent Publish.
// The returned subscription detaches fn again; it is safe to unsubscribe
// from within fn.
func (h *Hub[T]) Subscribe(fn func(T)) *Subscription {
	id := gonanoid.Must(8)

	h.mu.Lock()
	h.subs = append(h.subs, subscriber[T]{id: id, fn: fn})
	h.mu.Unlock()

	return &Subscription{
		id:     id,
		cancel: func() { h.remove(id) },
	}
}

// Publish invokes all subscribers with v, in subscription order, on the
// calling goroutine.
func (h *Hub[T]) Publish(v T) {
	// Copy subscribers to avoid holding the lock while invoking user code.
	h.mu.RLock()
	subs := make([]subscriber[T], len(h.subs))
	copy(subs, h.subs)
	h.mu.RUnlock()

	for _, s := range subs {
		s.fn(v)
	}
}

// Len returns the number of active subscriptions.
func (h *Hub[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub[T]) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, s := range h.subs {
		if s.id == id {
			h.subs = append(h.subs[:i], h.subs[i+1:]...)
			return
		}
	}
}

// Subscription is a handle to an active subscriber registration.
type Subscription struct {
	id     string
	cancel func()
	once   sync.Once
}

// ID returns the unique subscriber id.
func (s *Subscription) ID() string { return s.id }

// Unsubscribe detaches the subscriber. Idempotent.
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}
