// Package ds provides small generic data structures shared by the cache core.
package ds

import (
	"encoding/json"
	"fmt"
)

// Set is an ordered set: O(1) membership testing with insertion order
// preserved for iteration, so key listings are deterministic.
type Set[T comparable] struct {
	items map[T]struct{}
	order []T
}

// NewSet creates a new set with the given items.
func NewSet[T comparable](items ...T) *Set[T] {
	s := &Set[T]{items: map[T]struct{}{}, order: make([]T, 0, len(items))}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

func (s *Set[T]) String() string {
	return fmt.Sprintf("%v", s.order)
}

// Add adds v to the set. No-op if already present. (mutates)
func (s *Set[T]) Add(v T) {
	if _, ok := s.items[v]; ok {
		return
	}
	s.items[v] = struct{}{}
	s.order = append(s.order, v)
}

// Remove removes v from the set if present. O(n) in the set size. (mutates)
func (s *Set[T]) Remove(v T) {
	if _, ok := s.items[v]; !ok {
		return
	}
	delete(s.items, v)
	for i, o := range s.order {
		if o == v {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Contains returns true if v is present in the set.
func (s *Set[T]) Contains(v T) bool {
	_, ok := s.items[v]
	return ok
}

// Len returns the number of elements in the set.
func (s *Set[T]) Len() int { return len(s.items) }

// IsEmpty returns true if the set contains no elements.
func (s *Set[T]) IsEmpty() bool { return len(s.items) == 0 }

// Values returns a copy of the elements in insertion order.
func (s *Set[T]) Values() []T {
	out := make([]T, len(s.order))
	copy(out, s.order)
	return out
}

// ForEach iterates over all elements in insertion order, calling fn for each.
func (s *Set[T]) ForEach(fn func(T)) {
	for _, v := range s.order {
		fn(v)
	}
}

// Eq returns true if both sets contain the same elements (order is ignored).
func (s *Set[T]) Eq(other *Set[T]) bool {
	if s.Len() != other.Len() {
		return false
	}
	for v := range s.items {
		if !other.Contains(v) {
			return false
		}
	}
	return true
}

// EqValues returns true if the set contains exactly the given items.
func (s *Set[T]) EqValues(items ...T) bool {
	return s.Eq(NewSet(items...))
}

// MarshalJSON serializes the set as an ordered JSON array.
func (s Set[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}
