// Package fetch defines the contract between cache-filling callers and the
// upstream data source, plus an HTTP/JSON implementation.
//
// The cache never performs I/O; a Fetcher is how the caller obtains fresh
// values to write into it. Fetch failures carry a [Kind] so callers can
// distinguish retryable trouble (network, rate limiting, server errors) from
// terminal trouble (auth, decode) without parsing error strings.
package fetch

import (
	"context"
	"errors"
	"fmt"
)

// Fetcher loads the value for a key from the upstream source.
type Fetcher[K comparable, V any] interface {
	// Fetch returns the current upstream value for key. Errors are *Error
	// values classified by Kind. Honors ctx cancellation.
	Fetch(ctx context.Context, key K) (V, error)
}

// Func adapts a plain function to the Fetcher interface.
type Func[K comparable, V any] func(ctx context.Context, key K) (V, error)

func (f Func[K, V]) Fetch(ctx context.Context, key K) (V, error) {
	return f(ctx, key)
}

// Kind classifies a fetch failure.
type Kind string

const (
	KindNetwork   Kind = "network"    // transport failure, nothing reached the server
	KindDecode    Kind = "decode"     // response arrived but could not be decoded
	KindAuth      Kind = "auth"       // 401/403
	KindRateLimit Kind = "rate_limit" // 429
	KindServer    Kind = "server"     // 5xx
	KindUnknown   Kind = "unknown"    // anything else
)

// Error is a classified fetch failure.
type Error struct {
	Kind   Kind
	Status int   // HTTP status when one was received, else 0
	Err    error // underlying cause, may be nil for bare status errors
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("fetch %s", e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// NewError creates a classified fetch error.
func NewError(kind Kind, status int, err error) *Error {
	return &Error{Kind: kind, Status: status, Err: err}
}

// KindOf extracts the failure class from err. Returns KindUnknown for nil or
// foreign errors.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}
