package cache

import "errors"

var (
	// Configuration errors, surfaced by New.
	ErrBadMaxSize = errors.New("max size must be > 0")
	ErrBadTTL     = errors.New("default ttl must be > 0")
)
