package cache

// Metrics defines the instrumentation hooks for a cache instance.
// All methods are thread-safe. The cache argument is the instance name
// from Options.Name, so one Metrics implementation can serve many caches.
type Metrics interface {
	// Reads
	Hit(cache string)
	Miss(cache string)

	// Removals
	Eviction(cache string)
	Expired(cache string, count int)

	// Size reports the entry count after a mutation.
	Size(cache string, size int)
}

// nopMetrics is a no-op implementation of Metrics.
type nopMetrics struct{}

func (nopMetrics) Hit(string)          {}
func (nopMetrics) Miss(string)         {}
func (nopMetrics) Eviction(string)     {}
func (nopMetrics) Expired(string, int) {}
func (nopMetrics) Size(string, int)    {}

// NopMetrics returns a no-op Metrics implementation.
func NopMetrics() Metrics { return nopMetrics{} }
