// Package prometheus provides a Prometheus implementation of the cache
// metrics interface, so core packages stay decoupled from any specific
// instrumentation backend.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fetchkit/snapcache/core/cache"
)

// cacheMetrics implements cache.Metrics using Prometheus.
type cacheMetrics struct {
	hits      *prometheus.CounterVec
	misses    *prometheus.CounterVec
	evictions *prometheus.CounterVec
	expired   *prometheus.CounterVec
	entries   *prometheus.GaugeVec
}

// NewCacheMetrics creates a Prometheus implementation of cache.Metrics.
// All series are labelled by cache name, so one instance serves every cache
// in the process.
func NewCacheMetrics(reg prometheus.Registerer) cache.Metrics {
	m := &cacheMetrics{
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "snapcache_hits_total",
			Help: "Total number of cache reads that returned a live value",
		}, []string{"cache"}),

		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "snapcache_misses_total",
			Help: "Total number of cache reads that found nothing live",
		}, []string{"cache"}),

		evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "snapcache_evictions_total",
			Help: "Total number of live entries evicted to respect the size bound",
		}, []string{"cache"}),

		expired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "snapcache_expired_total",
			Help: "Total number of entries removed because their TTL elapsed",
		}, []string{"cache"}),

		entries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "snapcache_entries",
			Help: "Current number of entries held",
		}, []string{"cache"}),
	}

	reg.MustRegister(
		m.hits,
		m.misses,
		m.evictions,
		m.expired,
		m.entries,
	)

	return m
}

func (m *cacheMetrics) Hit(cache string) {
	m.hits.WithLabelValues(cache).Inc()
}

func (m *cacheMetrics) Miss(cache string) {
	m.misses.WithLabelValues(cache).Inc()
}

func (m *cacheMetrics) Eviction(cache string) {
	m.evictions.WithLabelValues(cache).Inc()
}

func (m *cacheMetrics) Expired(cache string, count int) {
	m.expired.WithLabelValues(cache).Add(float64(count))
}

func (m *cacheMetrics) Size(cache string, size int) {
	m.entries.WithLabelValues(cache).Set(float64(size))
}

var _ cache.Metrics = (*cacheMetrics)(nil)
