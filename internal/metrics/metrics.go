// internal/metrics/metrics.go

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SourceFetchTotal counts adapter calls by outcome (live or fallback)
	SourceFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "partypulse",
			Name:      "source_fetch_total",
			Help:      "Total number of source adapter calls by outcome",
		},
		[]string{"source", "outcome"},
	)

	// CacheLookupsTotal counts cache lookups by result (hit or miss)
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "partypulse",
			Name:      "cache_lookups_total",
			Help:      "Total number of cache lookups",
		},
		[]string{"cache", "result"},
	)

	// RefreshTotal counts manual refreshes
	RefreshTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "partypulse",
			Name:      "refresh_total",
			Help:      "Total number of cache refreshes",
		},
	)
)

// RecordFetch records the outcome of a source adapter call
func RecordFetch(source string, live bool) {
	outcome := "fallback"
	if live {
		outcome = "live"
	}
	SourceFetchTotal.WithLabelValues(source, outcome).Inc()
}

// RecordCacheLookup records a cache hit or miss
func RecordCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(cache, result).Inc()
}
