package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CacheStats is a point-in-time snapshot of assignment cache counters,
// reported by the cache implementation on scrape.
type CacheStats struct {
	Hits          int64
	Misses        int64
	Invalidations int64
	Entries       int
}

// assignmentCacheCollector exports the cache's own counters on scrape,
// so the cache keeps owning them and no write-path hook is needed.
type assignmentCacheCollector struct {
	stats func() CacheStats

	hits          *prometheus.Desc
	misses        *prometheus.Desc
	invalidations *prometheus.Desc
	entries       *prometheus.Desc
}

// NewAssignmentCacheCollector creates a collector over the given
// snapshot function. Register it on the same registry as Metrics.
func NewAssignmentCacheCollector(stats func() CacheStats) prometheus.Collector {
	return &assignmentCacheCollector{
		stats: stats,
		hits: prometheus.NewDesc(
			"ams_assignment_cache_hits_total",
			"Total number of role assignment cache hits",
			nil, nil,
		),
		misses: prometheus.NewDesc(
			"ams_assignment_cache_misses_total",
			"Total number of role assignment cache misses",
			nil, nil,
		),
		invalidations: prometheus.NewDesc(
			"ams_assignment_cache_invalidations_total",
			"Total number of role assignment cache invalidations",
			nil, nil,
		),
		entries: prometheus.NewDesc(
			"ams_assignment_cache_entries",
			"Number of actors currently cached",
			nil, nil,
		),
	}
}

func (c *assignmentCacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.invalidations
	ch <- c.entries
}

func (c *assignmentCacheCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.invalidations, prometheus.CounterValue, float64(s.Invalidations))
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(s.Entries))
}
