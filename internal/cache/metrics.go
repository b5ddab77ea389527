package cache

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// CacheMetrics counts cache outcomes. It is a prometheus.Collector, so the
// same counters back both the stats endpoint and /metrics.
type CacheMetrics struct {
	hits    atomic.Int64
	misses  atomic.Int64
	errors  atomic.Int64
	sets    atomic.Int64
	deletes atomic.Int64

	desc *prometheus.Desc
}

type CacheStats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Errors  int64   `json:"errors"`
	Sets    int64   `json:"sets"`
	Deletes int64   `json:"deletes"`
	HitRate float64 `json:"hit_rate"`
}

func NewCacheMetrics() *CacheMetrics {
	return &CacheMetrics{
		desc: prometheus.NewDesc(
			"todo_cache_operations_total",
			"Task list cache operations by outcome.",
			[]string{"outcome"}, nil,
		),
	}
}

func (m *CacheMetrics) RecordHit()    { m.hits.Add(1) }
func (m *CacheMetrics) RecordMiss()   { m.misses.Add(1) }
func (m *CacheMetrics) RecordError()  { m.errors.Add(1) }
func (m *CacheMetrics) RecordSet()    { m.sets.Add(1) }
func (m *CacheMetrics) RecordDelete() { m.deletes.Add(1) }

func (m *CacheMetrics) GetStats() CacheStats {
	return CacheStats{
		Hits:    m.hits.Load(),
		Misses:  m.misses.Load(),
		Errors:  m.errors.Load(),
		Sets:    m.sets.Load(),
		Deletes: m.deletes.Load(),
		HitRate: m.HitRate(),
	}
}

// HitRate is the percentage of lookups served from the cache.
func (m *CacheMetrics) HitRate() float64 {
	hits := m.hits.Load()
	total := hits + m.misses.Load()
	if total == 0 {
		return 0.0
	}
	return float64(hits) / float64(total) * 100.0
}

func (m *CacheMetrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.desc
}

func (m *CacheMetrics) Collect(ch chan<- prometheus.Metric) {
	for outcome, v := range map[string]int64{
		"hit":    m.hits.Load(),
		"miss":   m.misses.Load(),
		"error":  m.errors.Load(),
		"set":    m.sets.Load(),
		"delete": m.deletes.Load(),
	} {
		ch <- prometheus.MustNewConstMetric(m.desc, prometheus.CounterValue, float64(v), outcome)
	}
}
