package cache

import "github.com/prometheus/client_golang/prometheus"

// PrometheusCollector exports Store stats on scrape.
type PrometheusCollector struct {
	store *Store

	hits         *prometheus.Desc
	misses       *prometheus.Desc
	evictions    *prometheus.Desc
	expirations  *prometheus.Desc
	rejected     *prometheus.Desc
	items        *prometheus.Desc
	bytes        *prometheus.Desc
	lastEviction *prometheus.Desc
}

func NewPrometheusCollector(namespace string, s *Store) *PrometheusCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "cache", name), help, nil, nil)
	}
	return &PrometheusCollector{
		store:        s,
		hits:         desc("hits_total", "Total number of cache hits"),
		misses:       desc("misses_total", "Total number of cache misses"),
		evictions:    desc("evictions_total", "Total number of LRU evictions"),
		expirations:  desc("expirations_total", "Total number of entries purged after TTL"),
		rejected:     desc("rejected_total", "Total number of entries rejected as too large"),
		items:        desc("items", "Current number of cached entries"),
		bytes:        desc("bytes", "Current estimated size of cached entries"),
		lastEviction: desc("last_eviction_timestamp_seconds", "Unix time of the last eviction"),
	}
}

func (c *PrometheusCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.expirations
	ch <- c.rejected
	ch <- c.items
	ch <- c.bytes
	ch <- c.lastEviction
}

func (c *PrometheusCollector) Collect(ch chan<- prometheus.Metric) {
	st := c.store.Stats()
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(st.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(st.Misses))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(st.Evictions))
	ch <- prometheus.MustNewConstMetric(c.expirations, prometheus.CounterValue, float64(st.Expirations))
	ch <- prometheus.MustNewConstMetric(c.rejected, prometheus.CounterValue, float64(st.Rejected))
	ch <- prometheus.MustNewConstMetric(c.items, prometheus.GaugeValue, float64(st.Items))
	ch <- prometheus.MustNewConstMetric(c.bytes, prometheus.GaugeValue, float64(st.Bytes))
	var last float64
	if st.LastEviction != nil {
		last = float64(st.LastEviction.UnixNano()) / 1e9
	}
	ch <- prometheus.MustNewConstMetric(c.lastEviction, prometheus.GaugeValue, last)
}
