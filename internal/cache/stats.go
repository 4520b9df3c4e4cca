package cache

import (
	"sync/atomic"
	"time"
)

// Stats is a point-in-time view of cache counters.
type Stats struct {
	Hits         int64      `json:"hits"`
	Misses       int64      `json:"misses"`
	Sets         int64      `json:"sets"`
	Evictions    int64      `json:"evictions"`
	Expirations  int64      `json:"expirations"`
	Rejected     int64      `json:"rejected"`
	Items        int64      `json:"items"`
	Bytes        int64      `json:"bytes"`
	MaxItems     int        `json:"maxItems"`
	MaxBytes     int64      `json:"maxBytes"`
	HitRatio     float64    `json:"hitRatio"`
	LastEviction *time.Time `json:"lastEviction,omitempty"`
}

// StatsCollector holds monotonically increasing counters plus current usage.
// All fields are atomics so readers never contend with the store lock.
type StatsCollector struct {
	hits         atomic.Int64
	misses       atomic.Int64
	sets         atomic.Int64
	evictions    atomic.Int64
	expirations  atomic.Int64
	rejected     atomic.Int64
	items        atomic.Int64
	bytes        atomic.Int64
	lastEviction atomic.Int64 // unix nanos, 0 = never
}

func (s *StatsCollector) hit()    { s.hits.Add(1) }
func (s *StatsCollector) miss()   { s.misses.Add(1) }
func (s *StatsCollector) set()    { s.sets.Add(1) }
func (s *StatsCollector) expire() { s.expirations.Add(1) }
func (s *StatsCollector) reject() { s.rejected.Add(1) }

func (s *StatsCollector) evict(at time.Time) {
	s.evictions.Add(1)
	s.lastEviction.Store(at.UnixNano())
}

func (s *StatsCollector) usage(items int, bytes int64) {
	s.items.Store(int64(items))
	s.bytes.Store(bytes)
}

// Snapshot copies the counters.
func (s *StatsCollector) Snapshot() Stats {
	out := Stats{
		Hits:        s.hits.Load(),
		Misses:      s.misses.Load(),
		Sets:        s.sets.Load(),
		Evictions:   s.evictions.Load(),
		Expirations: s.expirations.Load(),
		Rejected:    s.rejected.Load(),
		Items:       s.items.Load(),
		Bytes:       s.bytes.Load(),
	}
	if total := out.Hits + out.Misses; total > 0 {
		out.HitRatio = float64(out.Hits) / float64(total)
	}
	if ns := s.lastEviction.Load(); ns != 0 {
		t := time.Unix(0, ns).UTC()
		out.LastEviction = &t
	}
	return out
}
