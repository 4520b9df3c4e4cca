// Package cache provides the in-process response cache: a bounded LRU store
// with per-entry TTL, an optional byte ceiling, and hit/miss/eviction stats.
package cache

import (
	"container/list"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultMaxItems = 500
	DefaultTTL      = 5 * time.Minute
)

// ErrEntryTooLarge is returned when a single entry exceeds the byte ceiling.
var ErrEntryTooLarge = errors.New("cache entry exceeds byte budget")

type entry struct {
	key       string
	value     any
	createdAt time.Time
	expiresAt time.Time // zero = never
	size      int64
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Store is safe for concurrent use.
type Store struct {
	mu sync.Mutex

	maxItems int
	maxBytes int64
	ttl      time.Duration
	sizer    Sizer
	log      zerolog.Logger
	now      func() time.Time

	ll    *list.List // front = most recently used
	items map[string]*list.Element
	bytes int64

	stats StatsCollector
}

type Option func(*Store)

// WithMaxItems bounds the number of entries. n <= 0 keeps the default.
func WithMaxItems(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxItems = n
		}
	}
}

// WithMaxBytes bounds the total estimated size. 0 disables size-based eviction.
func WithMaxBytes(n int64) Option {
	return func(s *Store) {
		if n < 0 {
			n = 0
		}
		s.maxBytes = n
	}
}

// WithTTL sets the default time-to-live. d <= 0 means entries never expire.
func WithTTL(d time.Duration) Option {
	return func(s *Store) { s.ttl = d }
}

func WithSizer(sz Sizer) Option {
	return func(s *Store) {
		if sz != nil {
			s.sizer = sz
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		maxItems: DefaultMaxItems,
		ttl:      DefaultTTL,
		sizer:    JSONSizer{},
		log:      zerolog.Nop(),
		now:      time.Now,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Get returns the live value for key and marks it most recently used.
// Expired entries are purged here and reported as a miss.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[key]
	if !ok {
		s.stats.miss()
		return nil, false
	}
	e := el.Value.(*entry)
	if e.expired(s.now()) {
		s.removeElement(el)
		s.stats.expire()
		s.stats.miss()
		s.stats.usage(s.ll.Len(), s.bytes)
		return nil, false
	}
	s.ll.MoveToFront(el)
	s.stats.hit()
	return e.value, true
}

// Set stores value under the default TTL.
func (s *Store) Set(key string, value any) error {
	return s.SetWithTTL(key, value, s.ttl)
}

// SetWithTTL stores value, evicting least recently used entries until both the
// item and byte ceilings hold. An entry larger than the whole byte budget is
// rejected with ErrEntryTooLarge and the store is left untouched.
func (s *Store) SetWithTTL(key string, value any, ttl time.Duration) error {
	size, err := s.sizer.Size(key, value)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache size estimation failed, accounting as zero bytes")
		size = 0
	}
	if size < 0 {
		size = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxBytes > 0 && size > s.maxBytes {
		s.stats.reject()
		s.log.Debug().Str("key", key).Int64("size", size).Int64("max_bytes", s.maxBytes).Msg("cache entry rejected")
		return ErrEntryTooLarge
	}

	if el, ok := s.items[key]; ok {
		s.removeElement(el)
	}
	for s.maxItems > 0 && s.ll.Len() >= s.maxItems {
		s.evictOldest()
	}
	for s.maxBytes > 0 && s.bytes+size > s.maxBytes && s.ll.Len() > 0 {
		s.evictOldest()
	}

	now := s.now()
	e := &entry{key: key, value: value, createdAt: now, size: size}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	s.items[key] = s.ll.PushFront(e)
	s.bytes += size
	s.stats.set()
	s.stats.usage(s.ll.Len(), s.bytes)
	return nil
}

// Delete removes key and reports whether it was present.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[key]
	if !ok {
		return false
	}
	s.removeElement(el)
	s.stats.usage(s.ll.Len(), s.bytes)
	return true
}

// Clear drops every entry. Counters are kept.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ll.Init()
	s.items = make(map[string]*list.Element)
	s.bytes = 0
	s.stats.usage(0, 0)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ll.Len()
}

func (s *Store) Bytes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bytes
}

// Stats returns counters and configured ceilings without taking the store lock.
func (s *Store) Stats() Stats {
	out := s.stats.Snapshot()
	out.MaxItems = s.maxItems
	out.MaxBytes = s.maxBytes
	return out
}

// evictOldest must be called with mu held.
func (s *Store) evictOldest() {
	el := s.ll.Back()
	if el == nil {
		return
	}
	e := el.Value.(*entry)
	s.removeElement(el)
	s.stats.evict(s.now())
	s.log.Debug().Str("key", e.key).Int64("size", e.size).Msg("cache entry evicted")
}

// removeElement must be called with mu held.
func (s *Store) removeElement(el *list.Element) {
	e := el.Value.(*entry)
	s.ll.Remove(el)
	delete(s.items, e.key)
	s.bytes -= e.size
}
