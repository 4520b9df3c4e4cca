package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
}

// fixedSizer charges the listed size per key and 1 byte otherwise.
func fixedSizer(sizes map[string]int64) Sizer {
	return SizerFunc(func(key string, _ any) (int64, error) {
		if n, ok := sizes[key]; ok {
			return n, nil
		}
		return 1, nil
	})
}

func TestStore_EvictsLeastRecentlyUsedOnItemCeiling(t *testing.T) {
	s := New(WithMaxItems(3), WithTTL(time.Hour))

	require.NoError(t, s.Set("a", 1))
	require.NoError(t, s.Set("b", 2))
	require.NoError(t, s.Set("c", 3))
	require.NoError(t, s.Set("d", 4))

	_, ok := s.Get("a")
	assert.False(t, ok, "oldest entry should be evicted")
	for _, k := range []string{"b", "c", "d"} {
		_, ok := s.Get(k)
		assert.True(t, ok, "entry %s should survive", k)
	}
	assert.Equal(t, 3, s.Len())
	assert.EqualValues(t, 1, s.Stats().Evictions)
}

func TestStore_GetPromotesEntry(t *testing.T) {
	s := New(WithMaxItems(3), WithTTL(time.Hour))

	require.NoError(t, s.Set("a", 1))
	require.NoError(t, s.Set("b", 2))
	require.NoError(t, s.Set("c", 3))

	// a becomes most recent; b is now the LRU entry.
	_, ok := s.Get("a")
	require.True(t, ok)
	require.NoError(t, s.Set("d", 4))

	_, ok = s.Get("b")
	assert.False(t, ok)
	_, ok = s.Get("a")
	assert.True(t, ok)

	// order is now c, d, a (oldest first); two inserts drop c then d.
	require.NoError(t, s.Set("e", 5))
	require.NoError(t, s.Set("f", 6))
	_, ok = s.Get("c")
	assert.False(t, ok)
	_, ok = s.Get("d")
	assert.False(t, ok)
	_, ok = s.Get("a")
	assert.True(t, ok)
}

func TestStore_TTLExpiry(t *testing.T) {
	clock := newClock()
	s := New(WithTTL(time.Minute), WithClock(clock.Now))

	require.NoError(t, s.Set("k", "v"))

	clock.Advance(59 * time.Second)
	v, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	clock.Advance(time.Second)
	_, ok = s.Get("k")
	assert.False(t, ok, "entry must be absent once the TTL has elapsed")

	st := s.Stats()
	assert.EqualValues(t, 1, st.Hits)
	assert.EqualValues(t, 1, st.Misses)
	assert.EqualValues(t, 1, st.Expirations)
	assert.EqualValues(t, 0, st.Evictions)
	assert.Equal(t, 0, s.Len(), "expired entry is purged on access")
}

func TestStore_SetWithTTLOverridesDefault(t *testing.T) {
	clock := newClock()
	s := New(WithTTL(time.Hour), WithClock(clock.Now))

	require.NoError(t, s.SetWithTTL("short", 1, 10*time.Second))
	require.NoError(t, s.Set("long", 2))

	clock.Advance(11 * time.Second)
	_, ok := s.Get("short")
	assert.False(t, ok)
	_, ok = s.Get("long")
	assert.True(t, ok)
}

func TestStore_ExpiredEntriesAreNotSweptProactively(t *testing.T) {
	clock := newClock()
	s := New(WithTTL(time.Second), WithClock(clock.Now))

	require.NoError(t, s.Set("a", 1))
	clock.Advance(time.Minute)
	assert.Equal(t, 1, s.Len())
}

func TestStore_RejectsOversizedEntry(t *testing.T) {
	s := New(
		WithMaxBytes(100),
		WithSizer(fixedSizer(map[string]int64{"a": 40, "huge": 101})),
	)
	require.NoError(t, s.Set("a", 1))

	err := s.Set("huge", 2)
	require.ErrorIs(t, err, ErrEntryTooLarge)

	assert.Equal(t, 1, s.Len())
	assert.EqualValues(t, 40, s.Bytes())
	_, ok := s.Get("a")
	assert.True(t, ok)
	assert.EqualValues(t, 1, s.Stats().Rejected)
	assert.EqualValues(t, 0, s.Stats().Evictions)
}

func TestStore_OversizedReplacementKeepsExistingValue(t *testing.T) {
	calls := 0
	s := New(WithMaxBytes(50), WithSizer(SizerFunc(func(string, any) (int64, error) {
		calls++
		if calls == 1 {
			return 10, nil
		}
		return 60, nil
	})))
	require.NoError(t, s.Set("k", "small"))
	require.ErrorIs(t, s.Set("k", "big"), ErrEntryTooLarge)

	v, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "small", v)
	assert.EqualValues(t, 10, s.Bytes())
}

func TestStore_EvictsUntilBytesFit(t *testing.T) {
	s := New(
		WithMaxItems(10),
		WithMaxBytes(100),
		WithSizer(fixedSizer(map[string]int64{"a": 30, "b": 30, "c": 30, "d": 50})),
	)
	require.NoError(t, s.Set("a", 1))
	require.NoError(t, s.Set("b", 2))
	require.NoError(t, s.Set("c", 3))
	assert.EqualValues(t, 90, s.Bytes())

	// 90 + 50 > 100: a and b must go, c stays.
	require.NoError(t, s.Set("d", 4))
	assert.EqualValues(t, 80, s.Bytes())
	assert.Equal(t, 2, s.Len())
	_, ok := s.Get("c")
	assert.True(t, ok)
	_, ok = s.Get("a")
	assert.False(t, ok)

	st := s.Stats()
	assert.EqualValues(t, 2, st.Evictions)
	require.NotNil(t, st.LastEviction)
}

func TestStore_ItemCeilingAppliesWithoutByteCeiling(t *testing.T) {
	s := New(WithMaxItems(2), WithMaxBytes(0), WithSizer(fixedSizer(map[string]int64{"a": 1 << 40})))
	require.NoError(t, s.Set("a", 1))
	require.NoError(t, s.Set("b", 2))
	require.NoError(t, s.Set("c", 3))
	assert.Equal(t, 2, s.Len())
	_, ok := s.Get("a")
	assert.False(t, ok)
}

func TestStore_SizerFailureFailsOpen(t *testing.T) {
	s := New(WithMaxBytes(10), WithSizer(SizerFunc(func(string, any) (int64, error) {
		return 0, errors.New("boom")
	})))

	require.NoError(t, s.Set("k", make(chan int)))
	_, ok := s.Get("k")
	assert.True(t, ok)
	assert.EqualValues(t, 0, s.Bytes())
}

func TestStore_UnserializableValueWithJSONSizer(t *testing.T) {
	s := New(WithMaxBytes(1024))
	require.NoError(t, s.Set("fn", func() {}))
	_, ok := s.Get("fn")
	assert.True(t, ok)
	assert.EqualValues(t, 0, s.Bytes())
}

func TestStore_ReplaceReleasesOldSize(t *testing.T) {
	s := New(WithMaxBytes(1000))
	require.NoError(t, s.Set("k", "aaaaaaaaaa"))
	require.NoError(t, s.Set("k", "bb"))
	assert.Equal(t, 1, s.Len())
	assert.EqualValues(t, len("k")+2, s.Bytes())
}

func TestStore_DeleteAndClear(t *testing.T) {
	s := New()
	require.NoError(t, s.Set("a", 1))
	require.NoError(t, s.Set("b", 2))

	assert.True(t, s.Delete("a"))
	assert.False(t, s.Delete("a"))
	assert.Equal(t, 1, s.Len())

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.EqualValues(t, 0, s.Bytes())
	assert.EqualValues(t, 0, s.Stats().Items)
}

func TestStore_StatsCountersAndCeilings(t *testing.T) {
	s := New(WithMaxItems(7), WithMaxBytes(4096))
	_, _ = s.Get("missing")
	require.NoError(t, s.Set("a", 1))
	_, _ = s.Get("a")
	_, _ = s.Get("a")

	st := s.Stats()
	assert.EqualValues(t, 2, st.Hits)
	assert.EqualValues(t, 1, st.Misses)
	assert.EqualValues(t, 1, st.Sets)
	assert.EqualValues(t, 1, st.Items)
	assert.Equal(t, 7, st.MaxItems)
	assert.EqualValues(t, 4096, st.MaxBytes)
	assert.InDelta(t, 2.0/3.0, st.HitRatio, 1e-9)
	assert.Nil(t, st.LastEviction)
}

func TestStore_ConcurrentAccessKeepsAccountingConsistent(t *testing.T) {
	s := New(WithMaxItems(50), WithMaxBytes(50*64))

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("k%d", (w*31+i)%120)
				if i%3 == 0 {
					_ = s.Set(key, i)
				} else {
					_, _ = s.Get(key)
				}
			}
		}(w)
	}
	wg.Wait()

	assert.LessOrEqual(t, s.Len(), 50)
	var expect int64
	s.mu.Lock()
	for el := s.ll.Front(); el != nil; el = el.Next() {
		expect += el.Value.(*entry).size
	}
	assert.Equal(t, len(s.items), s.ll.Len())
	s.mu.Unlock()
	assert.Equal(t, expect, s.Bytes())
}
