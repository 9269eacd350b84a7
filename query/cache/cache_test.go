package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_GetSet(t *testing.T) {
	c := New[string](2, 0, nil)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", "1", 0)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	stats := c.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, 2, stats.MaxSize)
	assert.InDelta(t, 50.0, stats.HitRate, 0.001)
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []string
	c := New[int](2, 0, func(key string, _ int) { evicted = append(evicted, key) })

	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	_, _ = c.Get("a")
	c.Set("c", 3, 0)

	assert.Equal(t, []string{"b"}, evicted)
	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, int64(1), c.GetStats().Evictions)
}

func TestLRU_ReplaceReportsOldValue(t *testing.T) {
	var evicted []int
	c := New[int](2, 0, func(_ string, v int) { evicted = append(evicted, v) })

	c.Set("a", 1, 0)
	c.Set("a", 2, 0)

	assert.Equal(t, []int{1}, evicted)
	assert.Equal(t, 1, c.Len())
	v, _ := c.Get("a")
	assert.Equal(t, 2, v)
}

func TestLRU_SetIfAbsentKeepsExisting(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var evicted []int
	c := New[int](2, time.Minute, func(_ string, v int) { evicted = append(evicted, v) })
	c.now = func() time.Time { return now }

	v, loaded := c.SetIfAbsent("a", 1, 0)
	assert.False(t, loaded)
	assert.Equal(t, 1, v)

	v, loaded = c.SetIfAbsent("a", 2, 0)
	assert.True(t, loaded)
	assert.Equal(t, 1, v)
	assert.Empty(t, evicted)

	// An expired value is replaced
	now = now.Add(2 * time.Minute)
	v, loaded = c.SetIfAbsent("a", 3, 0)
	assert.False(t, loaded)
	assert.Equal(t, 3, v)
	assert.Equal(t, []int{1}, evicted)
	assert.Equal(t, 1, c.Len())
}

func TestLRU_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var evicted []string
	c := New[string](4, time.Minute, func(key string, _ string) { evicted = append(evicted, key) })
	c.now = func() time.Time { return now }

	c.Set("a", "x", 0)
	c.Set("b", "y", time.Hour)

	now = now.Add(2 * time.Minute)
	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)
	assert.Equal(t, []string{"a"}, evicted)
}

func TestLRU_InvalidateAndClear(t *testing.T) {
	var evicted []string
	c := New[bool](4, 0, func(key string, _ bool) { evicted = append(evicted, key) })

	c.Set("a", true, 0)
	c.Set("b", true, 0)
	c.Set("c", true, 0)

	c.Invalidate("b")
	c.Invalidate("missing")
	assert.Equal(t, []string{"b"}, evicted)

	c.Clear()
	assert.ElementsMatch(t, []string{"a", "b", "c"}, evicted)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, Stats{MaxSize: 4}, c.GetStats())
}

func TestStatementKey(t *testing.T) {
	a := StatementKey("postgres", "SELECT 1")
	assert.Equal(t, a, StatementKey("postgres", "SELECT 1"))
	assert.NotEqual(t, a, StatementKey("mysql", "SELECT 1"))
	assert.NotEqual(t, a, StatementKey("postgres", "SELECT 2"))
	assert.Len(t, a, len("postgres:")+16)
}
