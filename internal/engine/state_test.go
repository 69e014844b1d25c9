package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCooldownMapActive(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	c := newCooldownMap()

	assert.False(t, c.Active("u1", time.Hour, now))

	c.Mark("u1", now)
	assert.True(t, c.Active("u1", time.Hour, now.Add(59*time.Minute)))
	assert.False(t, c.Active("u1", time.Hour, now.Add(time.Hour)))

	c.Remove("u1")
	_, ok := c.Get("u1")
	assert.False(t, ok)
}

func TestCooldownMapMarkOverwrites(t *testing.T) {
	now := time.Now()
	c := newCooldownMap()

	c.Mark("u1", now)
	c.Mark("u1", now.Add(time.Minute))

	assert.Equal(t, 1, c.Len())
	at, ok := c.Get("u1")
	require.True(t, ok)
	assert.Equal(t, now.Add(time.Minute), at)
}

func TestCooldownMapSweep(t *testing.T) {
	now := time.Now()
	c := newCooldownMap()
	c.Mark("old", now.Add(-3*time.Hour))
	c.Mark("fresh", now.Add(-10*time.Minute))

	removed := c.Sweep(time.Hour, now)

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("fresh")
	assert.True(t, ok)
}

func TestActivityWindowEvictsOldest(t *testing.T) {
	base := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	w := newActivityWindow(200)

	for i := 0; i < 250; i++ {
		w.Add(base.Add(time.Duration(i) * time.Second))
	}

	assert.Equal(t, 200, w.Len())
	// the first 50 timestamps were evicted
	assert.Equal(t, 200, w.CountSince(base.Add(49*time.Second)))
}

func TestActivityWindowCountSince(t *testing.T) {
	base := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	w := newActivityWindow(200)
	for i := 0; i < 10; i++ {
		w.Add(base.Add(time.Duration(i) * time.Minute))
	}

	assert.Equal(t, 4, w.CountSince(base.Add(5*time.Minute)))
	assert.Equal(t, 10, w.CountSince(base.Add(-time.Minute)))
	assert.Equal(t, 0, w.CountSince(base.Add(time.Hour)))
}

func TestMessageCacheCapacity(t *testing.T) {
	c := newMessageCache(50)
	for i := 0; i < 60; i++ {
		ok := c.Add(cachedMessage{AuthorID: fmt.Sprintf("u%d", i), Content: "hi"}, 0)
		assert.True(t, ok)
	}

	assert.Equal(t, 50, c.Len())
	// oldest entries rolled off
	m, ok := c.Pick(func(int) int { return 0 })
	require.True(t, ok)
	assert.Equal(t, "u10", m.AuthorID)
}

func TestMessageCachePerAuthorCap(t *testing.T) {
	c := newMessageCache(50)
	for i := 0; i < 5; i++ {
		assert.True(t, c.Add(cachedMessage{AuthorID: "u1", Content: "spam"}, 5))
	}
	assert.False(t, c.Add(cachedMessage{AuthorID: "u1", Content: "spam"}, 5))
	assert.True(t, c.Add(cachedMessage{AuthorID: "u2", Content: "hi"}, 5))
	assert.Equal(t, 6, c.Len())
}

func TestMessageCachePickEmpty(t *testing.T) {
	c := newMessageCache(50)
	_, ok := c.Pick(func(int) int { return 0 })
	assert.False(t, ok)
}

func TestSwapPlayingReturnsNewGames(t *testing.T) {
	st := newState(time.Now())

	started := st.swapPlaying("u1", []string{"Game X"})
	assert.Equal(t, []string{"Game X"}, started)

	// same set again is not a new start
	started = st.swapPlaying("u1", []string{"Game X"})
	assert.Empty(t, started)

	// adding a second game reports only the addition
	started = st.swapPlaying("u1", []string{"Game X", "Game Y"})
	assert.Equal(t, []string{"Game Y"}, started)

	// clearing the set, then starting fresh, reports the restart
	st.swapPlaying("u1", nil)
	started = st.swapPlaying("u1", []string{"Game X"})
	assert.Equal(t, []string{"Game X"}, started)
}

func TestHypeCooldown(t *testing.T) {
	now := time.Now()
	st := newState(now)

	assert.False(t, st.hypeCoolingDown(now))
	st.setHypeCooldown(now.Add(30 * time.Minute))
	assert.True(t, st.hypeCoolingDown(now.Add(29*time.Minute)))
	assert.False(t, st.hypeCoolingDown(now.Add(31*time.Minute)))
}
