package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// intnSeq returns queued values in order, then zero.
func intnSeq(vals ...int) func(int) int {
	i := 0
	return func(int) int {
		if i >= len(vals) {
			return 0
		}
		v := vals[i]
		i++
		return v
	}
}

func TestNextMorningDelayToday(t *testing.T) {
	now := time.Date(2025, 3, 12, 5, 0, 0, 0, time.UTC)

	// hour offset 2 -> 8:00, minute 30
	d := nextMorningDelay(now, 6, 10, intnSeq(2, 30))

	assert.Equal(t, 3*time.Hour+30*time.Minute, d)
}

func TestNextMorningDelayRollsToTomorrow(t *testing.T) {
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)

	// 8:30 already passed, so target is tomorrow morning
	d := nextMorningDelay(now, 6, 10, intnSeq(2, 30))

	assert.Equal(t, 20*time.Hour+30*time.Minute, d)
}

func TestNextMorningDelayExactNowRollsOver(t *testing.T) {
	now := time.Date(2025, 3, 12, 8, 30, 0, 0, time.UTC)

	d := nextMorningDelay(now, 6, 10, intnSeq(2, 30))

	assert.Equal(t, 24*time.Hour, d)
}

func TestNextMorningDelayInvertedWindow(t *testing.T) {
	now := time.Date(2025, 3, 12, 5, 0, 0, 0, time.UTC)

	// hourMax below hourMin collapses the window to hourMin
	d := nextMorningDelay(now, 9, 6, intnSeq(0, 0))

	assert.Equal(t, 4*time.Hour, d)
}

func TestRandBetweenInt(t *testing.T) {
	assert.Equal(t, 5, randBetweenInt(func(int) int { return 0 }, 5, 9))
	assert.Equal(t, 9, randBetweenInt(func(n int) int { return n - 1 }, 5, 9))
	assert.Equal(t, 7, randBetweenInt(func(int) int { return 0 }, 7, 7))
	assert.Equal(t, 7, randBetweenInt(func(int) int { return 0 }, 7, 3))
}

func TestRandBetweenFloat(t *testing.T) {
	assert.Equal(t, 1.0, randBetweenFloat(func() float64 { return 0 }, 1.0, 4.0))
	assert.Equal(t, 2.5, randBetweenFloat(func() float64 { return 0.5 }, 1.0, 4.0))
	assert.Equal(t, 2.0, randBetweenFloat(func() float64 { return 0.9 }, 2.0, 2.0))
}

func TestIsWeekend(t *testing.T) {
	assert.False(t, isWeekend(time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC))) // Wednesday
	assert.True(t, isWeekend(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)))  // Friday
	assert.True(t, isWeekend(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)))  // Saturday
	assert.True(t, isWeekend(time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)))  // Sunday
	assert.False(t, isWeekend(time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC))) // Monday
}
