// Package engine is the troll decision core: given inbound chat events and
// scheduler ticks it decides whether a behavior fires, which one, and
// against whom, subject to probability gates, cooldown windows, and
// mutual-exclusion rules. All trigger state is ephemeral and in-memory.
package engine

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"wwg-bot/internal/gateway"
)

// Settings is the runtime configuration surface. Implementations resolve
// missing keys to registry defaults; values may change between calls
// (dashboard edits), so nothing here is cached.
type Settings interface {
	Bool(key string) bool
	Int(key string) int
	Float(key string) float64
	String(key string) string
	StringSlice(key string) []string
}

// Sink receives observability events. Fire and forget: implementations
// swallow their own failures.
type Sink interface {
	LogTroll(kind, name, targetID, targetName, channelID string, details map[string]any)
	LogActivity(kind, description, channelID, userID, userName string, meta map[string]any)
	IncrementStat(key string, amount int)
	CountMessage()
}

// Deferrer schedules a continuation that outlives its triggering event
// (nickname reverts, delayed deletes). Cancellation on shutdown is
// best-effort.
type Deferrer interface {
	After(name string, d time.Duration, fn func())
}

// Engine owns all trigger state. Safe for concurrent event handlers.
type Engine struct {
	set  Settings
	gw   gateway.Gateway
	sink Sink
	defr Deferrer
	log  zerolog.Logger
	loc  *time.Location

	st *state

	// injectable for tests
	now  func() time.Time
	roll func() float64
	intn func(int) int
}

func New(set Settings, gw gateway.Gateway, sink Sink, defr Deferrer, loc *time.Location, log zerolog.Logger) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	e := &Engine{
		set:  set,
		gw:   gw,
		sink: sink,
		defr: defr,
		log:  log.With().Str("component", "engine").Logger(),
		loc:  loc,
		now:  time.Now,
		roll: rand.Float64,
		intn: rand.Intn,
	}
	e.st = newState(e.now())
	return e
}

func (e *Engine) localNow() time.Time {
	return e.now().In(e.loc)
}

// chance rolls the probability gate for a configured chance key.
func (e *Engine) chance(key string) bool {
	return e.roll() < e.set.Float(key)
}

// pick returns a uniformly random element.
func pick[T any](e *Engine, items []T) T {
	return items[e.intn(len(items))]
}

func (e *Engine) excludedChannels() map[string]bool {
	ids := e.set.StringSlice("channels.excluded")
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

func (e *Engine) isExcluded(channelID string) bool {
	return e.excludedChannels()[channelID]
}

func (e *Engine) generalChannel() string {
	return e.set.String("channels.general_id")
}

func (e *Engine) isLateNight(now time.Time) bool {
	start := e.set.Int("feature.late_night.start_hour")
	end := e.set.Int("feature.late_night.end_hour")
	h := now.Hour()
	return start <= h && h < end
}

func isWeekend(now time.Time) bool {
	switch now.Weekday() {
	case time.Friday, time.Saturday, time.Sunday:
		return true
	}
	return false
}

// LastActivityAt exposes the shared activity marker for the dead-chat
// monitor.
func (e *Engine) LastActivityAt() time.Time {
	return e.st.lastActivityAt()
}

// SweepExpired purges cooldown entries well past their windows. Run
// hourly by the scheduler to bound memory growth from users who never
// return.
func (e *Engine) SweepExpired() {
	now := e.localNow()

	stale := time.Duration(e.set.Int("feature.typing_callout.stale_sec")) * time.Second
	removed := e.st.typing.Sweep(stale, now)

	gameCD := time.Duration(e.set.Int("feature.game_detection.game_cooldown_sec")) * time.Second
	removed += e.st.gameNotify.Sweep(2*gameCD, now)

	userCD := time.Duration(e.set.Int("feature.game_detection.user_cooldown_sec")) * time.Second
	removed += e.st.gamePing.Sweep(2*userCD, now)

	gnMax := time.Duration(e.set.Int("feature.gn_police.max_minutes")) * time.Minute
	removed += e.st.gnWatch.Sweep(2*gnMax, now)

	if removed > 0 {
		e.log.Debug().Int("removed", removed).Msg("cooldown sweep")
	}
}

// logTroll forwards to the sink; the sink swallows its own failures.
func (e *Engine) logTroll(kind, name string, target *gateway.User, channelID string, details map[string]any) {
	var id, dn string
	if target != nil {
		id, dn = target.ID, target.DisplayName
	}
	e.sink.LogTroll(kind, name, id, dn, channelID, details)
}
