// Package sched owns the bot's timing: the background troll cadence, the
// dead-chat poll, the daily greeting slot, status rotation, and cooldown
// cleanup. All behavior lives in the engine; sched only decides when to
// call it.
package sched

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"wwg-bot/internal/engine"
	"wwg-bot/pkg/jobmgr"
)

const cleanupInterval = time.Hour

// Scheduler drives the engine's periodic behaviors. Loops wait for the
// gateway ready signal before their first action and stop together when
// the job manager shuts down.
type Scheduler struct {
	eng   *engine.Engine
	set   engine.Settings
	jm    *jobmgr.Manager
	log   zerolog.Logger
	loc   *time.Location
	ready <-chan struct{}

	// injectable for tests
	now     func() time.Time
	uniform func() float64
	intn    func(int) int
}

func New(eng *engine.Engine, set engine.Settings, jm *jobmgr.Manager, loc *time.Location, ready <-chan struct{}, log zerolog.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		eng:     eng,
		set:     set,
		jm:      jm,
		log:     log.With().Str("component", "sched").Logger(),
		loc:     loc,
		ready:   ready,
		now:     time.Now,
		uniform: rand.Float64,
		intn:    rand.Intn,
	}
}

// Start launches every loop. Errors only surface when a loop name
// collides, which would be a programming mistake.
func (s *Scheduler) Start() error {
	loops := map[string]func(context.Context) error{
		"troll-loop":      s.runTrollLoop,
		"dead-chat":       s.runDeadChat,
		"morning":         s.runMorningGreeting,
		"status-rotation": s.runStatusRotation,
		"cleanup":         s.runCleanup,
	}
	for name, fn := range loops {
		if err := s.jm.StartLoop(name, fn); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) localNow() time.Time {
	return s.now().In(s.loc)
}

// waitReady blocks until the gateway is up or the loop is cancelled.
func (s *Scheduler) waitReady(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-s.ready:
		return true
	}
}

// sleep waits for d, returning false when cancelled first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func isWeekend(t time.Time) bool {
	switch t.Weekday() {
	case time.Friday, time.Saturday, time.Sunday:
		return true
	}
	return false
}

// runTrollLoop fires one random background troll, then sleeps a random
// interval: shorter on weekends, longer on weekdays. An initial random
// delay keeps restarts from trolling immediately.
func (s *Scheduler) runTrollLoop(ctx context.Context) error {
	if !s.waitReady(ctx) {
		return nil
	}
	delayMin := s.set.Int("feature.troll_loop.initial_delay_min")
	delayMax := s.set.Int("feature.troll_loop.initial_delay_max")
	initial := time.Duration(randBetweenInt(s.intn, delayMin, delayMax)) * time.Second
	if !sleep(ctx, initial) {
		return nil
	}

	for {
		if !s.set.Bool("feature.troll_loop.enabled") {
			if !sleep(ctx, time.Minute) {
				return nil
			}
			continue
		}
		s.eng.RunRandomBackgroundTroll()

		now := s.localNow()
		var minH, maxH float64
		if isWeekend(now) {
			minH = s.set.Float("feature.troll_loop.weekend_min_hours")
			maxH = s.set.Float("feature.troll_loop.weekend_max_hours")
		} else {
			minH = s.set.Float("feature.troll_loop.weekday_min_hours")
			maxH = s.set.Float("feature.troll_loop.weekday_max_hours")
		}
		wait := time.Duration(randBetweenFloat(s.uniform, minH, maxH) * float64(time.Hour))
		s.log.Debug().Dur("wait", wait).Msg("troll loop sleeping")
		if !sleep(ctx, wait) {
			return nil
		}
	}
}

// runDeadChat polls at a fixed interval; the engine decides whether the
// chat is actually dead.
func (s *Scheduler) runDeadChat(ctx context.Context) error {
	if !s.waitReady(ctx) {
		return nil
	}
	for {
		interval := time.Duration(s.set.Int("feature.dead_chat.check_interval_min")) * time.Minute
		if interval <= 0 {
			interval = 30 * time.Minute
		}
		if !sleep(ctx, interval) {
			return nil
		}
		s.eng.CheckDeadChat()
	}
}

// runMorningGreeting sleeps until a random minute inside the configured
// morning window, greets, and rolls the next day's slot.
func (s *Scheduler) runMorningGreeting(ctx context.Context) error {
	if !s.waitReady(ctx) {
		return nil
	}
	for {
		hourMin := s.set.Int("feature.morning_greeting.hour_min")
		hourMax := s.set.Int("feature.morning_greeting.hour_max")
		wait := nextMorningDelay(s.localNow(), hourMin, hourMax, s.intn)
		s.log.Debug().Dur("wait", wait).Msg("next morning greeting scheduled")
		if !sleep(ctx, wait) {
			return nil
		}
		s.eng.SendMorningGreeting()
	}
}

func (s *Scheduler) runStatusRotation(ctx context.Context) error {
	if !s.waitReady(ctx) {
		return nil
	}
	for {
		interval := time.Duration(s.set.Int("feature.status_rotation.interval_sec")) * time.Second
		if interval <= 0 {
			interval = 10 * time.Minute
		}
		if !sleep(ctx, interval) {
			return nil
		}
		s.eng.RotateStatus()
	}
}

func (s *Scheduler) runCleanup(ctx context.Context) error {
	for {
		if !sleep(ctx, cleanupInterval) {
			return nil
		}
		s.eng.SweepExpired()
	}
}

// nextMorningDelay picks a random hour:minute inside [hourMin, hourMax]
// and returns the wait until it next occurs. A slot already past today
// rolls to tomorrow.
func nextMorningDelay(now time.Time, hourMin, hourMax int, intn func(int) int) time.Duration {
	if hourMax < hourMin {
		hourMax = hourMin
	}
	hour := randBetweenInt(intn, hourMin, hourMax)
	minute := intn(60)
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target.Sub(now)
}

// randBetweenInt returns a uniform int in [min, max].
func randBetweenInt(intn func(int) int, min, max int) int {
	if max <= min {
		return min
	}
	return min + intn(max-min+1)
}

// randBetweenFloat returns a uniform float in [min, max).
func randBetweenFloat(uniform func() float64, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + uniform()*(max-min)
}
