package engine

import (
	"sync"
	"time"
)

// cooldownMap tracks "when did X last happen" per key. Keys are user ids,
// game names, or channel/user pairs. Entries expire lazily on read and in
// the hourly sweep; at most one entry per key.
type cooldownMap struct {
	mu sync.Mutex
	m  map[string]time.Time
}

func newCooldownMap() *cooldownMap {
	return &cooldownMap{m: make(map[string]time.Time)}
}

func (c *cooldownMap) Mark(key string, at time.Time) {
	c.mu.Lock()
	c.m[key] = at
	c.mu.Unlock()
}

func (c *cooldownMap) Get(key string) (time.Time, bool) {
	c.mu.Lock()
	t, ok := c.m[key]
	c.mu.Unlock()
	return t, ok
}

func (c *cooldownMap) Remove(key string) {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
}

// Active reports whether key was marked within window before now.
func (c *cooldownMap) Active(key string, window time.Duration, now time.Time) bool {
	c.mu.Lock()
	t, ok := c.m[key]
	c.mu.Unlock()
	return ok && now.Sub(t) < window
}

// Sweep deletes entries strictly older than maxAge.
func (c *cooldownMap) Sweep(maxAge time.Duration, now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	var removed int
	for k, t := range c.m {
		if now.Sub(t) > maxAge {
			delete(c.m, k)
			removed++
		}
	}
	return removed
}

func (c *cooldownMap) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// activityWindow is a fixed-capacity FIFO of event timestamps. Oldest
// entries are silently evicted on overflow.
type activityWindow struct {
	mu  sync.Mutex
	buf []time.Time
	cap int
}

func newActivityWindow(capacity int) *activityWindow {
	return &activityWindow{buf: make([]time.Time, 0, capacity), cap: capacity}
}

func (w *activityWindow) Add(t time.Time) {
	w.mu.Lock()
	if len(w.buf) >= w.cap {
		copy(w.buf, w.buf[1:])
		w.buf = w.buf[:len(w.buf)-1]
	}
	w.buf = append(w.buf, t)
	w.mu.Unlock()
}

// CountSince returns how many recorded timestamps fall after cutoff.
func (w *activityWindow) CountSince(cutoff time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	var n int
	for _, t := range w.buf {
		if t.After(cutoff) {
			n++
		}
	}
	return n
}

func (w *activityWindow) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.buf)
}

// cachedMessage is an archived message for the "this you?" repost troll.
type cachedMessage struct {
	AuthorID  string
	Content   string
	ChannelID string
}

// messageCache is a fixed-capacity FIFO of message snippets with an
// optional per-author cap so one user cannot dominate the cache.
type messageCache struct {
	mu  sync.Mutex
	buf []cachedMessage
	cap int
}

func newMessageCache(capacity int) *messageCache {
	return &messageCache{buf: make([]cachedMessage, 0, capacity), cap: capacity}
}

// Add archives a message. Returns false when the author already holds
// perAuthorMax entries (cap <= 0 disables the per-author bound).
func (c *messageCache) Add(m cachedMessage, perAuthorMax int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if perAuthorMax > 0 {
		var count int
		for _, e := range c.buf {
			if e.AuthorID == m.AuthorID {
				count++
			}
		}
		if count >= perAuthorMax {
			return false
		}
	}
	if len(c.buf) >= c.cap {
		copy(c.buf, c.buf[1:])
		c.buf = c.buf[:len(c.buf)-1]
	}
	c.buf = append(c.buf, m)
	return true
}

// Pick returns a uniformly random cached message.
func (c *messageCache) Pick(intn func(int) int) (cachedMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.buf) == 0 {
		return cachedMessage{}, false
	}
	return c.buf[intn(len(c.buf))], true
}

func (c *messageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buf)
}

// state is the engine's ephemeral in-memory tracker. Created empty at
// startup, never persisted.
type state struct {
	gnWatch    *cooldownMap // user id -> said goodnight at
	gameNotify *cooldownMap // game name -> last announced at
	gamePing   *cooldownMap // user id -> last pinged at
	typing     *cooldownMap // channel/user -> typing started at
	recent     *activityWindow
	cache      *messageCache

	mu           sync.Mutex
	lastActivity time.Time                  // feeds the dead-chat monitor
	hypeCooldown time.Time                  // hype detector forward cooldown
	playing      map[string]map[string]bool // user id -> set of game names
}

func newState(now time.Time) *state {
	return &state{
		gnWatch:      newCooldownMap(),
		gameNotify:   newCooldownMap(),
		gamePing:     newCooldownMap(),
		typing:       newCooldownMap(),
		recent:       newActivityWindow(200),
		cache:        newMessageCache(50),
		lastActivity: now,
		playing:      make(map[string]map[string]bool),
	}
}

func (s *state) touchActivity(now time.Time) {
	s.mu.Lock()
	s.lastActivity = now
	s.mu.Unlock()
}

func (s *state) lastActivityAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

func (s *state) hypeCoolingDown(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Before(s.hypeCooldown)
}

func (s *state) setHypeCooldown(until time.Time) {
	s.mu.Lock()
	s.hypeCooldown = until
	s.mu.Unlock()
}

// swapPlaying replaces the tracked game set for a user and returns the
// newly started games.
func (s *state) swapPlaying(userID string, games []string) []string {
	next := make(map[string]bool, len(games))
	for _, g := range games {
		next[g] = true
	}

	s.mu.Lock()
	prev := s.playing[userID]
	if len(next) == 0 {
		delete(s.playing, userID)
	} else {
		s.playing[userID] = next
	}
	s.mu.Unlock()

	var started []string
	for g := range next {
		if !prev[g] {
			started = append(started, g)
		}
	}
	return started
}

func typingKey(channelID, userID string) string {
	return channelID + "/" + userID
}
