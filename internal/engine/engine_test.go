package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"wwg-bot/internal/gateway"
	"wwg-bot/internal/settings"
)

// fakeSettings resolves overrides first, then registry defaults, matching
// the live store's fallback behavior.
type fakeSettings struct {
	vals map[string]any
}

func (f *fakeSettings) lookup(key string) any {
	if v, ok := f.vals[key]; ok {
		return v
	}
	return settings.DefaultFor(key)
}

func (f *fakeSettings) Bool(key string) bool {
	v, _ := f.lookup(key).(bool)
	return v
}

func (f *fakeSettings) Int(key string) int {
	switch v := f.lookup(key).(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func (f *fakeSettings) Float(key string) float64 {
	switch v := f.lookup(key).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func (f *fakeSettings) String(key string) string {
	v, _ := f.lookup(key).(string)
	return v
}

func (f *fakeSettings) StringSlice(key string) []string {
	v, _ := f.lookup(key).([]string)
	return v
}

type sent struct {
	Channel string
	Content string
}

// fakeGateway records every outbound call.
type fakeGateway struct {
	mu sync.Mutex

	sends     []sent
	replies   []sent
	edits     []sent
	deletes   []string
	reacts    []string
	typed     []string
	presences []gateway.Presence

	nicks   map[string]string
	nickErr error

	online   []gateway.Member
	playing  map[string][]gateway.Member
	reactors []gateway.User

	msgSeq int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		nicks:   make(map[string]string),
		playing: make(map[string][]gateway.Member),
	}
}

func (g *fakeGateway) Send(channelID, content string) (*gateway.Message, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.msgSeq++
	g.sends = append(g.sends, sent{channelID, content})
	return &gateway.Message{ID: fmt.Sprintf("m%d", g.msgSeq), ChannelID: channelID, Content: content}, nil
}

func (g *fakeGateway) Reply(channelID, messageID, content string) (*gateway.Message, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.msgSeq++
	g.replies = append(g.replies, sent{channelID, content})
	return &gateway.Message{ID: fmt.Sprintf("m%d", g.msgSeq), ChannelID: channelID, Content: content}, nil
}

func (g *fakeGateway) Edit(channelID, messageID, content string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.edits = append(g.edits, sent{channelID, content})
	return nil
}

func (g *fakeGateway) Delete(channelID, messageID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deletes = append(g.deletes, channelID+"/"+messageID)
	return nil
}

func (g *fakeGateway) React(channelID, messageID, emoji string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reacts = append(g.reacts, channelID+"/"+messageID+"/"+emoji)
	return nil
}

func (g *fakeGateway) Typing(channelID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.typed = append(g.typed, channelID)
	return nil
}

func (g *fakeGateway) ReactionUsers(channelID, messageID, emoji string) ([]gateway.User, error) {
	return g.reactors, nil
}

func (g *fakeGateway) SetNickname(userID, nick string) error {
	if g.nickErr != nil {
		return g.nickErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nicks[userID] = nick
	return nil
}

func (g *fakeGateway) MemberNick(userID string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nicks[userID], nil
}

func (g *fakeGateway) SetPresence(p gateway.Presence) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.presences = append(g.presences, p)
	return nil
}

func (g *fakeGateway) OnlineMembers() []gateway.Member {
	return g.online
}

func (g *fakeGateway) MembersPlaying(game string) []gateway.Member {
	return g.playing[game]
}

func (g *fakeGateway) SelfID() string {
	return "bot-self"
}

// fakeSink counts observability events.
type fakeSink struct {
	mu     sync.Mutex
	stats  map[string]int
	trolls []string
	acts   []string
	msgs   int
}

func newFakeSink() *fakeSink {
	return &fakeSink{stats: make(map[string]int)}
}

func (s *fakeSink) LogTroll(kind, name, targetID, targetName, channelID string, details map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trolls = append(s.trolls, kind)
}

func (s *fakeSink) LogActivity(kind, description, channelID, userID, userName string, meta map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acts = append(s.acts, kind)
}

func (s *fakeSink) IncrementStat(key string, amount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[key] += amount
}

func (s *fakeSink) CountMessage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs++
}

func (s *fakeSink) stat(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats[key]
}

type deferredJob struct {
	name string
	d    time.Duration
	fn   func()
}

// fakeDeferrer captures continuations so tests control when they fire.
type fakeDeferrer struct {
	jobs []deferredJob
}

func (f *fakeDeferrer) After(name string, d time.Duration, fn func()) {
	f.jobs = append(f.jobs, deferredJob{name, d, fn})
}

func (f *fakeDeferrer) runAll() {
	jobs := f.jobs
	f.jobs = nil
	for _, j := range jobs {
		j.fn()
	}
}

type testClock struct {
	t time.Time
}

func (c *testClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

// newTestEngine wires an engine with fakes and a controllable clock. The
// default roll of 0.999 fails every probability gate except chance 1.0, so
// tests force outcomes through config values alone.
func newTestEngine(vals map[string]any) (*Engine, *fakeGateway, *fakeSink, *fakeDeferrer, *testClock) {
	gw := newFakeGateway()
	sink := newFakeSink()
	defr := &fakeDeferrer{}
	// a Wednesday afternoon, well outside the late-night window
	clock := &testClock{t: time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)}

	e := New(&fakeSettings{vals: vals}, gw, sink, defr, time.UTC, zerolog.Nop())
	e.now = func() time.Time { return clock.t }
	e.roll = func() float64 { return 0.999 }
	e.intn = func(n int) int { return 0 }
	e.st = newState(clock.t)
	return e, gw, sink, defr, clock
}

func msgFrom(userID, channelID, content string) MessageEvent {
	return MessageEvent{
		ID:        "msg-" + userID,
		ChannelID: channelID,
		Content:   content,
		Author: gateway.User{
			ID:          userID,
			Username:    "user" + userID,
			DisplayName: "User " + userID,
		},
	}
}
