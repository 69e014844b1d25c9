// /internal/engine/message.go
package engine

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"wwg-bot/internal/gateway"
)

// MessageEvent is an inbound guild chat message.
type MessageEvent struct {
	ID        string
	ChannelID string
	Content   string
	Author    gateway.User
}

// HandleMessage runs the full message-reactive pipeline. A failure in any
// single trigger never blocks the others or the rest of the system.
func (e *Engine) HandleMessage(ev MessageEvent) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Str("channel", ev.ChannelID).Msg("message pipeline panic recovered")
		}
	}()

	if ev.Author.Bot || ev.Author.ID == e.gw.SelfID() {
		return
	}

	now := e.localNow()
	e.st.touchActivity(now)
	e.sink.CountMessage()

	// GN callout runs against the previous entry before this message can
	// register as a new goodnight.
	e.checkGNCallout(ev, now)
	e.watchGoodnight(ev, now)

	e.runKeywordFamily(ev, now)
	e.runHypeDetector(ev, now)
	e.runMessageTrolls(ev, now)
}

// --- GN Police ---

func (e *Engine) checkGNCallout(ev MessageEvent, now time.Time) {
	if !e.set.Bool("feature.gn_police.enabled") {
		return
	}
	saidAt, ok := e.st.gnWatch.Get(ev.Author.ID)
	if !ok {
		return
	}
	mins := int(now.Sub(saidAt).Minutes())
	minMins := e.set.Int("feature.gn_police.min_minutes")
	maxMins := e.set.Int("feature.gn_police.max_minutes")

	switch {
	case mins > maxMins:
		// Too late to be funny, expire silently.
		e.st.gnWatch.Remove(ev.Author.ID)
	case mins >= minMins && e.chance("feature.gn_police.chance"):
		callout := fmt.Sprintf(pick(e, gnCallouts), ev.Author.Mention(), mins)
		if _, err := e.gw.Send(ev.ChannelID, callout); err != nil {
			e.log.Warn().Err(err).Msg("gn callout send failed")
			return
		}
		e.st.gnWatch.Remove(ev.Author.ID)
		e.logTroll("gn_police", "GN Police", &ev.Author, ev.ChannelID, map[string]any{"minutes": mins})
		e.sink.IncrementStat("gn_callouts", 1)
	}
}

func (e *Engine) watchGoodnight(ev MessageEvent, now time.Time) {
	if ev.Content == "" {
		return
	}
	lower := strings.ToLower(strings.TrimSpace(ev.Content))
	for _, phrase := range gnPhrases {
		if lower == phrase || strings.HasPrefix(lower, phrase+" ") || strings.HasSuffix(lower, " "+phrase) {
			e.st.gnWatch.Mark(ev.Author.ID, now)
			return
		}
	}
}

// --- Keyword family: mutually exclusive, fixed priority order ---

func (e *Engine) runKeywordFamily(ev MessageEvent, now time.Time) {
	if ev.Content == "" || e.isExcluded(ev.ChannelID) {
		return
	}

	type keywordTrigger struct {
		key   string
		name  string
		stat  string
		match func() bool
		body  func() string
	}

	lower := strings.ToLower(ev.Content)
	triggers := []keywordTrigger{
		{
			key: "rage_detector", name: "Rage Detector", stat: "rage_detections",
			match: func() bool { return e.looksLikeRage(ev.Content) },
			body:  func() string { return formatMention(pick(e, rageResponses), ev.Author.Mention()) },
		},
		{
			key: "excuse_generator", name: "Excuse Generator", stat: "excuse_generations",
			match: func() bool { return containsAny(lower, lossPhrases) },
			body:  func() string { return pick(e, excuseResponses) },
		},
		{
			key: "cap_alarm", name: "Cap Alarm", stat: "cap_alarms",
			match: func() bool { return containsAny(lower, capPhrases) },
			body:  func() string { return pick(e, capResponses) },
		},
		{
			key: "flex_police", name: "Flex Police", stat: "flex_polices",
			match: func() bool { return containsAny(lower, flexPhrases) },
			body:  func() string { return pick(e, flexResponses) },
		},
		{
			key: "lag_defender", name: "Lag Defender", stat: "lag_defenses",
			match: func() bool { return hasWord(lower, "lag") },
			body:  func() string { return pick(e, lagResponses) },
		},
	}

	for _, t := range triggers {
		if !e.set.Bool("feature." + t.key + ".enabled") {
			continue
		}
		if !t.match() || !e.chance("feature."+t.key+".chance") {
			continue
		}
		if _, err := e.gw.Reply(ev.ChannelID, ev.ID, t.body()); err != nil {
			e.log.Warn().Err(err).Str("trigger", t.key).Msg("keyword reply failed")
		} else {
			e.logTroll(t.key, t.name, &ev.Author, ev.ChannelID, nil)
			e.sink.IncrementStat(t.stat, 1)
		}
		return // first match wins, fired or failed
	}
}

func (e *Engine) looksLikeRage(content string) bool {
	minLen := e.set.Int("feature.rage_detector.min_length")
	capsThresh := e.set.Float("feature.rage_detector.caps_threshold")
	exclaimThresh := e.set.Int("feature.rage_detector.exclaim_threshold")

	if strings.Count(content, "!") >= exclaimThresh {
		return true
	}
	if len(content) < minLen {
		return false
	}
	var upper, letters int
	for _, r := range content {
		if r == ' ' {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if letters == 0 {
		return false
	}
	return float64(upper)/float64(letters) > capsThresh
}

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func hasWord(lower, word string) bool {
	for _, f := range strings.Fields(lower) {
		if f == word {
			return true
		}
	}
	return false
}

// --- Hype detector (independent of the keyword family) ---

func (e *Engine) runHypeDetector(ev MessageEvent, now time.Time) {
	if !e.set.Bool("feature.hype_detector.enabled") || e.isExcluded(ev.ChannelID) {
		return
	}
	e.st.recent.Add(now)

	window := time.Duration(e.set.Int("feature.hype_detector.time_window_sec")) * time.Second
	count := e.st.recent.CountSince(now.Add(-window))
	if count < e.set.Int("feature.hype_detector.threshold_messages") {
		return
	}
	// Cooldown gate first: a second burst inside the window never fires
	// regardless of the roll.
	if e.st.hypeCoolingDown(now) {
		return
	}
	chanceKey := "feature.hype_detector.weekday_chance"
	if isWeekend(now) {
		chanceKey = "feature.hype_detector.weekend_chance"
	}
	if e.roll() >= e.set.Float(chanceKey) {
		return
	}
	if _, err := e.gw.Send(ev.ChannelID, pick(e, hypeDetectorMessages)); err != nil {
		e.log.Warn().Err(err).Msg("hype message send failed")
		return
	}
	cooldown := time.Duration(e.set.Int("feature.hype_detector.cooldown_min")) * time.Minute
	e.st.setHypeCooldown(now.Add(cooldown))
	e.logTroll("hype_detector", "Hype Detector", nil, ev.ChannelID, map[string]any{"message_count": count})
	e.sink.IncrementStat("hype_detections", 1)
}

// --- Secondary troll family + late night bonus ---

func (e *Engine) runMessageTrolls(ev MessageEvent, now time.Time) {
	if e.isExcluded(ev.ChannelID) {
		return
	}

	// Silently archive for the "this you?" repost, independent of the
	// trolls below.
	if len(ev.Content) > 10 && e.chance("feature.message_cache.chance") {
		e.st.cache.Add(
			cachedMessage{AuthorID: ev.Author.ID, Content: ev.Content, ChannelID: ev.ChannelID},
			e.set.Int("feature.message_cache.per_author_max"),
		)
	}

	fired := e.runEssayDetector(ev)
	if !fired {
		fired = e.runKEnergy(ev)
	}
	if !fired {
		e.runMicroTroll(ev, now)
	}

	if e.set.Bool("feature.late_night.enabled") && e.isLateNight(now) && e.chance("feature.late_night.bonus_chance") {
		if _, err := e.gw.Send(ev.ChannelID, pick(e, lateNightMessages)); err == nil {
			e.logTroll("late_night_bonus", "Late Night Bonus", nil, ev.ChannelID, nil)
			e.sink.IncrementStat("late_night_bonuses", 1)
		}
	}
}

func (e *Engine) runEssayDetector(ev MessageEvent) bool {
	if !e.set.Bool("feature.essay_detector.enabled") || ev.Content == "" {
		return false
	}
	if len(ev.Content) <= e.set.Int("feature.essay_detector.threshold_chars") {
		return false
	}
	if !e.chance("feature.essay_detector.chance") {
		return false
	}
	if _, err := e.gw.Reply(ev.ChannelID, ev.ID, pick(e, essayResponses)); err != nil {
		e.log.Warn().Err(err).Msg("essay reply failed")
		return true
	}
	e.logTroll("essay_detector", "Essay Detector", &ev.Author, ev.ChannelID, map[string]any{"length": len(ev.Content)})
	e.sink.IncrementStat("essay_detections", 1)
	return true
}

func (e *Engine) runKEnergy(ev MessageEvent) bool {
	if !e.set.Bool("feature.k_energy.enabled") {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(ev.Content)) {
	case "k", "ok", "okay", "kk":
	default:
		return false
	}
	if !e.chance("feature.k_energy.chance") {
		return false
	}
	if _, err := e.gw.Reply(ev.ChannelID, ev.ID, pick(e, kResponses)); err != nil {
		e.log.Warn().Err(err).Msg("k energy reply failed")
		return true
	}
	e.logTroll("k_energy", "K Energy", &ev.Author, ev.ChannelID, nil)
	e.sink.IncrementStat("k_energy_fires", 1)
	return true
}

func (e *Engine) runMicroTroll(ev MessageEvent, now time.Time) {
	if !e.set.Bool("feature.per_message_trolls.enabled") {
		return
	}
	chanceKey := "feature.per_message_trolls.weekday_chance"
	if isWeekend(now) {
		chanceKey = "feature.per_message_trolls.weekend_chance"
	}
	if e.roll() >= e.set.Float(chanceKey) {
		return
	}

	type microTroll struct {
		kind string
		name string
		run  func()
	}

	trolls := []microTroll{
		{"msg_troll_1", "Random L", func() { e.react(ev, "🇱") }},
		{"msg_troll_2", "Skull React", func() { e.react(ev, "💀") }},
		{"msg_troll_3", "Emoji Roulette", func() {
			for _, emoji := range pick(e, cursedEmojiCombos) {
				e.react(ev, emoji)
			}
		}},
		{"msg_troll_4", "Slow Clap", func() { e.timedReactions(ev, slowClapEmojis[:3+e.intn(3)], "slow_clap") }},
		{"msg_troll_5", "Fake Typing", func() { e.fakeTyping(ev) }},
		{"msg_troll_6", "Question Mark", func() { e.reply(ev, "?") }},
		{"msg_troll_7", "Nobody Asked", func() { e.reply(ev, "nobody asked") }},
		{"msg_troll_8", "Cap React", func() { e.react(ev, "🧢") }},
		{"msg_troll_9", "Sus React", func() { e.react(ev, "📮") }},
		{"msg_troll_10", "Disagree React", func() { e.react(ev, "👎") }},
		{"msg_troll_11", "Read Receipt", func() { e.react(ev, "👀") }},
		{"msg_troll_12", "Countdown", func() { e.timedReactions(ev, countdownEmojis, "countdown") }},
		{"msg_troll_13", "Take Judgement", func() { e.reply(ev, pick(e, takeJudgements)) }},
	}

	t := pick(e, trolls)
	t.run()
	e.logTroll(t.kind, t.name, &ev.Author, ev.ChannelID, nil)
	e.sink.IncrementStat("per_message_trolls", 1)
}

func (e *Engine) react(ev MessageEvent, emoji string) {
	if err := e.gw.React(ev.ChannelID, ev.ID, emoji); err != nil {
		e.log.Debug().Err(err).Msg("reaction failed")
	}
}

func (e *Engine) reply(ev MessageEvent, content string) {
	if _, err := e.gw.Reply(ev.ChannelID, ev.ID, content); err != nil {
		e.log.Debug().Err(err).Msg("reply failed")
	}
}

// timedReactions adds the first reaction now and the rest at two-second
// steps via deferred continuations.
func (e *Engine) timedReactions(ev MessageEvent, emojis []string, name string) {
	for i, emoji := range emojis {
		if i == 0 {
			e.react(ev, emoji)
			continue
		}
		em := emoji
		e.defr.After(name, time.Duration(i)*2*time.Second, func() {
			e.react(ev, em)
		})
	}
}

// fakeTyping shows the typing indicator, then after a few seconds either
// sends an anticlimactic message or nothing at all.
func (e *Engine) fakeTyping(ev MessageEvent) {
	if err := e.gw.Typing(ev.ChannelID); err != nil {
		e.log.Debug().Err(err).Msg("typing indicator failed")
		return
	}
	reply := pick(e, fakeTypingMessages)
	delay := time.Duration(3+e.intn(6)) * time.Second
	e.defr.After("fake_typing", delay, func() {
		if reply == "" {
			return
		}
		if _, err := e.gw.Send(ev.ChannelID, reply); err != nil {
			e.log.Debug().Err(err).Msg("fake typing send failed")
		}
	})
}
