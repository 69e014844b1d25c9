// /internal/engine/background.go
package engine

import (
	"fmt"
	"strings"
	"time"

	"wwg-bot/internal/gateway"
)

type backgroundTroll struct {
	key  string
	name string
	run  func(now time.Time)
}

func (e *Engine) backgroundTrolls() []backgroundTroll {
	return []backgroundTroll{
		{"jumpscare_ping", "Jumpscare Ping", e.bgJumpscarePing},
		{"this_you", "This You?", e.bgThisYou},
		{"rename_roulette", "Rename Roulette", e.bgRenameRoulette},
		{"vibe_check", "Vibe Check", e.bgVibeCheck},
		{"wrong_channel", "Wrong Channel", e.bgWrongChannel},
		{"fake_mod_action", "Fake Mod Action", e.bgFakeModAction},
		{"server_drama", "Server Drama", e.bgServerDrama},
		{"afk_check", "AFK Check", e.bgAFKCheck},
		{"random_poll", "Random Poll", e.bgRandomPoll},
		{"motivational_misquote", "Motivational Misquote", e.bgMisquote},
		{"fake_announcement", "Fake Announcement", e.bgFakeAnnouncement},
		{"conspiracy_theory", "Conspiracy Theory", e.bgConspiracy},
		{"hype_man", "Hype Man", e.bgHypeMan},
		{"friday_hype", "Friday Hype", e.bgFridayHype},
	}
}

// EnabledBackgroundTrolls returns the keys currently switched on. Exposed
// for the dashboard status view.
func (e *Engine) EnabledBackgroundTrolls() []string {
	var keys []string
	for _, t := range e.backgroundTrolls() {
		if e.set.Bool("bg_troll." + t.key + ".enabled") {
			keys = append(keys, t.key)
		}
	}
	return keys
}

// RunRandomBackgroundTroll fires one uniformly chosen enabled troll.
// Called by the scheduler loop; a no-op when everything is switched off.
func (e *Engine) RunRandomBackgroundTroll() {
	defer e.recoverPanic("background troll")

	var enabled []backgroundTroll
	for _, t := range e.backgroundTrolls() {
		if e.set.Bool("bg_troll." + t.key + ".enabled") {
			enabled = append(enabled, t)
		}
	}
	if len(enabled) == 0 {
		return
	}
	t := pick(e, enabled)
	e.log.Debug().Str("troll", t.key).Msg("background troll fired")
	t.run(e.localNow())
}

func (e *Engine) bgLog(kind, name string, target *gateway.User, channelID string, details map[string]any) {
	e.logTroll(kind, name, target, channelID, details)
	e.sink.IncrementStat("trolls_bg_triggered", 1)
}

// randomOnlineMember returns a uniformly chosen non-bot online member.
func (e *Engine) randomOnlineMember() (gateway.Member, bool) {
	var humans []gateway.Member
	for _, m := range e.gw.OnlineMembers() {
		if !m.Bot {
			humans = append(humans, m)
		}
	}
	if len(humans) == 0 {
		return gateway.Member{}, false
	}
	return pick(e, humans), true
}

func (e *Engine) bgJumpscarePing(_ time.Time) {
	channel := e.generalChannel()
	victim, ok := e.randomOnlineMember()
	if channel == "" || !ok {
		return
	}
	msg := victim.Mention() + " " + pick(e, jumpscareMessages)
	if _, err := e.gw.Send(channel, msg); err != nil {
		e.log.Warn().Err(err).Msg("jumpscare send failed")
		return
	}
	e.bgLog("jumpscare_ping", "Jumpscare Ping", &victim.User, channel, nil)
}

func (e *Engine) bgThisYou(_ time.Time) {
	channel := e.generalChannel()
	cached, ok := e.st.cache.Pick(e.intn)
	if channel == "" || !ok {
		return
	}
	msg := fmt.Sprintf("%s this you?\n> %s", mentionID(cached.AuthorID), cached.Content)
	if _, err := e.gw.Send(channel, msg); err != nil {
		e.log.Warn().Err(err).Msg("this-you send failed")
		return
	}
	quoted := cached.Content
	if len(quoted) > 100 {
		quoted = quoted[:100]
	}
	e.bgLog("this_you", "This You?", &gateway.User{ID: cached.AuthorID}, channel, map[string]any{"quoted": quoted})
}

func (e *Engine) bgRenameRoulette(_ time.Time) {
	channel := e.generalChannel()
	victim, ok := e.randomOnlineMember()
	if channel == "" || !ok {
		return
	}
	oldNick := victim.Nick
	nick := pick(e, funnyNicknames)
	if err := e.gw.SetNickname(victim.ID, nick); err != nil {
		e.log.Debug().Err(err).Msg("roulette rename failed")
		return
	}
	msg := fmt.Sprintf("🎰 **RENAME ROULETTE** 🎰\n%s is now **%s** for the next 10 minutes!", victim.Mention(), nick)
	if _, err := e.gw.Send(channel, msg); err != nil {
		e.log.Warn().Err(err).Msg("roulette announce failed")
	}
	e.bgLog("rename_roulette", "Rename Roulette", &victim.User, channel, map[string]any{"nickname": nick})

	victimID := victim.ID
	e.defr.After("roulette_revert_"+victimID, 10*time.Minute, func() {
		if err := e.gw.SetNickname(victimID, oldNick); err != nil {
			e.log.Debug().Err(err).Msg("roulette revert failed")
		}
	})
}

func (e *Engine) bgVibeCheck(_ time.Time) {
	channel := e.generalChannel()
	if channel == "" {
		return
	}
	msg, err := e.gw.Send(channel, "**VIBE CHECK** 🫵\nReact to this... if you dare.")
	if err != nil {
		e.log.Warn().Err(err).Msg("vibe check send failed")
		return
	}
	e.react(MessageEvent{ChannelID: channel, ID: msg.ID}, "✅")

	msgID := msg.ID
	e.defr.After("vibe_check", time.Minute, func() {
		e.resolveVibeCheck(channel, msgID)
	})
}

func (e *Engine) resolveVibeCheck(channel, messageID string) {
	users, err := e.gw.ReactionUsers(channel, messageID, "✅")
	if err != nil {
		e.log.Debug().Err(err).Msg("vibe check reactor lookup failed")
		return
	}
	var reactors []gateway.User
	for _, u := range users {
		if !u.Bot && u.ID != e.gw.SelfID() {
			reactors = append(reactors, u)
		}
	}
	if len(reactors) == 0 {
		_, _ = e.gw.Send(channel, "Nobody reacted... cowards. 🐔")
		return
	}

	victim := pick(e, reactors)
	oldNick, err := e.gw.MemberNick(victim.ID)
	if err != nil {
		oldNick = ""
	}
	nick := pick(e, funnyNicknames)
	if err := e.gw.SetNickname(victim.ID, nick); err != nil {
		e.log.Debug().Err(err).Msg("vibe check rename failed")
		return
	}
	msg := fmt.Sprintf("%s fell for it! Enjoy being **%s** for 10 minutes 😭", victim.Mention(), nick)
	if _, err := e.gw.Send(channel, msg); err != nil {
		e.log.Warn().Err(err).Msg("vibe check announce failed")
	}
	e.bgLog("vibe_check", "Vibe Check", &victim, channel, map[string]any{"nickname": nick})

	victimID := victim.ID
	e.defr.After("vibe_revert_"+victimID, 10*time.Minute, func() {
		if err := e.gw.SetNickname(victimID, oldNick); err != nil {
			e.log.Debug().Err(err).Msg("vibe check revert failed")
		}
	})
}

func (e *Engine) bgWrongChannel(_ time.Time) {
	channel := e.generalChannel()
	if channel == "" {
		return
	}
	msg, err := e.gw.Send(channel, pick(e, wrongChannelMessages))
	if err != nil {
		e.log.Warn().Err(err).Msg("wrong channel send failed")
		return
	}
	e.bgLog("wrong_channel", "Wrong Channel", nil, channel, nil)

	msgID := msg.ID
	e.defr.After("wrong_channel_delete", time.Minute, func() {
		if err := e.gw.Delete(channel, msgID); err != nil {
			e.log.Debug().Err(err).Msg("wrong channel delete failed")
		}
	})
}

func (e *Engine) bgFakeModAction(_ time.Time) {
	channel := e.generalChannel()
	victim, ok := e.randomOnlineMember()
	if channel == "" || !ok {
		return
	}
	reason := pick(e, fakeModReasons)
	msg := fmt.Sprintf("⚠️ **WARNING:** %s has been warned for **%s**.", victim.Mention(), reason)
	if _, err := e.gw.Send(channel, msg); err != nil {
		e.log.Warn().Err(err).Msg("fake mod action send failed")
		return
	}
	e.bgLog("fake_mod_action", "Fake Mod Action", &victim.User, channel, map[string]any{"reason": reason})
}

func (e *Engine) bgServerDrama(_ time.Time) {
	channel := e.generalChannel()
	if channel == "" {
		return
	}
	var humans []gateway.Member
	for _, m := range e.gw.OnlineMembers() {
		if !m.Bot {
			humans = append(humans, m)
		}
	}
	if len(humans) < 2 {
		return
	}
	i := e.intn(len(humans))
	j := e.intn(len(humans) - 1)
	if j >= i {
		j++
	}
	a, b := humans[i], humans[j]
	msg := fmt.Sprintf(pick(e, dramaTemplates), a.Mention(), b.Mention())
	if _, err := e.gw.Send(channel, msg); err != nil {
		e.log.Warn().Err(err).Msg("server drama send failed")
		return
	}
	e.bgLog("server_drama", "Server Drama", nil, channel, map[string]any{
		"users": []string{a.Name(), b.Name()},
	})
}

func (e *Engine) bgAFKCheck(_ time.Time) {
	channel := e.generalChannel()
	victim, ok := e.randomOnlineMember()
	if channel == "" || !ok {
		return
	}
	msg := formatMention(pick(e, afkCheckMessages), victim.Mention())
	if _, err := e.gw.Send(channel, msg); err != nil {
		e.log.Warn().Err(err).Msg("afk check send failed")
		return
	}
	e.bgLog("afk_check", "AFK Check", &victim.User, channel, nil)
}

func (e *Engine) bgRandomPoll(_ time.Time) {
	channel := e.generalChannel()
	if channel == "" {
		return
	}
	p := pick(e, randomPolls)
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 **POLL:** %s\n", p.Question)
	for i, opt := range p.Options {
		fmt.Fprintf(&sb, "%s %s\n", pollNumberEmojis[i], opt)
	}
	msg, err := e.gw.Send(channel, sb.String())
	if err != nil {
		e.log.Warn().Err(err).Msg("poll send failed")
		return
	}
	for i := range p.Options {
		e.react(MessageEvent{ChannelID: channel, ID: msg.ID}, pollNumberEmojis[i])
	}
	e.bgLog("random_poll", "Random Poll", nil, channel, map[string]any{"question": p.Question})
}

func (e *Engine) bgMisquote(_ time.Time) {
	channel := e.generalChannel()
	if channel == "" {
		return
	}
	q := pick(e, misquotes)
	msg := fmt.Sprintf("💡 **Inspirational Quote of the Day**\n\n*%s*\n%s", q.Quote, q.Attribution)
	if _, err := e.gw.Send(channel, msg); err != nil {
		e.log.Warn().Err(err).Msg("misquote send failed")
		return
	}
	e.bgLog("motivational_misquote", "Motivational Misquote", nil, channel, nil)
}

func (e *Engine) bgFakeAnnouncement(_ time.Time) {
	channel := e.generalChannel()
	if channel == "" {
		return
	}
	content := pick(e, fakeAnnouncements)
	msg, err := e.gw.Send(channel, content)
	if err != nil {
		e.log.Warn().Err(err).Msg("fake announcement send failed")
		return
	}
	e.bgLog("fake_announcement", "Fake Announcement", nil, channel, nil)

	msgID := msg.ID
	e.defr.After("fake_announcement_edit", time.Minute, func() {
		if err := e.gw.Edit(channel, msgID, content+"\n\n*jk lol*"); err != nil {
			e.log.Debug().Err(err).Msg("fake announcement edit failed")
		}
	})
}

func (e *Engine) bgConspiracy(_ time.Time) {
	channel := e.generalChannel()
	victim, ok := e.randomOnlineMember()
	if channel == "" || !ok {
		return
	}
	theory := fmt.Sprintf(pick(e, conspiracyTemplates), victim.Mention())
	if _, err := e.gw.Send(channel, "🧵 **THREAD:** "+theory); err != nil {
		e.log.Warn().Err(err).Msg("conspiracy send failed")
		return
	}
	e.bgLog("conspiracy_theory", "Conspiracy Theory", &victim.User, channel, nil)
}

func (e *Engine) bgHypeMan(_ time.Time) {
	channel := e.generalChannel()
	victim, ok := e.randomOnlineMember()
	if channel == "" || !ok {
		return
	}
	msg := fmt.Sprintf(pick(e, hypeManMessages), victim.Mention())
	if _, err := e.gw.Send(channel, msg); err != nil {
		e.log.Warn().Err(err).Msg("hype man send failed")
		return
	}
	e.bgLog("hype_man", "Hype Man", &victim.User, channel, nil)
}

func (e *Engine) bgFridayHype(now time.Time) {
	if now.Weekday() != time.Friday {
		return
	}
	channel := e.generalChannel()
	if channel == "" {
		return
	}
	if _, err := e.gw.Send(channel, pick(e, fridayMessages)); err != nil {
		e.log.Warn().Err(err).Msg("friday hype send failed")
		return
	}
	e.bgLog("friday_hype", "Friday Hype", nil, channel, nil)
}

// formatMention fills the mention placeholder when the template has one.
func formatMention(tmpl, mention string) string {
	if strings.Contains(tmpl, "%[1]s") {
		return fmt.Sprintf(tmpl, mention)
	}
	return tmpl
}

// --- Scheduler-driven singles ---

// CheckDeadChat posts a conversation starter when the guild has been
// silent past the threshold. The roll only happens once the threshold is
// crossed; firing resets the activity marker so it cannot spam.
func (e *Engine) CheckDeadChat() {
	defer e.recoverPanic("dead chat")

	if !e.set.Bool("feature.dead_chat.enabled") {
		return
	}
	now := e.localNow()
	silence := now.Sub(e.st.lastActivityAt())
	threshold := time.Duration(e.set.Int("feature.dead_chat.silence_threshold_sec")) * time.Second
	if silence < threshold {
		return
	}
	if !e.chance("feature.dead_chat.chance") {
		return
	}
	channel := e.set.String("feature.dead_chat.channel_id")
	if channel == "" {
		channel = e.generalChannel()
	}
	if channel == "" {
		return
	}
	var msg string
	if e.isLateNight(now) {
		msg = pick(e, lateNightMessages)
	} else {
		msg = pick(e, hotTakes)
	}
	if _, err := e.gw.Send(channel, msg); err != nil {
		e.log.Warn().Err(err).Msg("dead chat revival failed")
		return
	}
	e.st.touchActivity(now)
	e.sink.LogActivity("dead_chat", "Revived dead chat", channel, "", "", nil)
	e.sink.IncrementStat("dead_chat_revives", 1)
}

// SendMorningGreeting posts the daily greeting. Timing is the
// scheduler's job.
func (e *Engine) SendMorningGreeting() {
	defer e.recoverPanic("morning greeting")

	if !e.set.Bool("feature.morning_greeting.enabled") {
		return
	}
	channel := e.set.String("channels.greetings_id")
	if channel == "" {
		return
	}
	if _, err := e.gw.Send(channel, pick(e, morningGreetings)); err != nil {
		e.log.Warn().Err(err).Msg("morning greeting failed")
		return
	}
	e.sink.LogActivity("greeting", "Sent morning greeting", channel, "", "", nil)
	e.sink.IncrementStat("greetings_sent", 1)
}

// RotateStatus picks the next bot presence: occasionally "playing with"
// a real member, otherwise one of the stock activities.
func (e *Engine) RotateStatus() {
	defer e.recoverPanic("status rotation")

	if !e.set.Bool("feature.status_rotation.enabled") {
		return
	}
	if e.chance("feature.status_rotation.member_mention_chance") {
		if m, ok := e.randomOnlineMember(); ok {
			p := gateway.Presence{Kind: gateway.PresencePlaying, Name: "with " + m.Name()}
			if err := e.gw.SetPresence(p); err != nil {
				e.log.Debug().Err(err).Msg("presence update failed")
				return
			}
			e.sink.LogActivity("status_change", "Playing "+p.Name, "", m.ID, m.Name(), nil)
			return
		}
	}
	p := pick(e, statusPresences)
	if err := e.gw.SetPresence(p); err != nil {
		e.log.Debug().Err(err).Msg("presence update failed")
	}
}
