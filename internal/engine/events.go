// /internal/engine/events.go
package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"wwg-bot/internal/gateway"
)

// PresenceEvent carries a member's full current activity set. The engine
// keeps the previous set itself and reacts only to newly started games.
type PresenceEvent struct {
	User       gateway.User
	Activities []gateway.Presence
}

// TypingEvent is a raw typing-indicator start.
type TypingEvent struct {
	ChannelID string
	UserID    string
	Bot       bool
}

// ReactionEvent is a single reaction added to a message.
type ReactionEvent struct {
	ChannelID string
	MessageID string
	UserID    string
	Emoji     string
}

// HandlePresence announces when someone starts a game, rallying other
// online members who are in the same game.
func (e *Engine) HandlePresence(ev PresenceEvent) {
	defer e.recoverPanic("presence")

	if ev.User.Bot {
		return
	}
	var games []string
	for _, a := range ev.Activities {
		if a.Kind == gateway.PresencePlaying && a.Name != "" {
			games = append(games, a.Name)
		}
	}
	started := e.st.swapPlaying(ev.User.ID, games)
	if len(started) == 0 || !e.set.Bool("feature.game_detection.enabled") {
		return
	}

	// One presence update can add several activities at once; each new
	// game goes through its own cooldown and probability gates.
	now := e.localNow()
	for _, game := range started {
		e.announceGame(ev.User, game, now)
	}
}

func (e *Engine) announceGame(user gateway.User, game string, now time.Time) {
	gameCD := time.Duration(e.set.Int("feature.game_detection.game_cooldown_sec")) * time.Second
	userCD := time.Duration(e.set.Int("feature.game_detection.user_cooldown_sec")) * time.Second

	// Cooldowns first: a fresh announcement for the same game or the same
	// starter inside the window never rolls.
	if e.st.gameNotify.Active(game, gameCD, now) {
		return
	}
	if e.st.gamePing.Active(user.ID, userCD, now) {
		return
	}
	if !e.chance("feature.game_detection.chance") {
		return
	}

	var others []gateway.Member
	for _, m := range e.gw.MembersPlaying(game) {
		if m.ID != user.ID && !m.Bot {
			others = append(others, m)
		}
	}
	if len(others) < e.set.Int("feature.game_detection.min_players") {
		return
	}

	var eligible []gateway.Member
	for _, m := range others {
		if !e.st.gamePing.Active(m.ID, userCD, now) {
			eligible = append(eligible, m)
		}
	}
	if len(eligible) == 0 {
		return
	}
	if len(eligible) > 5 {
		eligible = eligible[:5]
	}

	channel := e.set.String("channels.gamers_arena_id")
	if channel == "" {
		return
	}
	mentions := make([]string, 0, len(eligible))
	names := make([]string, 0, len(eligible))
	for _, m := range eligible {
		mentions = append(mentions, m.Mention())
		names = append(names, m.Name())
	}
	verb := "is"
	if len(eligible) > 1 {
		verb = "are"
	}
	msg := fmt.Sprintf("👀 %s just hopped on **%s**. %s %s already on it. Link up?",
		user.Mention(), game, strings.Join(mentions, ", "), verb)
	if _, err := e.gw.Send(channel, msg); err != nil {
		e.log.Warn().Err(err).Msg("game announcement failed")
		return
	}

	e.st.gameNotify.Mark(game, now)
	e.st.gamePing.Mark(user.ID, now)
	for _, m := range eligible {
		e.st.gamePing.Mark(m.ID, now)
	}
	e.sink.LogActivity("game_detect", user.DisplayName+" playing "+game, channel, user.ID, user.DisplayName, map[string]any{
		"players": names,
	})
	e.sink.IncrementStat("game_detections", 1)
}

// HandleTyping calls out members who type for a long time and then, as far
// as the channel ever sees, say nothing.
func (e *Engine) HandleTyping(ev TypingEvent) {
	defer e.recoverPanic("typing")

	if !e.set.Bool("feature.typing_callout.enabled") || ev.Bot || ev.UserID == e.gw.SelfID() {
		return
	}
	if e.isExcluded(ev.ChannelID) {
		return
	}
	now := e.localNow()
	key := typingKey(ev.ChannelID, ev.UserID)
	started, ok := e.st.typing.Get(key)
	if !ok {
		e.st.typing.Mark(key, now)
		return
	}

	elapsed := now.Sub(started)
	duration := time.Duration(e.set.Int("feature.typing_callout.duration_sec")) * time.Second
	stale := time.Duration(e.set.Int("feature.typing_callout.stale_sec")) * time.Second

	switch {
	case elapsed > stale:
		// Abandoned session, nothing to call out.
		e.st.typing.Remove(key)
	case elapsed >= duration:
		if !e.chance("feature.typing_callout.chance") {
			return
		}
		msg := fmt.Sprintf(pick(e, typingCalloutMessages), mentionID(ev.UserID))
		if _, err := e.gw.Send(ev.ChannelID, msg); err != nil {
			e.log.Warn().Err(err).Msg("typing callout failed")
			return
		}
		e.st.typing.Remove(key)
		e.logTroll("typing_callout", "Typing Callout", nil, ev.ChannelID, map[string]any{
			"user_id": ev.UserID, "seconds": int(elapsed.Seconds()),
		})
		e.sink.IncrementStat("typing_callouts", 1)
	}
}

// HandleReaction piles onto reactions once enough humans agree.
func (e *Engine) HandleReaction(ev ReactionEvent) {
	defer e.recoverPanic("reaction")

	if !e.set.Bool("feature.reaction_chain.enabled") || ev.UserID == e.gw.SelfID() {
		return
	}
	users, err := e.gw.ReactionUsers(ev.ChannelID, ev.MessageID, ev.Emoji)
	if err != nil {
		e.log.Debug().Err(err).Msg("reaction user lookup failed")
		return
	}
	var humans int
	for _, u := range users {
		if u.ID == e.gw.SelfID() {
			return // already joined this chain
		}
		if !u.Bot {
			humans++
		}
	}
	if humans < e.set.Int("feature.reaction_chain.threshold") {
		return
	}
	if err := e.gw.React(ev.ChannelID, ev.MessageID, ev.Emoji); err != nil {
		e.log.Debug().Err(err).Msg("chain reaction failed")
		return
	}
	e.sink.LogActivity("reaction_chain", "Joined reaction chain", ev.ChannelID, "", "", map[string]any{
		"emoji": ev.Emoji, "count": humans,
	})
	e.sink.IncrementStat("reaction_chains", 1)
}

// HandleMemberJoin hazes a new arrival with a nickname and a fake rule,
// then quietly schedules the nickname's return.
func (e *Engine) HandleMemberJoin(user gateway.User) {
	defer e.recoverPanic("member join")

	if user.Bot || !e.set.Bool("feature.welcome_hazing.enabled") {
		return
	}
	if !e.chance("feature.welcome_hazing.chance") {
		return
	}
	channel := e.generalChannel()
	if channel == "" {
		return
	}

	nick := pick(e, funnyNicknames)
	rule := pick(e, fakeRules)
	ruleNum := 47 + e.intn(154)

	renamed := true
	if err := e.gw.SetNickname(user.ID, nick); err != nil {
		if !errors.Is(err, gateway.ErrPermission) {
			e.log.Warn().Err(err).Msg("welcome rename failed")
		}
		// No rename rights: greet under their own name instead.
		nick = user.DisplayName
		renamed = false
	}

	msg := fmt.Sprintf(pick(e, welcomeMessages), user.Mention(), nick, ruleNum, rule)
	if _, err := e.gw.Send(channel, msg); err != nil {
		e.log.Warn().Err(err).Msg("welcome message failed")
		return
	}
	e.logTroll("welcome_hazing", "Welcome Hazing", &user, channel, map[string]any{"nickname": nick, "rule": rule})
	e.sink.IncrementStat("welcomes_sent", 1)

	if renamed {
		e.scheduleNickRevert(user, channel)
	}
}

func (e *Engine) scheduleNickRevert(user gateway.User, channel string) {
	minH := e.set.Float("feature.welcome_hazing.nick_revert_min_hours")
	maxH := e.set.Float("feature.welcome_hazing.nick_revert_max_hours")
	if maxH < minH {
		maxH = minH
	}
	delay := time.Duration((minH + e.roll()*(maxH-minH)) * float64(time.Hour))
	e.defr.After("nick_revert_"+user.ID, delay, func() {
		if err := e.gw.SetNickname(user.ID, ""); err != nil {
			e.log.Debug().Err(err).Msg("nick revert failed")
			return
		}
		var pool []string
		switch {
		case delay < 6*time.Hour:
			pool = nickRevertEarly
		case delay > 120*time.Hour:
			pool = nickRevertLate
		default:
			pool = nickRevertNormal
		}
		msg := fmt.Sprintf(pick(e, pool), user.Mention())
		if _, err := e.gw.Send(channel, msg); err != nil {
			e.log.Debug().Err(err).Msg("nick revert message failed")
		}
		e.sink.IncrementStat("nick_reverts", 1)
	})
}

func (e *Engine) recoverPanic(where string) {
	if r := recover(); r != nil {
		e.log.Error().Interface("panic", r).Str("handler", where).Msg("event handler panic recovered")
	}
}

func mentionID(userID string) string {
	return "<@" + userID + ">"
}
