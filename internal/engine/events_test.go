package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wwg-bot/internal/gateway"
)

func member(id, name string) gateway.Member {
	return gateway.Member{User: gateway.User{ID: id, Username: name, DisplayName: name}}
}

func playingEvent(id, name, game string) PresenceEvent {
	return PresenceEvent{
		User:       gateway.User{ID: id, Username: name, DisplayName: name},
		Activities: []gateway.Presence{{Kind: gateway.PresencePlaying, Name: game}},
	}
}

func TestGameAnnouncementRalliesPlayers(t *testing.T) {
	e, gw, sink, _, _ := newTestEngine(map[string]any{
		"feature.game_detection.chance": 1.0,
		"channels.gamers_arena_id":      "arena",
	})
	gw.playing["Game X"] = []gateway.Member{member("u2", "bravo"), member("u3", "charlie")}

	e.HandlePresence(playingEvent("u1", "alpha", "Game X"))

	require.Len(t, gw.sends, 1)
	assert.Equal(t, "arena", gw.sends[0].Channel)
	assert.Contains(t, gw.sends[0].Content, "<@u1>")
	assert.Contains(t, gw.sends[0].Content, "Game X")
	assert.Contains(t, gw.sends[0].Content, "<@u2>")
	assert.Contains(t, gw.sends[0].Content, "are")
	assert.Equal(t, 1, sink.stat("game_detections"))
}

func TestGameAnnouncementCooldownSuppressesRepeat(t *testing.T) {
	e, gw, _, _, clock := newTestEngine(map[string]any{
		"feature.game_detection.chance": 1.0,
		"channels.gamers_arena_id":      "arena",
	})
	gw.playing["Game X"] = []gateway.Member{member("u2", "bravo"), member("u3", "charlie")}

	e.HandlePresence(playingEvent("u1", "alpha", "Game X"))
	require.Len(t, gw.sends, 1)

	// same starter stops and restarts inside the per-game window
	e.HandlePresence(PresenceEvent{User: gateway.User{ID: "u1", DisplayName: "alpha"}})
	clock.advance(time.Hour)
	e.HandlePresence(playingEvent("u1", "alpha", "Game X"))

	assert.Len(t, gw.sends, 1)
}

func TestGameAnnouncementChecksEveryNewGame(t *testing.T) {
	// A single presence update can add several activities. Each new game
	// gets its own pass through the gates, so one game sitting on cooldown
	// does not swallow an announcement for another.
	e, gw, _, _, clock := newTestEngine(map[string]any{
		"feature.game_detection.chance": 1.0,
		"channels.gamers_arena_id":      "arena",
	})
	gw.playing["Game A"] = []gateway.Member{member("u2", "bravo"), member("u3", "charlie")}
	gw.playing["Game B"] = []gateway.Member{member("u4", "delta"), member("u5", "echo")}
	e.st.gameNotify.Mark("Game A", clock.t)

	e.HandlePresence(PresenceEvent{
		User: gateway.User{ID: "u1", Username: "alpha", DisplayName: "alpha"},
		Activities: []gateway.Presence{
			{Kind: gateway.PresencePlaying, Name: "Game A"},
			{Kind: gateway.PresencePlaying, Name: "Game B"},
		},
	})

	require.Len(t, gw.sends, 1)
	assert.Contains(t, gw.sends[0].Content, "Game B")
}

func TestGameAnnouncementNeedsEnoughPlayers(t *testing.T) {
	e, gw, _, _, _ := newTestEngine(map[string]any{
		"feature.game_detection.chance": 1.0,
		"channels.gamers_arena_id":      "arena",
	})
	// the starter does not count toward min_players
	gw.playing["Game X"] = []gateway.Member{member("u2", "bravo")}

	e.HandlePresence(playingEvent("u1", "alpha", "Game X"))

	assert.Empty(t, gw.sends)
}

func TestGameAnnouncementIgnoresUnchangedPresence(t *testing.T) {
	e, gw, _, _, _ := newTestEngine(map[string]any{
		"feature.game_detection.chance": 1.0,
		"channels.gamers_arena_id":      "arena",
	})
	gw.playing["Game X"] = []gateway.Member{member("u2", "bravo"), member("u3", "charlie")}

	e.HandlePresence(playingEvent("u1", "alpha", "Game X"))
	require.Len(t, gw.sends, 1)

	// a presence refresh that still lists the same game is not a start,
	// so it never even reaches the cooldown
	e.HandlePresence(playingEvent("u1", "alpha", "Game X"))
	assert.Len(t, gw.sends, 1)
}

func TestTypingCalloutAfterDuration(t *testing.T) {
	e, gw, sink, _, clock := newTestEngine(map[string]any{
		"feature.typing_callout.chance": 1.0,
	})

	e.HandleTyping(TypingEvent{ChannelID: "c1", UserID: "u1"})
	assert.Empty(t, gw.sends)
	assert.Equal(t, 1, e.st.typing.Len())

	clock.advance(90 * time.Second)
	e.HandleTyping(TypingEvent{ChannelID: "c1", UserID: "u1"})

	require.Len(t, gw.sends, 1)
	assert.Contains(t, gw.sends[0].Content, "<@u1>")
	assert.Equal(t, 0, e.st.typing.Len())
	assert.Equal(t, 1, sink.stat("typing_callouts"))
}

func TestTypingIgnoresBotTypists(t *testing.T) {
	e, gw, _, _, clock := newTestEngine(map[string]any{
		"feature.typing_callout.chance": 1.0,
	})

	e.HandleTyping(TypingEvent{ChannelID: "c1", UserID: "b1", Bot: true})
	assert.Equal(t, 0, e.st.typing.Len())

	clock.advance(90 * time.Second)
	e.HandleTyping(TypingEvent{ChannelID: "c1", UserID: "b1", Bot: true})

	assert.Empty(t, gw.sends)
}

func TestTypingStaleEntryClearedSilently(t *testing.T) {
	e, gw, sink, _, clock := newTestEngine(map[string]any{
		"feature.typing_callout.chance": 1.0,
	})

	e.HandleTyping(TypingEvent{ChannelID: "c1", UserID: "u1"})
	clock.advance(130 * time.Second) // past the 120s staleness bound

	e.HandleTyping(TypingEvent{ChannelID: "c1", UserID: "u1"})

	assert.Empty(t, gw.sends)
	assert.Equal(t, 0, e.st.typing.Len())
	assert.Equal(t, 0, sink.stat("typing_callouts"))
}

func TestTypingEntrySurvivesFailedRoll(t *testing.T) {
	e, gw, _, _, clock := newTestEngine(map[string]any{
		"feature.typing_callout.chance": 0.0,
	})

	e.HandleTyping(TypingEvent{ChannelID: "c1", UserID: "u1"})
	clock.advance(90 * time.Second)
	e.HandleTyping(TypingEvent{ChannelID: "c1", UserID: "u1"})

	assert.Empty(t, gw.sends)
	// the session is still tracked; a later tick may fire
	assert.Equal(t, 1, e.st.typing.Len())
}

func TestTypingTracksChannelsSeparately(t *testing.T) {
	e, _, _, _, _ := newTestEngine(nil)

	e.HandleTyping(TypingEvent{ChannelID: "c1", UserID: "u1"})
	e.HandleTyping(TypingEvent{ChannelID: "c2", UserID: "u1"})

	assert.Equal(t, 2, e.st.typing.Len())
}

func TestTypingSkipsExcludedChannel(t *testing.T) {
	e, _, _, _, _ := newTestEngine(map[string]any{
		"channels.excluded": []string{"quiet"},
	})

	e.HandleTyping(TypingEvent{ChannelID: "quiet", UserID: "u1"})

	assert.Equal(t, 0, e.st.typing.Len())
}

func TestReactionChainJoinsAtThreshold(t *testing.T) {
	e, gw, sink, _, _ := newTestEngine(nil)
	gw.reactors = []gateway.User{
		{ID: "u1"}, {ID: "u2"}, {ID: "u3"},
	}

	e.HandleReaction(ReactionEvent{ChannelID: "c1", MessageID: "m1", UserID: "u3", Emoji: "🔥"})

	require.Len(t, gw.reacts, 1)
	assert.Equal(t, "c1/m1/🔥", gw.reacts[0])
	assert.Equal(t, 1, sink.stat("reaction_chains"))
}

func TestReactionChainBelowThreshold(t *testing.T) {
	e, gw, _, _, _ := newTestEngine(nil)
	gw.reactors = []gateway.User{{ID: "u1"}, {ID: "u2"}}

	e.HandleReaction(ReactionEvent{ChannelID: "c1", MessageID: "m1", UserID: "u2", Emoji: "🔥"})

	assert.Empty(t, gw.reacts)
}

func TestReactionChainIgnoresBotsAndSelf(t *testing.T) {
	e, gw, _, _, _ := newTestEngine(nil)

	// bots do not count toward the threshold
	gw.reactors = []gateway.User{
		{ID: "u1"}, {ID: "u2"}, {ID: "b1", Bot: true},
	}
	e.HandleReaction(ReactionEvent{ChannelID: "c1", MessageID: "m1", UserID: "u2", Emoji: "🔥"})
	assert.Empty(t, gw.reacts)

	// already in the chain: never double up
	gw.reactors = []gateway.User{
		{ID: "u1"}, {ID: "u2"}, {ID: "u3"}, {ID: "bot-self"},
	}
	e.HandleReaction(ReactionEvent{ChannelID: "c1", MessageID: "m1", UserID: "u3", Emoji: "🔥"})
	assert.Empty(t, gw.reacts)
}

func TestWelcomeHazingRenamesAndSchedulesRevert(t *testing.T) {
	e, gw, sink, defr, _ := newTestEngine(map[string]any{
		"feature.welcome_hazing.chance": 1.0,
		"channels.general_id":           "gen",
	})

	e.HandleMemberJoin(gateway.User{ID: "u9", Username: "newbie", DisplayName: "Newbie"})

	require.Len(t, gw.sends, 1)
	assert.Equal(t, "gen", gw.sends[0].Channel)
	assert.Contains(t, gw.sends[0].Content, "<@u9>")
	assert.NotEmpty(t, gw.nicks["u9"])
	assert.Equal(t, 1, sink.stat("welcomes_sent"))

	require.Len(t, defr.jobs, 1)
	assert.Equal(t, "nick_revert_u9", defr.jobs[0].name)

	defr.runAll()
	assert.Empty(t, gw.nicks["u9"])
	assert.Equal(t, 1, sink.stat("nick_reverts"))
}

func TestWelcomeHazingFallsBackWithoutRenameRights(t *testing.T) {
	e, gw, sink, defr, _ := newTestEngine(map[string]any{
		"feature.welcome_hazing.chance": 1.0,
		"channels.general_id":           "gen",
	})
	gw.nickErr = gateway.ErrPermission

	e.HandleMemberJoin(gateway.User{ID: "u9", Username: "newbie", DisplayName: "Newbie"})

	require.Len(t, gw.sends, 1)
	assert.Contains(t, gw.sends[0].Content, "Newbie")
	assert.Empty(t, defr.jobs, "no rename, nothing to revert")
	assert.Equal(t, 1, sink.stat("welcomes_sent"))
}

func TestWelcomeHazingIgnoresBots(t *testing.T) {
	e, gw, _, _, _ := newTestEngine(map[string]any{
		"feature.welcome_hazing.chance": 1.0,
		"channels.general_id":           "gen",
	})

	e.HandleMemberJoin(gateway.User{ID: "b1", Bot: true})

	assert.Empty(t, gw.sends)
}

func TestSweepExpiredDropsOldEntries(t *testing.T) {
	e, _, _, _, clock := newTestEngine(nil)

	e.st.typing.Mark(typingKey("c1", "u1"), clock.t)
	e.st.gnWatch.Mark("u2", clock.t)

	clock.advance(10 * time.Hour)
	e.SweepExpired()

	assert.Equal(t, 0, e.st.typing.Len())
	assert.Equal(t, 0, e.st.gnWatch.Len())
}
