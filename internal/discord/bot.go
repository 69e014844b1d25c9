// Package discord owns the live connection: session setup, intents, and
// translating raw gateway events into engine and modmail calls.
package discord

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"wwg-bot/internal/dashboard"
	"wwg-bot/internal/engine"
	"wwg-bot/internal/gateway"
	"wwg-bot/internal/modmail"
)

// Bot glues the discordgo session to the engine and the modmail relay.
type Bot struct {
	session *discordgo.Session
	gw      *gateway.Discord
	eng     *engine.Engine
	relay   *modmail.Relay
	log     zerolog.Logger

	readyOnce sync.Once
	ready     chan struct{}
}

func NewBot(session *discordgo.Session, gw *gateway.Discord, eng *engine.Engine, relay *modmail.Relay, log zerolog.Logger) *Bot {
	b := &Bot{
		session: session,
		gw:      gw,
		eng:     eng,
		relay:   relay,
		log:     log.With().Str("component", "discord").Logger(),
		ready:   make(chan struct{}),
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsGuildMessageTyping |
		discordgo.IntentsGuildPresences |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent
	session.State.TrackPresences = true

	session.AddHandler(b.onReady)
	session.AddHandler(b.onMessageCreate)
	session.AddHandler(b.onPresenceUpdate)
	session.AddHandler(b.onTypingStart)
	session.AddHandler(b.onReactionAdd)
	session.AddHandler(b.onMemberAdd)

	return b
}

// Open connects to the gateway. Ready unblocks once the first guild is
// pinned.
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	return nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// Ready is closed once the session has connected and pinned its guild.
func (b *Bot) Ready() <-chan struct{} {
	return b.ready
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	if len(r.Guilds) == 0 {
		b.log.Warn().Msg("connected but not in any guild")
		return
	}
	b.gw.SetGuild(r.Guilds[0].ID)
	b.log.Info().
		Str("user", r.User.Username).
		Str("guild", r.Guilds[0].ID).
		Int("guilds", len(r.Guilds)).
		Msg("connected")
	b.readyOnce.Do(func() { close(b.ready) })
}

func (b *Bot) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == b.session.State.User.ID {
		return
	}

	// DMs are modmail, never troll material.
	if m.GuildID == "" {
		if !m.Author.Bot {
			b.relay.HandleDM(m.Message)
		}
		return
	}
	if b.relay.IsStaffChannel(m.ChannelID) {
		if !m.Author.Bot {
			b.relay.HandleStaffReply(m.Message)
		}
		return
	}

	b.eng.HandleMessage(engine.MessageEvent{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		Content:   m.Content,
		Author:    fromUser(m.Author),
	})
}

func (b *Bot) onPresenceUpdate(_ *discordgo.Session, p *discordgo.PresenceUpdate) {
	if p.User == nil {
		return
	}
	ev := engine.PresenceEvent{User: b.resolveUser(p.GuildID, p.User)}
	for _, a := range p.Activities {
		if a == nil {
			continue
		}
		ev.Activities = append(ev.Activities, gateway.Presence{
			Kind: presenceKind(a.Type),
			Name: a.Name,
			URL:  a.URL,
		})
	}
	b.eng.HandlePresence(ev)
}

func (b *Bot) onTypingStart(_ *discordgo.Session, t *discordgo.TypingStart) {
	if t.GuildID == "" {
		return
	}
	// Typing starts carry no user object, so the bot flag comes from
	// session state.
	bot := false
	if member, err := b.session.State.Member(t.GuildID, t.UserID); err == nil && member.User != nil {
		bot = member.User.Bot
	}
	b.eng.HandleTyping(engine.TypingEvent{
		ChannelID: t.ChannelID,
		UserID:    t.UserID,
		Bot:       bot,
	})
}

func (b *Bot) onReactionAdd(_ *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.GuildID == "" {
		return
	}
	b.eng.HandleReaction(engine.ReactionEvent{
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		UserID:    r.UserID,
		Emoji:     r.Emoji.APIName(),
	})
}

func (b *Bot) onMemberAdd(_ *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.User == nil {
		return
	}
	b.eng.HandleMemberJoin(fromUser(m.User))
}

// resolveUser fills in fields presence updates omit from session state.
func (b *Bot) resolveUser(guildID string, u *discordgo.User) gateway.User {
	out := fromUser(u)
	if out.Username == "" {
		if member, err := b.session.State.Member(guildID, u.ID); err == nil && member.User != nil {
			out = fromUser(member.User)
		}
	}
	return out
}

func fromUser(u *discordgo.User) gateway.User {
	display := u.GlobalName
	if display == "" {
		display = u.Username
	}
	return gateway.User{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: display,
		Bot:         u.Bot,
	}
}

func presenceKind(t discordgo.ActivityType) gateway.PresenceKind {
	switch t {
	case discordgo.ActivityTypeStreaming:
		return gateway.PresenceStreaming
	case discordgo.ActivityTypeListening:
		return gateway.PresenceListening
	case discordgo.ActivityTypeWatching:
		return gateway.PresenceWatching
	default:
		return gateway.PresencePlaying
	}
}

// Status implements the dashboard's status view from session state.
func (b *Bot) Status() dashboard.BotStatus {
	st := dashboard.BotStatus{
		LatencyMS: float64(b.session.HeartbeatLatency().Microseconds()) / 1000,
	}
	select {
	case <-b.ready:
		st.Online = true
	default:
	}

	guilds := b.session.State.Guilds
	if len(guilds) == 0 {
		return st
	}
	g := guilds[0]
	st.GuildName = g.Name
	st.MemberCount = g.MemberCount

	online := make(map[string]bool)
	for _, p := range g.Presences {
		if p.User != nil && p.Status != discordgo.StatusOffline {
			online[p.User.ID] = true
		}
	}
	for _, m := range g.Members {
		if m.User != nil && !m.User.Bot && online[m.User.ID] {
			st.OnlineMembers++
		}
	}
	return st
}
