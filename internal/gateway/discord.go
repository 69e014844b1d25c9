// /internal/gateway/discord.go
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Discord adapts a discordgo session to the Gateway interface for a single
// guild. Outbound REST calls go through a shared rate limiter so troll
// bursts (slow claps, countdowns, polls) pace themselves instead of
// tripping the service's limits.
type Discord struct {
	dg  *discordgo.Session
	lim *rate.Limiter
	ctx context.Context
	log zerolog.Logger

	mu      sync.RWMutex
	guildID string
}

func NewDiscord(ctx context.Context, dg *discordgo.Session, log zerolog.Logger) *Discord {
	return &Discord{
		dg:  dg,
		lim: rate.NewLimiter(rate.Limit(4), 8), // 4 calls/s, burst 8
		ctx: ctx,
		log: log.With().Str("component", "gateway").Logger(),
	}
}

// SetGuild pins the guild this gateway serves. Called once on ready.
func (d *Discord) SetGuild(guildID string) {
	d.mu.Lock()
	d.guildID = guildID
	d.mu.Unlock()
}

func (d *Discord) guild() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.guildID
}

func (d *Discord) wait() error {
	return d.lim.Wait(d.ctx)
}

func (d *Discord) Send(channelID, content string) (*Message, error) {
	if err := d.wait(); err != nil {
		return nil, err
	}
	m, err := d.dg.ChannelMessageSend(channelID, content)
	if err != nil {
		return nil, mapErr(err)
	}
	return fromDiscordMessage(m), nil
}

func (d *Discord) Reply(channelID, messageID, content string) (*Message, error) {
	if err := d.wait(); err != nil {
		return nil, err
	}
	ref := &discordgo.MessageReference{MessageID: messageID, ChannelID: channelID, GuildID: d.guild()}
	m, err := d.dg.ChannelMessageSendReply(channelID, content, ref)
	if err != nil {
		return nil, mapErr(err)
	}
	return fromDiscordMessage(m), nil
}

func (d *Discord) Edit(channelID, messageID, content string) error {
	if err := d.wait(); err != nil {
		return err
	}
	_, err := d.dg.ChannelMessageEdit(channelID, messageID, content)
	return mapErr(err)
}

func (d *Discord) Delete(channelID, messageID string) error {
	if err := d.wait(); err != nil {
		return err
	}
	return mapErr(d.dg.ChannelMessageDelete(channelID, messageID))
}

func (d *Discord) React(channelID, messageID, emoji string) error {
	if err := d.wait(); err != nil {
		return err
	}
	return mapErr(d.dg.MessageReactionAdd(channelID, messageID, emoji))
}

func (d *Discord) Typing(channelID string) error {
	if err := d.wait(); err != nil {
		return err
	}
	return mapErr(d.dg.ChannelTyping(channelID))
}

func (d *Discord) ReactionUsers(channelID, messageID, emoji string) ([]User, error) {
	if err := d.wait(); err != nil {
		return nil, err
	}
	users, err := d.dg.MessageReactions(channelID, messageID, emoji, 100, "", "")
	if err != nil {
		return nil, mapErr(err)
	}
	out := make([]User, 0, len(users))
	for _, u := range users {
		out = append(out, fromDiscordUser(u))
	}
	return out, nil
}

func (d *Discord) SetNickname(userID, nick string) error {
	if err := d.wait(); err != nil {
		return err
	}
	return mapErr(d.dg.GuildMemberNickname(d.guild(), userID, nick))
}

func (d *Discord) MemberNick(userID string) (string, error) {
	m, err := d.dg.State.Member(d.guild(), userID)
	if err != nil {
		return "", ErrNotFound
	}
	return m.Nick, nil
}

func (d *Discord) SetPresence(p Presence) error {
	if err := d.wait(); err != nil {
		return err
	}
	act := &discordgo.Activity{Name: p.Name, URL: p.URL}
	switch p.Kind {
	case PresenceStreaming:
		act.Type = discordgo.ActivityTypeStreaming
	case PresenceListening:
		act.Type = discordgo.ActivityTypeListening
	case PresenceWatching:
		act.Type = discordgo.ActivityTypeWatching
	default:
		act.Type = discordgo.ActivityTypeGame
	}
	return mapErr(d.dg.UpdateStatusComplex(discordgo.UpdateStatusData{
		Activities: []*discordgo.Activity{act},
	}))
}

// OnlineMembers returns non-bot members with a non-offline presence,
// resolved from session state.
func (d *Discord) OnlineMembers() []Member {
	g, err := d.dg.State.Guild(d.guild())
	if err != nil {
		return nil
	}
	online := make(map[string]bool, len(g.Presences))
	for _, p := range g.Presences {
		if p.User != nil && p.Status != discordgo.StatusOffline {
			online[p.User.ID] = true
		}
	}
	var out []Member
	for _, m := range g.Members {
		if m.User == nil || m.User.Bot || !online[m.User.ID] {
			continue
		}
		out = append(out, fromDiscordMember(m))
	}
	return out
}

// MembersPlaying returns non-bot members whose presence includes a playing
// activity with the given name.
func (d *Discord) MembersPlaying(game string) []Member {
	g, err := d.dg.State.Guild(d.guild())
	if err != nil {
		return nil
	}
	playing := make(map[string]bool)
	for _, p := range g.Presences {
		if p.User == nil {
			continue
		}
		for _, a := range p.Activities {
			if a.Type == discordgo.ActivityTypeGame && a.Name == game {
				playing[p.User.ID] = true
				break
			}
		}
	}
	var out []Member
	for _, m := range g.Members {
		if m.User == nil || m.User.Bot || !playing[m.User.ID] {
			continue
		}
		out = append(out, fromDiscordMember(m))
	}
	return out
}

func (d *Discord) SelfID() string {
	if d.dg.State.User != nil {
		return d.dg.State.User.ID
	}
	return ""
}

func fromDiscordUser(u *discordgo.User) User {
	if u == nil {
		return User{}
	}
	display := u.GlobalName
	if display == "" {
		display = u.Username
	}
	return User{ID: u.ID, Username: u.Username, DisplayName: display, Bot: u.Bot}
}

func fromDiscordMember(m *discordgo.Member) Member {
	return Member{User: fromDiscordUser(m.User), Nick: m.Nick}
}

func fromDiscordMessage(m *discordgo.Message) *Message {
	if m == nil {
		return nil
	}
	return &Message{ID: m.ID, ChannelID: m.ChannelID, Content: m.Content, Author: fromDiscordUser(m.Author)}
}

// mapErr classifies REST failures so callers can degrade gracefully.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		switch rest.Response.StatusCode {
		case http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrPermission, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		}
	}
	return err
}
