// Package modmail relays DMs to a staff channel and staff replies back.
// Users DM the bot; staff see an embed in the modmail channel and answer
// by replying to it.
package modmail

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

const embedColor = 0x3498db

const footerPrefix = "User ID: "

// Session is the slice of discordgo the relay needs. *discordgo.Session
// satisfies it.
type Session interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
}

// Settings resolves the modmail channel at call time so dashboard edits
// apply immediately.
type Settings interface {
	String(key string) string
}

// Sink receives relay observability events.
type Sink interface {
	LogActivity(kind, description, channelID, userID, userName string, meta map[string]any)
	IncrementStat(key string, amount int)
}

// Relay forwards both directions of the modmail conversation.
type Relay struct {
	s    Session
	set  Settings
	sink Sink
	log  zerolog.Logger
}

func New(s Session, set Settings, sink Sink, log zerolog.Logger) *Relay {
	return &Relay{
		s:    s,
		set:  set,
		sink: sink,
		log:  log.With().Str("component", "modmail").Logger(),
	}
}

func (r *Relay) channelID() string {
	return r.set.String("channels.modmail_id")
}

// IsStaffChannel reports whether a message in channelID belongs to the
// modmail flow rather than the troll pipeline.
func (r *Relay) IsStaffChannel(channelID string) bool {
	id := r.channelID()
	return id != "" && channelID == id
}

// HandleDM forwards a user's DM to the staff channel as an embed, relays
// attachments, and acknowledges the sender.
func (r *Relay) HandleDM(m *discordgo.Message) {
	staffChannel := r.channelID()
	if staffChannel == "" {
		return
	}

	desc := m.Content
	if desc == "" {
		desc = "*No text*"
	}
	embed := &discordgo.MessageEmbed{
		Description: desc,
		Color:       embedColor,
		Timestamp:   m.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		Author: &discordgo.MessageEmbedAuthor{
			Name:    m.Author.String(),
			IconURL: m.Author.AvatarURL(""),
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: footerPrefix + m.Author.ID,
		},
	}
	if _, err := r.s.ChannelMessageSendEmbed(staffChannel, embed); err != nil {
		r.log.Error().Err(err).Msg("modmail forward failed")
		return
	}
	for _, a := range m.Attachments {
		if _, err := r.s.ChannelMessageSend(staffChannel, a.URL); err != nil {
			r.log.Warn().Err(err).Msg("modmail attachment forward failed")
		}
	}

	ack := fmt.Sprintf("Hey you 👋🏾, %s The Staff will get back to you when they get to see your message", m.Author.Mention())
	if _, err := r.s.ChannelMessageSend(m.ChannelID, ack); err != nil {
		r.log.Warn().Err(err).Msg("modmail ack failed")
	}
	r.sink.LogActivity("modmail", "Forwarded DM from "+m.Author.String(), staffChannel, m.Author.ID, m.Author.Username, nil)
	r.sink.IncrementStat("modmail_received", 1)
}

// HandleStaffReply relays a staff reply in the modmail channel to the
// original DM sender. The target is recovered from the replied-to
// embed's footer.
func (r *Relay) HandleStaffReply(m *discordgo.Message) {
	if m.MessageReference == nil {
		return
	}
	ref, err := r.s.ChannelMessage(m.ChannelID, m.MessageReference.MessageID)
	if err != nil {
		r.log.Debug().Err(err).Msg("referenced message fetch failed")
		return
	}
	if len(ref.Embeds) == 0 || ref.Embeds[0].Footer == nil {
		return
	}
	footer := ref.Embeds[0].Footer.Text
	if !strings.HasPrefix(footer, footerPrefix) {
		return
	}
	userID := strings.TrimPrefix(footer, footerPrefix)

	dm, err := r.s.UserChannelCreate(userID)
	if err != nil {
		r.log.Warn().Err(err).Str("user", userID).Msg("dm channel open failed")
		return
	}

	if m.Content != "" {
		if _, err := r.s.ChannelMessageSend(dm.ID, m.Content); err != nil {
			r.replyFailure(m.ChannelID, err)
			return
		}
	}
	for _, a := range m.Attachments {
		if _, err := r.s.ChannelMessageSend(dm.ID, a.URL); err != nil {
			r.replyFailure(m.ChannelID, err)
			return
		}
	}

	if err := r.s.MessageReactionAdd(m.ChannelID, m.ID, "✅"); err != nil {
		r.log.Debug().Err(err).Msg("reply confirmation react failed")
	}
	r.sink.LogActivity("modmail_reply", "Staff replied to user "+userID, m.ChannelID, userID, "", nil)
	r.sink.IncrementStat("modmail_replied", 1)
}

func (r *Relay) replyFailure(staffChannel string, err error) {
	if isForbidden(err) {
		_, _ = r.s.ChannelMessageSend(staffChannel, "Could not DM that user, they may have DMs disabled.")
		return
	}
	r.log.Warn().Err(err).Msg("modmail reply relay failed")
}

func isForbidden(err error) bool {
	var rerr *discordgo.RESTError
	if errors.As(err, &rerr) && rerr.Response != nil {
		return rerr.Response.StatusCode == http.StatusForbidden
	}
	return false
}
