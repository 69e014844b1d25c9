package modmail

import (
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettings map[string]string

func (f fakeSettings) String(key string) string { return f[key] }

type fakeSink struct {
	stats map[string]int
	acts  []string
}

func newFakeSink() *fakeSink { return &fakeSink{stats: map[string]int{}} }

func (s *fakeSink) LogActivity(kind, description, channelID, userID, userName string, meta map[string]any) {
	s.acts = append(s.acts, kind)
}

func (s *fakeSink) IncrementStat(key string, amount int) { s.stats[key] += amount }

type sentMsg struct {
	Channel string
	Content string
}

type fakeSession struct {
	msgs    []sentMsg
	embeds  []*discordgo.MessageEmbed
	reacts  []string
	refMsg  *discordgo.Message
	sendErr error
}

func (s *fakeSession) ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if s.sendErr != nil && channelID == "dm-chan" {
		return nil, s.sendErr
	}
	s.msgs = append(s.msgs, sentMsg{channelID, content})
	return &discordgo.Message{ID: "sent", ChannelID: channelID}, nil
}

func (s *fakeSession) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.embeds = append(s.embeds, embed)
	return &discordgo.Message{ID: "embed", ChannelID: channelID}, nil
}

func (s *fakeSession) ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	return s.refMsg, nil
}

func (s *fakeSession) UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	return &discordgo.Channel{ID: "dm-chan"}, nil
}

func (s *fakeSession) MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error {
	s.reacts = append(s.reacts, channelID+"/"+messageID+"/"+emojiID)
	return nil
}

func newTestRelay(modmailChannel string) (*Relay, *fakeSession, *fakeSink) {
	s := &fakeSession{}
	sink := newFakeSink()
	r := New(s, fakeSettings{"channels.modmail_id": modmailChannel}, sink, zerolog.Nop())
	return r, s, sink
}

func dmFrom(userID, username, content string) *discordgo.Message {
	return &discordgo.Message{
		ID:        "dm1",
		ChannelID: "user-dm",
		Content:   content,
		Author:    &discordgo.User{ID: userID, Username: username},
	}
}

func TestIsStaffChannel(t *testing.T) {
	r, _, _ := newTestRelay("staff")

	assert.True(t, r.IsStaffChannel("staff"))
	assert.False(t, r.IsStaffChannel("general"))

	unset, _, _ := newTestRelay("")
	assert.False(t, unset.IsStaffChannel(""))
}

func TestHandleDMForwardsEmbed(t *testing.T) {
	r, s, sink := newTestRelay("staff")

	r.HandleDM(dmFrom("u9", "newbie", "help, I got renamed"))

	require.Len(t, s.embeds, 1)
	assert.Equal(t, "help, I got renamed", s.embeds[0].Description)
	assert.Equal(t, "User ID: u9", s.embeds[0].Footer.Text)

	// acknowledgement goes back to the DM channel
	require.Len(t, s.msgs, 1)
	assert.Equal(t, "user-dm", s.msgs[0].Channel)
	assert.Contains(t, s.msgs[0].Content, "<@u9>")
	assert.Equal(t, 1, sink.stats["modmail_received"])
}

func TestHandleDMEmptyContent(t *testing.T) {
	r, s, _ := newTestRelay("staff")

	m := dmFrom("u9", "newbie", "")
	m.Attachments = []*discordgo.MessageAttachment{{URL: "https://cdn.example/shot.png"}}
	r.HandleDM(m)

	require.Len(t, s.embeds, 1)
	assert.Equal(t, "*No text*", s.embeds[0].Description)

	// attachment URL relayed to staff before the ack
	require.Len(t, s.msgs, 2)
	assert.Equal(t, "staff", s.msgs[0].Channel)
	assert.Equal(t, "https://cdn.example/shot.png", s.msgs[0].Content)
}

func TestHandleDMNoopWithoutChannel(t *testing.T) {
	r, s, sink := newTestRelay("")

	r.HandleDM(dmFrom("u9", "newbie", "anyone there?"))

	assert.Empty(t, s.embeds)
	assert.Empty(t, s.msgs)
	assert.Equal(t, 0, sink.stats["modmail_received"])
}

func staffReply(content string) *discordgo.Message {
	return &discordgo.Message{
		ID:               "reply1",
		ChannelID:        "staff",
		Content:          content,
		MessageReference: &discordgo.MessageReference{MessageID: "embed"},
	}
}

func forwardedEmbed(userID string) *discordgo.Message {
	return &discordgo.Message{
		ID: "embed",
		Embeds: []*discordgo.MessageEmbed{{
			Footer: &discordgo.MessageEmbedFooter{Text: "User ID: " + userID},
		}},
	}
}

func TestHandleStaffReplyRelaysToUser(t *testing.T) {
	r, s, sink := newTestRelay("staff")
	s.refMsg = forwardedEmbed("u9")

	r.HandleStaffReply(staffReply("we fixed your nickname"))

	require.Len(t, s.msgs, 1)
	assert.Equal(t, "dm-chan", s.msgs[0].Channel)
	assert.Equal(t, "we fixed your nickname", s.msgs[0].Content)

	require.Len(t, s.reacts, 1)
	assert.Equal(t, "staff/reply1/✅", s.reacts[0])
	assert.Equal(t, 1, sink.stats["modmail_replied"])
}

func TestHandleStaffReplyIgnoresNonReplies(t *testing.T) {
	r, s, sink := newTestRelay("staff")

	r.HandleStaffReply(&discordgo.Message{ID: "m1", ChannelID: "staff", Content: "just chatting"})

	assert.Empty(t, s.msgs)
	assert.Equal(t, 0, sink.stats["modmail_replied"])
}

func TestHandleStaffReplyIgnoresForeignEmbeds(t *testing.T) {
	r, s, _ := newTestRelay("staff")
	s.refMsg = &discordgo.Message{
		ID:     "embed",
		Embeds: []*discordgo.MessageEmbed{{Footer: &discordgo.MessageEmbedFooter{Text: "something else"}}},
	}

	r.HandleStaffReply(staffReply("hello?"))

	assert.Empty(t, s.msgs)
}

func TestHandleStaffReplyReportsClosedDMs(t *testing.T) {
	r, s, sink := newTestRelay("staff")
	s.refMsg = forwardedEmbed("u9")
	s.sendErr = &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden}}

	r.HandleStaffReply(staffReply("are you there"))

	// failure notice lands in the staff channel, nothing reaches the user
	require.Len(t, s.msgs, 1)
	assert.Equal(t, "staff", s.msgs[0].Channel)
	assert.Contains(t, s.msgs[0].Content, "DMs disabled")
	assert.Equal(t, 0, sink.stats["modmail_replied"])
}
