// Package gateway abstracts the chat service: sending, editing, reacting,
// renaming, presence. All calls are best-effort against a remote service
// that may throttle or reject; callers treat failures as non-fatal.
package gateway

import "errors"

// Failure classes callers branch on. Anything else is unexpected.
var (
	ErrPermission = errors.New("gateway: missing permission")
	ErrNotFound   = errors.New("gateway: not found")
)

// User is a chat service account.
type User struct {
	ID          string
	Username    string
	DisplayName string
	Bot         bool
}

// Member is a guild member. Nick is empty when unset.
type Member struct {
	User
	Nick string
}

// Mention returns the chat-service mention string for the user.
func (u User) Mention() string {
	return "<@" + u.ID + ">"
}

// Name returns the nickname if set, else the display name.
func (m Member) Name() string {
	if m.Nick != "" {
		return m.Nick
	}
	return m.User.DisplayName
}

// Message is a sent or received chat message.
type Message struct {
	ID        string
	ChannelID string
	Content   string
	Author    User
}

// PresenceKind mirrors the chat service activity types.
type PresenceKind int

const (
	PresencePlaying PresenceKind = iota
	PresenceStreaming
	PresenceListening
	PresenceWatching
)

// Presence is a bot status activity.
type Presence struct {
	Kind PresenceKind
	Name string
	URL  string
}

// Gateway is the messaging surface the core calls through. Implementations
// must map permission and not-found failures to ErrPermission/ErrNotFound.
type Gateway interface {
	Send(channelID, content string) (*Message, error)
	Reply(channelID, messageID, content string) (*Message, error)
	Edit(channelID, messageID, content string) error
	Delete(channelID, messageID string) error
	React(channelID, messageID, emoji string) error
	Typing(channelID string) error
	ReactionUsers(channelID, messageID, emoji string) ([]User, error)
	SetNickname(userID, nick string) error
	MemberNick(userID string) (string, error)
	SetPresence(p Presence) error
	OnlineMembers() []Member
	MembersPlaying(game string) []Member
	SelfID() string
}
