package domain

import "strconv"

// ConversationID identifies the channel a message arrived in. Replies are routed back to it.
type ConversationID uint64

func (c ConversationID) String() string {
	return strconv.FormatUint(uint64(c), 10)
}

// GuildID identifies the server a message was posted in.
type GuildID uint64

func (g GuildID) String() string {
	return strconv.FormatUint(uint64(g), 10)
}

type Message struct {
	ID             string
	ConversationID ConversationID
	// GuildID is nil for direct messages.
	GuildID    *GuildID
	AuthorID   string
	AuthorName string
	Text       string
}

// Guild returns the guild the message was posted in, if any.
func (m *Message) Guild() (GuildID, bool) {
	if m.GuildID == nil {
		return 0, false
	}

	return *m.GuildID, true
}

// ReplyFunc sends text back to the conversation of the message being dispatched. Empty or
// whitespace-only text is dropped, Discord rejects empty messages.
type ReplyFunc func(text string)

type ReadyInfo struct {
	Username   string
	SessionID  string
	GuildCount int
}

// CommandStats counts handler invocations of one command.
type CommandStats struct {
	Command     string
	Invocations int
	Failures    int
}
