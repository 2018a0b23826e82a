package sender

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"cmdbot/internal/core/domain"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

type DiscordSession interface {
	ChannelMessageSend(channelID string, content string,
		options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordMessageLimit is the maximum number of characters Discord accepts in one message.
const DiscordMessageLimit = 2000

type DiscordSender struct {
	session DiscordSession
}

func NewDiscord(session DiscordSession) *DiscordSender {
	return &DiscordSender{session: session}
}

// Send posts text to a channel, splitting it into several messages if it exceeds the Discord limit.
// Empty or whitespace-only text is not sent and returns nil.
func (s *DiscordSender) Send(ctx context.Context, conversationID domain.ConversationID, text string) error {
	if strings.TrimSpace(text) == "" {
		log.Debug().Stringer("conversationId", conversationID).
			Msg("reply is empty, will send nothing to the channel")
		return nil
	}

	for _, chunk := range splitMessage(text, DiscordMessageLimit) {
		_, err := s.session.ChannelMessageSend(conversationID.String(), chunk, discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrSendingReplyFailed, err)
		}
	}

	return nil
}

// splitMessage cuts text into chunks of at most limit runes, preferring to break after a newline.
func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	for text != "" {
		if utf8.RuneCountInString(text) <= limit {
			chunks = append(chunks, text)
			break
		}

		end := byteOffset(text, limit)
		if nl := strings.LastIndexByte(text[:end], '\n'); nl > 0 {
			end = nl + 1
		}

		chunks = append(chunks, text[:end])
		text = text[end:]
	}

	return chunks
}

// byteOffset returns the byte index of the n-th rune in s.
func byteOffset(s string, n int) int {
	i := 0
	for idx := range s {
		if i == n {
			return idx
		}
		i++
	}

	return len(s)
}
