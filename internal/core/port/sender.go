package port

import (
	"context"

	"cmdbot/internal/core/domain"
)

type ReplySender interface {
	// Send posts text to the given conversation. Empty or whitespace-only text is skipped without error.
	Send(ctx context.Context, conversationID domain.ConversationID, text string) error
}
