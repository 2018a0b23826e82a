package command

import (
	"context"
	"fmt"
	"strings"

	"cmdbot/internal/core/domain"
	"cmdbot/internal/core/port"

	"github.com/rs/zerolog/log"
)

// Help lists every registered command.
type Help struct {
	registry port.CommandRegistry
	prefix   string
}

func NewHelp(registry port.CommandRegistry, prefix string) *Help {
	return &Help{registry: registry, prefix: prefix}
}

func (h *Help) Process(_ context.Context, message *domain.Message, reply domain.ReplyFunc) error {
	commands := h.registry.ListCommands()

	log.Debug().
		Stringer("conversationId", message.ConversationID).
		Int("commands", len(commands)).
		Msg("listing commands")

	sb := &strings.Builder{}

	_, err := sb.WriteString("Available commands:\n")
	if err != nil {
		return fmt.Errorf("failed to construct response: %w", err)
	}

	for _, name := range commands {
		_, err = fmt.Fprintf(sb, " - %s%s\n", h.prefix, name)
		if err != nil {
			return fmt.Errorf("failed to construct response: %w", err)
		}
	}

	reply(strings.TrimSuffix(sb.String(), "\n"))

	return nil
}
