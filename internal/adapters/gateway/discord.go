package gateway

import (
	"context"
	"fmt"
	"strings"

	"cmdbot/internal/adapters/handler"
	"cmdbot/internal/core/domain"
	"cmdbot/internal/core/port"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

const Intents = discordgo.IntentsGuildMessages |
	discordgo.IntentsDirectMessages |
	discordgo.IntentMessageContent

type DiscordSession interface {
	AddHandler(handler interface{}) func()
	Open() error
	Close() error
}

type DiscordGateway struct {
	session DiscordSession
}

// NewSession validates the token and creates a discordgo session that delivers events in order.
func NewSession(token string) (*discordgo.Session, error) {
	token, err := ValidateToken(token)
	if err != nil {
		return nil, err
	}

	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.Identify.Intents = Intents
	// run handlers on the read loop so messages are dispatched in arrival order
	s.SyncEvents = true

	return s, nil
}

func NewDiscord(session DiscordSession) *DiscordGateway {
	return &DiscordGateway{session: session}
}

func (g *DiscordGateway) Run(ctx context.Context, listener port.EventListener) error {
	events := handler.NewEvents(ctx, listener)

	removers := []func(){
		g.session.AddHandler(events.OnReady),
		g.session.AddHandler(events.OnMessageCreate),
		g.session.AddHandler(events.OnDisconnect),
		g.session.AddHandler(events.OnResumed),
	}
	defer func() {
		for _, remove := range removers {
			remove()
		}
	}()

	if err := g.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	log.Info().Msg("opened gateway connection")

	<-ctx.Done()
	log.Info().Msg("closing gateway connection")

	if err := g.session.Close(); err != nil {
		return fmt.Errorf("failed to close Discord session: %w", err)
	}

	return ctx.Err()
}

// ValidateToken checks the shape of a bot token: three non-empty, dot-separated segments. An
// optional "Bot " prefix is stripped.
func ValidateToken(token string) (string, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bot "))
	if token == "" || strings.ContainsAny(token, " \t\n") {
		return "", domain.ErrInvalidToken
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", domain.ErrInvalidToken
	}

	for _, p := range parts {
		if p == "" {
			return "", domain.ErrInvalidToken
		}
	}

	return token, nil
}
