package handler

import (
	"context"
	"fmt"
	"strconv"

	"cmdbot/internal/core/domain"
	"cmdbot/internal/core/port"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Events translates discordgo gateway events into domain events for a listener.
type Events struct {
	ctx      context.Context
	listener port.EventListener
}

func NewEvents(ctx context.Context, listener port.EventListener) *Events {
	return &Events{ctx: ctx, listener: listener}
}

func (e *Events) OnReady(_ *discordgo.Session, r *discordgo.Ready) {
	info := domain.ReadyInfo{
		SessionID:  r.SessionID,
		GuildCount: len(r.Guilds),
	}
	if r.User != nil {
		info.Username = r.User.Username
	}

	e.listener.OnReady(e.ctx, info)
}

func (e *Events) OnMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Message == nil || m.Author == nil {
		return
	}

	if isOwnMessage(s, m.Author) {
		return
	}

	log.Debug().Str("message", m.Content).Str("channelId", m.ChannelID).Msg("received message")

	msg, err := toDomainMessage(m.Message)
	if err != nil {
		log.Error().Err(err).Str("messageId", m.ID).Msg("dropping message")
		return
	}

	e.listener.OnMessage(e.ctx, msg)
}

func (e *Events) OnDisconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	log.Warn().Msg("disconnected from gateway")
}

func (e *Events) OnResumed(_ *discordgo.Session, _ *discordgo.Resumed) {
	log.Info().Msg("gateway session resumed")
}

func isOwnMessage(s *discordgo.Session, author *discordgo.User) bool {
	if s == nil || s.State == nil || s.State.User == nil {
		return false
	}

	return author.ID == s.State.User.ID
}

func toDomainMessage(m *discordgo.Message) (*domain.Message, error) {
	channelID, err := strconv.ParseUint(m.ChannelID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: channel %q", domain.ErrInvalidConversationID, m.ChannelID)
	}

	msg := &domain.Message{
		ID:             m.ID,
		ConversationID: domain.ConversationID(channelID),
		Text:           m.Content,
	}

	if m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.AuthorName = m.Author.Username
	}

	if m.GuildID != "" {
		guildID, err := strconv.ParseUint(m.GuildID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: guild %q", domain.ErrInvalidConversationID, m.GuildID)
		}

		g := domain.GuildID(guildID)
		msg.GuildID = &g
	}

	return msg, nil
}
