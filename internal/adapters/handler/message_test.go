package handler

import (
	"context"
	"testing"

	"cmdbot/internal/core/domain"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockListener struct {
	mock.Mock
}

func (m *MockListener) OnReady(ctx context.Context, info domain.ReadyInfo) {
	m.Called(ctx, info)
}

func (m *MockListener) OnMessage(ctx context.Context, message *domain.Message) {
	m.Called(ctx, message)
}

func makeMessage(txt, channelID, guildID, authorID string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{
		Message: &discordgo.Message{
			ID:        "1",
			ChannelID: channelID,
			GuildID:   guildID,
			Content:   txt,
			Author:    &discordgo.User{ID: authorID, Username: "bob"},
		},
	}
}

func botSession(botID string) *discordgo.Session {
	state := discordgo.NewState()
	state.User = &discordgo.User{ID: botID}

	return &discordgo.Session{State: state}
}

func TestEvents_OnMessageCreate(t *testing.T) {
	guild := domain.GuildID(300)

	type testcase struct {
		name       string
		event      *discordgo.MessageCreate
		wantCalled bool
		wantMsg    *domain.Message
	}

	tests := []testcase{
		{
			name:       "no message in event",
			event:      &discordgo.MessageCreate{},
			wantCalled: false,
		},
		{
			name:       "message from the bot itself",
			event:      makeMessage("!ping", "100", "300", "999"),
			wantCalled: false,
		},
		{
			name:       "invalid channel id",
			event:      makeMessage("!ping", "general", "", "200"),
			wantCalled: false,
		},
		{
			name:       "invalid guild id",
			event:      makeMessage("!ping", "100", "guild", "200"),
			wantCalled: false,
		},
		{
			name:       "guild message",
			event:      makeMessage("!辞書 勉強", "100", "300", "200"),
			wantCalled: true,
			wantMsg: &domain.Message{
				ID:             "1",
				ConversationID: 100,
				GuildID:        &guild,
				AuthorID:       "200",
				AuthorName:     "bob",
				Text:           "!辞書 勉強",
			},
		},
		{
			name:       "direct message has no guild",
			event:      makeMessage("!ping", "100", "", "200"),
			wantCalled: true,
			wantMsg: &domain.Message{
				ID:             "1",
				ConversationID: 100,
				AuthorID:       "200",
				AuthorName:     "bob",
				Text:           "!ping",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			listener := new(MockListener)
			if tc.wantCalled {
				listener.On("OnMessage", mock.Anything, tc.wantMsg).Return().Once()
			}

			events := NewEvents(t.Context(), listener)
			events.OnMessageCreate(botSession("999"), tc.event)

			listener.AssertExpectations(t)
			if !tc.wantCalled {
				assert.Empty(t, listener.Calls)
			}
		})
	}
}

func TestEvents_OnReady(t *testing.T) {
	listener := new(MockListener)
	listener.On("OnReady", mock.Anything, domain.ReadyInfo{
		Username:   "cmdbot",
		SessionID:  "abc",
		GuildCount: 2,
	}).Return().Once()

	events := NewEvents(t.Context(), listener)
	events.OnReady(nil, &discordgo.Ready{
		SessionID: "abc",
		User:      &discordgo.User{Username: "cmdbot"},
		Guilds:    []*discordgo.Guild{{ID: "1"}, {ID: "2"}},
	})

	listener.AssertExpectations(t)
}

func TestToDomainMessage(t *testing.T) {
	msg, err := toDomainMessage(&discordgo.Message{
		ID:        "5",
		ChannelID: "18446744073709551615",
		Content:   "!ping",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ConversationID(18446744073709551615), msg.ConversationID)
	assert.Nil(t, msg.GuildID)

	_, err = toDomainMessage(&discordgo.Message{ChannelID: "-1"})
	require.ErrorIs(t, err, domain.ErrInvalidConversationID)
}
