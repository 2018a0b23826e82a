package bot

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"cmdbot/internal/core/domain"
	"cmdbot/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	inbound chan *domain.Message
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{inbound: make(chan *domain.Message)}
}

func (g *fakeGateway) Run(ctx context.Context, listener port.EventListener) error {
	listener.OnReady(ctx, domain.ReadyInfo{Username: "cmdbot", SessionID: "s1"})

	for {
		select {
		case m := <-g.inbound:
			listener.OnMessage(ctx, m)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// deliver blocks until the session has picked up the message.
func (g *fakeGateway) deliver(t *testing.T, text string, conversationID domain.ConversationID) {
	t.Helper()

	select {
	case g.inbound <- &domain.Message{Text: text, ConversationID: conversationID}:
	case <-time.After(time.Second):
		t.Fatal("gateway did not accept message")
	}
}

type sentReply struct {
	conversationID domain.ConversationID
	text           string
}

type fakeSender struct {
	mu      sync.Mutex
	replies []sentReply
}

func (s *fakeSender) Send(_ context.Context, conversationID domain.ConversationID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, sentReply{conversationID: conversationID, text: text})
	return nil
}

func (s *fakeSender) sent() []sentReply {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentReply(nil), s.replies...)
}

func newTestClient(t *testing.T, opts ...Option) (*Client, *fakeGateway, *fakeSender) {
	t.Helper()

	gw := newFakeGateway()
	snd := &fakeSender{}

	c, err := New(t.Context(), "", append([]Option{WithTransport(gw, snd)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	select {
	case <-c.Ready():
	case <-time.After(time.Second):
		t.Fatal("client never became ready")
	}

	return c, gw, snd
}

func TestNew_InvalidToken(t *testing.T) {
	c, err := New(t.Context(), "not-a-token")

	require.ErrorIs(t, err, domain.ErrInvalidToken)
	assert.Nil(t, c)
}

func TestNew_EmptyPrefix(t *testing.T) {
	c, err := New(t.Context(), "", WithTransport(newFakeGateway(), &fakeSender{}), WithPrefix(""))

	require.ErrorIs(t, err, domain.ErrEmptyPrefix)
	assert.Nil(t, c)
}

func TestClient_PingScenario(t *testing.T) {
	c, gw, snd := newTestClient(t)

	require.NoError(t, c.RegisterCommand("ping", port.HandlerFunc(
		func(_ context.Context, _ *domain.Message, reply domain.ReplyFunc) error {
			reply("pong")
			return nil
		})))

	gw.deliver(t, "!ping", 42)
	gw.deliver(t, "!pong", 42)
	// a third message flushes the previous dispatch, events are handled one at a time
	gw.deliver(t, "hello", 42)

	assert.Equal(t, []sentReply{{conversationID: 42, text: "pong"}}, snd.sent())
}

func TestClient_CustomPrefix(t *testing.T) {
	c, gw, snd := newTestClient(t, WithPrefix("?"))
	require.NoError(t, c.RegisterBuiltins())

	gw.deliver(t, "!ping", 1)
	gw.deliver(t, "?ping", 2)
	gw.deliver(t, "flush", 2)

	assert.Equal(t, []sentReply{{conversationID: 2, text: "pong"}}, snd.sent())
}

func TestClient_RegisterCommandTwice(t *testing.T) {
	c, _, _ := newTestClient(t)

	require.NoError(t, c.RegisterCommand("ping", port.HandlerFunc(
		func(context.Context, *domain.Message, domain.ReplyFunc) error { return nil })))

	err := c.RegisterCommand("ping", port.HandlerFunc(
		func(context.Context, *domain.Message, domain.ReplyFunc) error { return nil }))

	require.ErrorIs(t, err, domain.ErrAlreadyRegistered)
	assert.Equal(t, []string{"ping"}, c.Commands())
}

func TestClient_RegisterBuiltins(t *testing.T) {
	c, gw, snd := newTestClient(t)

	require.NoError(t, c.RegisterBuiltins())
	assert.Equal(t, []string{"debug", "help", "ping", "server", "stats"}, c.Commands())

	err := c.RegisterBuiltins()
	require.ErrorIs(t, err, domain.ErrAlreadyRegistered)

	gw.deliver(t, "!ping", 3)
	gw.deliver(t, "!stats", 3)
	gw.deliver(t, "flush", 3)

	replies := snd.sent()
	require.Len(t, replies, 2)
	assert.Equal(t, "pong", replies[0].text)
	assert.Equal(t, "ping: 1 invocation, 0 failed", replies[1].text)
}

func TestClient_RegisterWhileDispatching(t *testing.T) {
	c, gw, snd := newTestClient(t)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := fmt.Sprintf("cmd%d", i)
			assert.NoError(t, c.RegisterCommand(name, port.HandlerFunc(
				func(_ context.Context, _ *domain.Message, reply domain.ReplyFunc) error {
					reply(name)
					return nil
				})))
		}()
	}

	for range 20 {
		gw.deliver(t, "!nothing", 1)
	}
	wg.Wait()

	for i := range 20 {
		gw.deliver(t, fmt.Sprintf("!cmd%d", i), 1)
	}
	gw.deliver(t, "flush", 1)

	assert.Len(t, c.Commands(), 20)
	assert.Len(t, snd.sent(), 20)
}

func TestClient_Close(t *testing.T) {
	c, _, _ := newTestClient(t)

	c.Close()

	select {
	case <-c.Done():
	default:
		t.Fatal("session must be done after Close")
	}
	select {
	case <-c.resetDone:
	default:
		t.Fatal("stats reset loop must have exited after Close")
	}
	assert.NoError(t, c.Err())
}
