package service

import (
	"context"
	"errors"
	"sync"

	"cmdbot/internal/core/domain"
	"cmdbot/internal/core/port"

	"github.com/rs/zerolog/log"
)

type MessageDispatcher interface {
	OnMessage(ctx context.Context, message *domain.Message)
}

// Session owns the background gateway connection and forwards its events to a dispatcher.
type Session struct {
	dispatcher MessageDispatcher
	cancel     context.CancelFunc

	readyOnce sync.Once
	ready     chan struct{}
	done      chan struct{}

	mu  sync.Mutex
	err error
}

// StartSession runs the gateway on its own goroutine and returns immediately.
func StartSession(ctx context.Context, gateway port.Gateway, dispatcher MessageDispatcher) *Session {
	ctx, cancel := context.WithCancel(ctx)

	s := &Session{
		dispatcher: dispatcher,
		cancel:     cancel,
		ready:      make(chan struct{}),
		done:       make(chan struct{}),
	}

	go s.run(ctx, gateway)

	log.Info().Msg("started gateway session")

	return s
}

func (s *Session) run(ctx context.Context, gateway port.Gateway) {
	defer close(s.done)

	err := gateway.Run(ctx, s)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("gateway session terminated")

		s.mu.Lock()
		s.err = err
		s.mu.Unlock()

		return
	}

	log.Info().Msg("gateway session closed")
}

func (s *Session) OnReady(_ context.Context, info domain.ReadyInfo) {
	log.Info().
		Str("sessionId", info.SessionID).
		Int("guilds", info.GuildCount).
		Msgf("%s is connected", info.Username)

	s.readyOnce.Do(func() { close(s.ready) })
}

func (s *Session) OnMessage(ctx context.Context, message *domain.Message) {
	s.dispatcher.OnMessage(ctx, message)
}

// Ready is closed once the gateway reports the connection as ready.
func (s *Session) Ready() <-chan struct{} {
	return s.ready
}

// Done is closed when the gateway connection has terminated.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err returns the error that terminated the connection, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}

// Stop closes the connection and waits for the background goroutine to exit.
func (s *Session) Stop() {
	s.cancel()
	<-s.done
}
