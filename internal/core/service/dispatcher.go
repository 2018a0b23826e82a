package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"cmdbot/internal/core/domain"
	"cmdbot/internal/core/domain/command"
	"cmdbot/internal/core/port"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Dispatcher routes inbound messages to the handler registered for their command name.
type Dispatcher struct {
	prefix   string
	registry port.CommandRegistry
	sender   port.ReplySender
	timeout  time.Duration
	recorder port.DispatchRecorder
}

type DispatcherOption func(*Dispatcher)

// WithHandlerTimeout bounds the context handed to handlers. Zero means no deadline.
func WithHandlerTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		d.timeout = timeout
	}
}

func WithRecorder(recorder port.DispatchRecorder) DispatcherOption {
	return func(d *Dispatcher) {
		d.recorder = recorder
	}
}

func NewDispatcher(prefix string, registry port.CommandRegistry, sender port.ReplySender,
	opts ...DispatcherOption) (*Dispatcher, error) {
	if prefix == "" {
		return nil, domain.ErrEmptyPrefix
	}

	d := &Dispatcher{
		prefix:   prefix,
		registry: registry,
		sender:   sender,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d, nil
}

func (d *Dispatcher) Prefix() string {
	return d.prefix
}

// OnMessage dispatches a single message. It runs the handler synchronously and never returns an
// error: unknown commands are ignored and handler failures are logged.
func (d *Dispatcher) OnMessage(ctx context.Context, message *domain.Message) {
	name, ok := command.ExtractName(d.prefix, message.Text)
	if !ok {
		return
	}

	handler, ok := d.registry.Lookup(name)
	if !ok {
		log.Debug().Str("command", name).Msg("no handler for command")
		return
	}

	l := d.logger(name, message)
	l.Info().Msg("handling command")

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	reply, expire := d.replySink(ctx, l, message.ConversationID)
	err := invoke(ctx, handler, message, reply)
	expire()

	if d.recorder != nil {
		d.recorder.Record(name, err)
	}

	if err != nil {
		l.Error().Err(err).Msg("failed to process command")
		return
	}

	l.Debug().Msg("command processed")
}

func (d *Dispatcher) logger(name string, message *domain.Message) zerolog.Logger {
	lc := log.With().
		Str("command", name).
		Str("messageId", message.ID).
		Stringer("conversationId", message.ConversationID)

	if guild, ok := message.Guild(); ok {
		lc = lc.Stringer("guildId", guild)
	}

	id, err := uuid.NewV4()
	if err == nil {
		lc = lc.Stringer("dispatchId", id)
	}

	return lc.Logger()
}

// replySink binds replies to one conversation. Calls after expire are dropped.
func (d *Dispatcher) replySink(ctx context.Context, l zerolog.Logger,
	conversationID domain.ConversationID) (domain.ReplyFunc, func()) {
	var expired atomic.Bool

	reply := func(text string) {
		if expired.Load() {
			l.Warn().Msg("dropping reply sent after dispatch finished")
			return
		}

		err := d.sender.Send(ctx, conversationID, text)
		if err != nil {
			l.Error().Err(fmt.Errorf("%w: %w", domain.ErrSendingReplyFailed, err)).Send()
		}
	}

	return reply, func() { expired.Store(true) }
}

func invoke(ctx context.Context, handler port.Handler, message *domain.Message,
	reply domain.ReplyFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Bytes("stack", debug.Stack()).Msg("recovered from handler panic")
			err = fmt.Errorf("%w: %v", domain.ErrHandlerPanic, r)
		}
	}()

	return handler.Process(ctx, message, reply)
}
