package bot

import (
	"context"
	"errors"
	"time"

	"cmdbot/internal/adapters/gateway"
	"cmdbot/internal/adapters/sender"
	"cmdbot/internal/core/domain"
	"cmdbot/internal/core/domain/command"
	"cmdbot/internal/core/port"
	"cmdbot/internal/core/service"

	"github.com/rs/zerolog/log"
)

// Client connects to the gateway and dispatches prefixed commands to registered handlers.
type Client struct {
	registry   *command.Registry
	dispatcher *service.Dispatcher
	stats      *service.DispatchStats
	session    *service.Session
	cancel     context.CancelFunc
	resetDone  chan struct{}
}

type options struct {
	prefix  string
	timeout time.Duration
	gateway port.Gateway
	sender  port.ReplySender
}

type Option func(*options)

// WithPrefix sets the command prefix. Defaults to "!".
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithHandlerTimeout bounds each handler invocation. Defaults to no timeout.
func WithHandlerTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithTransport replaces the Discord connection, the token is then not used.
func WithTransport(gw port.Gateway, s port.ReplySender) Option {
	return func(o *options) {
		o.gateway = gw
		o.sender = s
	}
}

// New validates the token, starts the gateway connection in the background and returns without
// waiting for it to become ready.
func New(ctx context.Context, token string, opts ...Option) (*Client, error) {
	o := &options{prefix: domain.DefaultPrefix}
	for _, opt := range opts {
		opt(o)
	}

	if o.gateway == nil || o.sender == nil {
		s, err := gateway.NewSession(token)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("created discord session")

		o.gateway = gateway.NewDiscord(s)
		o.sender = sender.NewDiscord(s)
	}

	registry := command.NewRegistry()
	stats := service.NewDispatchStats()

	dispatcher, err := service.NewDispatcher(o.prefix, registry, o.sender,
		service.WithHandlerTimeout(o.timeout),
		service.WithRecorder(stats))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)

	resetDone := make(chan struct{})
	go func() {
		defer close(resetDone)
		stats.RunDailyReset(ctx)
	}()

	return &Client{
		registry:   registry,
		dispatcher: dispatcher,
		stats:      stats,
		session:    service.StartSession(ctx, o.gateway, dispatcher),
		cancel:     cancel,
		resetDone:  resetDone,
	}, nil
}

// RegisterCommand makes handler reachable as prefix+name. It is safe to call while messages are
// being dispatched. A name can only be registered once.
func (c *Client) RegisterCommand(name string, handler port.Handler) error {
	return c.registry.Register(name, handler)
}

// RegisterBuiltins registers the ping, help, debug, stats and server commands.
func (c *Client) RegisterBuiltins() error {
	builtins := map[string]port.Handler{
		"ping":   command.NewPing(),
		"help":   command.NewHelp(c.registry, c.dispatcher.Prefix()),
		"debug":  command.NewDebug(),
		"stats":  command.NewStats(c.stats),
		"server": command.NewServer(),
	}

	var errs []error
	for name, h := range builtins {
		errs = append(errs, c.RegisterCommand(name, h))
	}

	return errors.Join(errs...)
}

func (c *Client) Commands() []string {
	return c.registry.ListCommands()
}

func (c *Client) Stats() *service.DispatchStats {
	return c.stats
}

// Ready is closed once the gateway reports the connection as ready.
func (c *Client) Ready() <-chan struct{} {
	return c.session.Ready()
}

// Done is closed when the gateway connection has terminated.
func (c *Client) Done() <-chan struct{} {
	return c.session.Done()
}

// Err returns the transport error that ended the session, if any.
func (c *Client) Err() error {
	return c.session.Err()
}

// Close stops the gateway connection and the stats reset loop and waits for both to exit.
func (c *Client) Close() {
	c.cancel()
	c.session.Stop()
	<-c.resetDone
}
