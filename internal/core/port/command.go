package port

import (
	"context"

	"cmdbot/internal/core/domain"
)

type Handler interface {
	// Process handles a recognized command message. The reply function is only valid until Process
	// returns. Implementations must guard their own state, the registry does not serialize calls.
	Process(ctx context.Context, message *domain.Message, reply domain.ReplyFunc) error
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(ctx context.Context, message *domain.Message, reply domain.ReplyFunc) error

func (f HandlerFunc) Process(ctx context.Context, message *domain.Message, reply domain.ReplyFunc) error {
	return f(ctx, message, reply)
}

type CommandRegistry interface {
	// Register adds a handler under a unique command name. Registering a name twice fails with
	// domain.ErrAlreadyRegistered and keeps the first handler.
	Register(name string, handler Handler) error
	// Lookup retrieves the handler registered for an exact command name.
	Lookup(name string) (Handler, bool)
	// ListCommands returns the registered command names in sorted order.
	ListCommands() []string
}

type DispatchRecorder interface {
	// Record notes one handler invocation for a command and its outcome.
	Record(command string, err error)
}
