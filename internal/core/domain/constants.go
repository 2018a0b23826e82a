package domain

import (
	"errors"
	"fmt"
)

const DefaultPrefix = "!"

var (
	ErrAlreadyRegistered     = errors.New("command already registered")
	ErrEmptyCommandName      = errors.New("empty command name")
	ErrEmptyPrefix           = errors.New("empty command prefix")
	ErrNilHandler            = errors.New("nil command handler")
	ErrMissingGuild          = errors.New("message has no guild context")
	ErrSendingReplyFailed    = errors.New("failed to send reply")
	ErrHandlerPanic          = errors.New("command handler panicked")
	ErrInvalidToken          = errors.New("invalid bot token")
	ErrInvalidConversationID = errors.New("invalid conversation id")
)

// RegistrationError reports a conflicting command registration.
type RegistrationError struct {
	Name string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("%s: %q", ErrAlreadyRegistered, e.Name)
}

func (e *RegistrationError) Unwrap() error {
	return ErrAlreadyRegistered
}
