package command

import (
	"sort"
	"sync"

	"cmdbot/internal/core/domain"
	"cmdbot/internal/core/port"

	"github.com/rs/zerolog/log"
)

type Registry struct {
	mu       sync.RWMutex
	commands map[string]port.Handler
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]port.Handler)}
}

func (r *Registry) Register(name string, handler port.Handler) error {
	if name == "" {
		return domain.ErrEmptyCommandName
	}

	if handler == nil {
		return domain.ErrNilHandler
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.commands == nil {
		r.commands = make(map[string]port.Handler)
	}

	if _, ok := r.commands[name]; ok {
		log.Warn().Str("command", name).Msg("rejecting duplicate command registration")
		return &domain.RegistrationError{Name: name}
	}

	log.Info().Str("command", name).Msg("adding command handler to registry")
	r.commands[name] = handler

	return nil
}

func (r *Registry) Lookup(name string) (port.Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, ok := r.commands[name]

	return handler, ok
}

func (r *Registry) ListCommands() []string {
	r.mu.RLock()
	keys := make([]string, 0, len(r.commands))
	for k := range r.commands {
		keys = append(keys, k)
	}
	r.mu.RUnlock()

	sort.Strings(keys)

	return keys
}
