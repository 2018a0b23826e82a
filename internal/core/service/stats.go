package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"cmdbot/internal/core/domain"

	"github.com/rs/zerolog/log"
)

// DispatchStats counts handler invocations per command. Counters are cleared daily by RunDailyReset.
type DispatchStats struct {
	mutex    sync.Mutex
	commands map[string]*domain.CommandStats
}

func NewDispatchStats() *DispatchStats {
	return &DispatchStats{commands: make(map[string]*domain.CommandStats)}
}

func (s *DispatchStats) Record(command string, err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	st, ok := s.commands[command]
	if !ok {
		st = &domain.CommandStats{Command: command}
		s.commands[command] = st
	}

	st.Invocations++
	if err != nil {
		st.Failures++
	}
}

// Snapshot returns a copy of the counters sorted by command name.
func (s *DispatchStats) Snapshot() []domain.CommandStats {
	s.mutex.Lock()
	out := make([]domain.CommandStats, 0, len(s.commands))
	for _, st := range s.commands {
		out = append(out, *st)
	}
	s.mutex.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Command < out[j].Command
	})

	return out
}

func (s *DispatchStats) Reset() {
	s.mutex.Lock()
	s.commands = make(map[string]*domain.CommandStats)
	s.mutex.Unlock()
}

func (s *DispatchStats) RunDailyReset(ctx context.Context) {
	reset := getNextResetTime(time.Now())

	for {
		log.Debug().Time("reset", reset).Msg("running stats reset timer")
		select {
		case <-time.After(time.Until(reset)):
			log.Debug().Msg("resetting dispatch stats")
			s.Reset()
			reset = getNextResetTime(reset.Add(time.Second))
		case <-ctx.Done():
			log.Debug().Msg("stopping dispatch stats reset")
			return
		}
	}
}

func getNextResetTime(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
}
