package command

import (
	"context"
	"fmt"
	"strings"

	"cmdbot/internal/core/domain"
)

type StatsSource interface {
	Snapshot() []domain.CommandStats
}

// Stats reports how often each command ran since the last daily reset.
type Stats struct {
	source StatsSource
}

func NewStats(source StatsSource) *Stats {
	return &Stats{source: source}
}

const statsLine = "%s: %d invocation%s, %d failed"

func (s *Stats) Process(_ context.Context, _ *domain.Message, reply domain.ReplyFunc) error {
	snapshot := s.source.Snapshot()
	if len(snapshot) == 0 {
		reply("no commands dispatched today")
		return nil
	}

	lines := make([]string, 0, len(snapshot))
	for _, st := range snapshot {
		var plural string
		if st.Invocations != 1 {
			plural = "s"
		}

		lines = append(lines, fmt.Sprintf(statsLine, st.Command, st.Invocations, plural, st.Failures))
	}

	reply(strings.Join(lines, "\n"))

	return nil
}
