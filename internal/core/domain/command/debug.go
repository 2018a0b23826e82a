package command

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"runtime/metrics"

	"cmdbot/internal/core/domain"

	"github.com/rs/zerolog/log"
)

type Debug struct{}

func NewDebug() *Debug {
	return &Debug{}
}

const kb = 1024
const debugTemplate = `allocated mem: %d KB
goroutines running: %d
heap: %d KB
stack: %d KB
compiled with %s for %s-%s`
const metricCount = 3

func (d *Debug) Process(_ context.Context, message *domain.Message, reply domain.ReplyFunc) error {
	l := log.With().
		Str("messageId", message.ID).
		Stringer("conversationId", message.ConversationID).
		Logger()

	data := make([]metrics.Sample, metricCount)
	data[0] = metrics.Sample{Name: "/memory/classes/heap/objects:bytes"}
	data[1] = metrics.Sample{Name: "/memory/classes/heap/stacks:bytes"}
	data[2] = metrics.Sample{Name: "/memory/classes/total:bytes"}

	metrics.Read(data)

	for _, sample := range data {
		l.Debug().Str("name", sample.Name).Msgf("%d", sample.Value.Uint64())
	}

	goos, goarch := runtime.GOOS, runtime.GOARCH
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "GOOS":
				goos = setting.Value
			case "GOARCH":
				goarch = setting.Value
			}
		}
	}

	reply(fmt.Sprintf(
		debugTemplate,
		data[2].Value.Uint64()/kb,
		runtime.NumGoroutine(),
		data[0].Value.Uint64()/kb,
		data[1].Value.Uint64()/kb,
		runtime.Version(), goos, goarch,
	))

	return nil
}
