package command

import (
	"context"

	"cmdbot/internal/core/domain"
)

type Ping struct{}

func NewPing() *Ping {
	return &Ping{}
}

func (p *Ping) Process(_ context.Context, _ *domain.Message, reply domain.ReplyFunc) error {
	reply("pong")
	return nil
}
