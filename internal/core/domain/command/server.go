package command

import (
	"context"
	"fmt"

	"cmdbot/internal/core/domain"
)

// Server replies with the id of the guild the command was issued in. It declines direct messages.
type Server struct{}

func NewServer() *Server {
	return &Server{}
}

func (s *Server) Process(_ context.Context, message *domain.Message, reply domain.ReplyFunc) error {
	guild, ok := message.Guild()
	if !ok {
		reply("this command only works inside a server")
		return domain.ErrMissingGuild
	}

	reply(fmt.Sprintf("server id: %s", guild))

	return nil
}
