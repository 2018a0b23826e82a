package port

import (
	"context"

	"cmdbot/internal/core/domain"
)

type EventListener interface {
	// OnReady is called once the gateway connection is established.
	OnReady(ctx context.Context, info domain.ReadyInfo)
	// OnMessage is called for every inbound message, in arrival order.
	OnMessage(ctx context.Context, message *domain.Message)
}

type Gateway interface {
	// Run connects to the gateway and delivers events to the listener. It blocks until ctx is
	// cancelled or the connection fails.
	Run(ctx context.Context, listener EventListener) error
}
