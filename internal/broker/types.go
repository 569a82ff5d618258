package broker

import (
	"context"

	"modguard/internal/platform"
)

type Producer interface {
	Publish(ctx context.Context, topic string, evt platform.MessageEvent) error
	Close() error
}

type Consumer interface {
	Consume(ctx context.Context, topic string, handler HandlerFunc) error
	Close() error
	SetServiceName(name string)
}

type HandlerFunc func(ctx context.Context, evt platform.MessageEvent) error
