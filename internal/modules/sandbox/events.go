package sandbox

import (
	"context"
	"log/slog"
)

// LogPublisher stands in for RabbitMQ when no broker is configured.
type LogPublisher struct {
	Logger *slog.Logger
}

func (p LogPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "lifecycle event", "routing_key", routingKey, "payload", payload)
	return nil
}
