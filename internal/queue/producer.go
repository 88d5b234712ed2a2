package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// EventMessage announces a stored event to downstream consumers.
type EventMessage struct {
	EventID   int64
	EventType string
	RequestID string
}

type Producer interface {
	Enqueue(ctx context.Context, msg EventMessage) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Enqueue(ctx context.Context, msg EventMessage) error {
	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: messageFields(msg),
	}).Err(); err != nil {
		return fmt.Errorf("enqueue event: %w", err)
	}

	p.logger.DebugContext(ctx, "event published", "event_id", msg.EventID, "stream", p.stream)
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}

func messageFields(msg EventMessage) map[string]any {
	fields := map[string]any{
		"event_id":   msg.EventID,
		"event_type": msg.EventType,
	}
	if msg.RequestID != "" {
		fields["request_id"] = msg.RequestID
	}
	return fields
}

type noopProducer struct{}

// NewNoopProducer is used when no stream is configured.
func NewNoopProducer() Producer {
	return noopProducer{}
}

func (noopProducer) Enqueue(context.Context, EventMessage) error { return nil }

func (noopProducer) Close() error { return nil }
