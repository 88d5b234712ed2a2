package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"basegraph.app/hooks/common/logger"
	"basegraph.app/hooks/internal/metrics"
	"basegraph.app/hooks/internal/model"
	"basegraph.app/hooks/internal/queue"
	"basegraph.app/hooks/internal/store"
)

var (
	ErrInvalidBody          = errors.New("request body must be a JSON object")
	ErrStorageNotConfigured = errors.New("storage not configured")
)

// EventDraft is an event before the database assigns ID and CreatedAt.
type EventDraft struct {
	Type    string
	Payload json.RawMessage
}

// DeriveEvent extracts the event type and payload from a webhook body.
//
// The body must be a JSON object. Type is the body's "type" field when it is
// a non-empty string, otherwise model.EventTypeUnknown. Payload is the body's
// "payload" field when present with any non-null value (false, 0, "" and {}
// are kept), otherwise the whole body. Payload bytes are passed through
// untouched. An empty body is treated as an empty object.
func DeriveEvent(body []byte) (EventDraft, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		body = []byte("{}")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return EventDraft{}, ErrInvalidBody
	}

	draft := EventDraft{
		Type:    model.EventTypeUnknown,
		Payload: json.RawMessage(body),
	}

	if raw, ok := fields["type"]; ok {
		var t string
		if err := json.Unmarshal(raw, &t); err == nil && t != "" {
			draft.Type = t
		}
	}

	if raw, ok := fields["payload"]; ok && !isJSONNull(raw) {
		draft.Payload = raw
	}

	return draft, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

type IngestResult struct {
	Event     *model.Event
	Published bool
}

type WebhookService interface {
	Ingest(ctx context.Context, body []byte) (*IngestResult, error)
}

type webhookService struct {
	events       store.EventStore
	producer     queue.Producer
	queryTimeout time.Duration
	logger       *slog.Logger
}

// NewWebhookService builds the ingestor. A nil events store means storage is
// not configured and every Ingest fails with ErrStorageNotConfigured.
func NewWebhookService(events store.EventStore, producer queue.Producer, queryTimeout time.Duration, logger *slog.Logger) WebhookService {
	if producer == nil {
		producer = queue.NewNoopProducer()
	}
	if queryTimeout <= 0 {
		queryTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &webhookService{
		events:       events,
		producer:     producer,
		queryTimeout: queryTimeout,
		logger:       logger,
	}
}

func (s *webhookService) Ingest(ctx context.Context, body []byte) (*IngestResult, error) {
	draft, err := DeriveEvent(body)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		EventType: logger.Ptr(draft.Type),
		Component: "hooks.service.webhook",
	})

	if s.events == nil {
		return nil, ErrStorageNotConfigured
	}

	// A dropped client connection must not abort a write that already started.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.queryTimeout)
	defer cancel()

	event, err := s.insert(writeCtx, draft)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{EventID: logger.Ptr(event.ID)})
	s.logger.InfoContext(ctx, "event stored", "payload_bytes", len(draft.Payload))

	msg := queue.EventMessage{EventID: event.ID, EventType: event.Type}
	if reqID := logger.GetLogFields(ctx).RequestID; reqID != nil {
		msg.RequestID = *reqID
	}

	// The row is durable at this point; a failed publish is not a failed ingest.
	published := true
	if err := s.producer.Enqueue(writeCtx, msg); err != nil {
		published = false
		metrics.PublishErrors.Inc()
		s.logger.WarnContext(ctx, "failed to publish stored event", "error", err)
	}

	return &IngestResult{Event: event, Published: published}, nil
}

func (s *webhookService) insert(ctx context.Context, draft EventDraft) (*model.Event, error) {
	sc := logger.StartSpan(ctx, "store.events.create",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("event.type", draft.Type)),
	)
	defer sc.End()

	start := time.Now()
	event, err := s.events.Create(sc.Context(), &model.Event{
		Type:    draft.Type,
		Payload: draft.Payload,
	})
	metrics.StorageDuration.WithLabelValues(metrics.OpInsert).Observe(time.Since(start).Seconds())
	if err != nil {
		sc.RecordError(err)
		metrics.StorageErrors.WithLabelValues(metrics.OpInsert).Inc()
		return nil, fmt.Errorf("inserting event: %w", err)
	}
	return event, nil
}
