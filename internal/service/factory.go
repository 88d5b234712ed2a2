package service

import (
	"log/slog"
	"time"

	"basegraph.app/hooks/internal/queue"
	"basegraph.app/hooks/internal/store"
)

type ServicesConfig struct {
	// Events and DB are nil when storage is not configured.
	Events       store.EventStore
	DB           Pinger
	Producer     queue.Producer
	StartedAt    time.Time
	QueryTimeout time.Duration
	ProbeTimeout time.Duration
	Logger       *slog.Logger
}

type Services struct {
	webhooks WebhookService
	health   HealthService
}

func NewServices(cfg ServicesConfig) *Services {
	return &Services{
		webhooks: NewWebhookService(cfg.Events, cfg.Producer, cfg.QueryTimeout, cfg.Logger),
		health:   NewHealthService(cfg.DB, cfg.StartedAt, cfg.ProbeTimeout, cfg.Logger),
	}
}

func (s *Services) Webhooks() WebhookService {
	return s.webhooks
}

func (s *Services) Health() HealthService {
	return s.health
}
