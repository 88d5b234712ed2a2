package service

import (
	"context"
	"log/slog"
	"time"

	"basegraph.app/hooks/internal/metrics"
)

// Pinger is the storage round-trip used by the health probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthReport is advisory: a live process always reports healthy,
// DB only annotates storage reachability.
type HealthReport struct {
	Uptime time.Duration
	// nil when storage is not configured.
	DB *bool
}

type HealthService interface {
	Check(ctx context.Context) HealthReport
}

type healthService struct {
	db           Pinger
	startedAt    time.Time
	probeTimeout time.Duration
	logger       *slog.Logger
}

func NewHealthService(db Pinger, startedAt time.Time, probeTimeout time.Duration, logger *slog.Logger) HealthService {
	if probeTimeout <= 0 {
		probeTimeout = 2 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &healthService{
		db:           db,
		startedAt:    startedAt,
		probeTimeout: probeTimeout,
		logger:       logger,
	}
}

func (s *healthService) Check(ctx context.Context) HealthReport {
	report := HealthReport{Uptime: time.Since(s.startedAt)}

	if s.db == nil {
		metrics.HealthDBUp.Set(-1)
		return report
	}

	probeCtx, cancel := context.WithTimeout(ctx, s.probeTimeout)
	defer cancel()

	start := time.Now()
	err := s.db.Ping(probeCtx)
	metrics.StorageDuration.WithLabelValues(metrics.OpPing).Observe(time.Since(start).Seconds())

	up := err == nil
	report.DB = &up
	if up {
		metrics.HealthDBUp.Set(1)
	} else {
		metrics.HealthDBUp.Set(0)
		metrics.StorageErrors.WithLabelValues(metrics.OpPing).Inc()
		s.logger.WarnContext(ctx, "health probe failed", "error", err)
	}
	return report
}
