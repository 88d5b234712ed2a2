package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"basegraph.app/hooks/core/config"
	"basegraph.app/hooks/core/db"
	httprouter "basegraph.app/hooks/internal/http/router"
	"basegraph.app/hooks/internal/metrics"
	"basegraph.app/hooks/internal/queue"
	"basegraph.app/hooks/internal/service"
	"basegraph.app/hooks/internal/store"
)

// Server owns every long-lived resource of the process: the database pool,
// the event producer, and the HTTP server. Stop releases all of them.
type Server struct {
	cfg      config.Config
	database *db.DB
	producer queue.Producer
	http     *http.Server
	listener net.Listener
	errCh    chan error
	stopOnce sync.Once
	stopErr  error
}

// New wires storage, services, and routes. Neither a missing nor an
// unreachable database or Redis is fatal: the server starts degraded and
// reports it through /health and per-endpoint errors.
func New(ctx context.Context, cfg config.Config) *Server {
	s := &Server{
		cfg:      cfg,
		producer: queue.NewNoopProducer(),
		errCh:    make(chan error, 1),
	}

	svcCfg := service.ServicesConfig{
		StartedAt:    time.Now(),
		QueryTimeout: cfg.DB.QueryTimeout,
		ProbeTimeout: cfg.Health.ProbeTimeout,
	}

	database, err := db.New(ctx, cfg.DB)
	switch {
	case errors.Is(err, db.ErrNotConfigured):
		slog.WarnContext(ctx, "database not configured; set DATABASE_URL or DB_HOST/DB_PORT/DB_NAME/DB_USER/DB_PASSWORD")
	case err != nil:
		slog.ErrorContext(ctx, "failed to create database pool", "error", err)
	default:
		s.database = database
		svcCfg.Events = store.NewStores(database.Queries()).Events()
		svcCfg.DB = database
	}

	if cfg.Redis.Enabled() {
		client, err := queue.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			slog.ErrorContext(ctx, "redis unavailable, stored events will not be published", "error", err)
		} else {
			s.producer = queue.NewRedisProducer(client, cfg.Redis.Stream, nil)
			slog.InfoContext(ctx, "redis connected", "stream", cfg.Redis.Stream)
		}
	}
	svcCfg.Producer = s.producer

	if cfg.APIKey == "" {
		slog.WarnContext(ctx, "API_KEY not set; /webhook will reject every request")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	routerCfg := httprouter.RouterConfig{
		APIKey:       cfg.APIKey,
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
	}
	if cfg.OTel.Enabled() {
		routerCfg.OTelServiceName = cfg.OTel.ServiceName
	}

	s.http = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           httprouter.New(service.NewServices(svcCfg), routerCfg),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	return s
}

// Start bootstraps the schema and begins serving. A bootstrap failure is
// logged and does not prevent serving; only a failure to bind is returned.
func (s *Server) Start(ctx context.Context) error {
	if s.database != nil {
		start := time.Now()
		err := s.database.EnsureSchema(ctx)
		metrics.StorageDuration.WithLabelValues(metrics.OpBootstrap).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.StorageErrors.WithLabelValues(metrics.OpBootstrap).Inc()
			slog.ErrorContext(ctx, "db init error", "error", err)
		} else {
			slog.InfoContext(ctx, "db ready")
		}
	}

	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.http.Addr, err)
	}
	s.listener = ln

	go func() {
		slog.InfoContext(ctx, "http server starting", "addr", ln.Addr().String())
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errCh <- err
		}
		close(s.errCh)
	}()

	return nil
}

// Addr is the bound address once Start has returned.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.http.Addr
	}
	return s.listener.Addr().String()
}

// Errors yields a serve error, if any, and is closed when serving ends.
func (s *Server) Errors() <-chan error {
	return s.errCh
}

// Stop drains in-flight requests, then closes the producer and the pool.
// Resources are released even when the drain times out. Safe to call more
// than once; later calls return the first result.
func (s *Server) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() {
		var errs []error

		if s.listener != nil {
			if err := s.http.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("http shutdown: %w", err))
			}
		}

		if err := s.producer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("producer close: %w", err))
		}

		if s.database != nil {
			s.database.Close()
		}

		s.stopErr = errors.Join(errs...)
	})
	return s.stopErr
}
