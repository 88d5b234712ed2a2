package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"basegraph.app/hooks/common/id"
	"basegraph.app/hooks/common/logger"
	"basegraph.app/hooks/common/otel"
	"basegraph.app/hooks/core/config"
	"basegraph.app/hooks/internal/app"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		// Telemetry is optional; keep serving without it.
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		telemetry = nil
	}

	logger.Setup(cfg, telemetry != nil)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled")
	}

	if err := id.Init(cfg.SnowflakeNode); err != nil {
		slog.WarnContext(ctx, "invalid SNOWFLAKE_NODE, using default node", "error", err, "node", id.DefaultNode)
	}

	slog.InfoContext(ctx, "hooks starting", "env", cfg.Env, "port", cfg.Port)

	server := app.New(ctx, cfg)
	if err := server.Start(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to start http server", "error", err)
		_ = server.Stop(ctx)
		_ = telemetry.Shutdown(ctx)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-quit:
		slog.InfoContext(ctx, "shutting down...", "signal", sig.String())
	case err := <-server.Errors():
		if err != nil {
			slog.ErrorContext(ctx, "http server error", "error", err)
			exitCode = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "shutdown error", "error", err)
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
	cancel()
	os.Exit(exitCode)
}

const banner = `
██╗  ██╗ ██████╗  ██████╗ ██╗  ██╗███████╗
██║  ██║██╔═══██╗██╔═══██╗██║ ██╔╝██╔════╝
███████║██║   ██║██║   ██║█████╔╝ ███████╗
██╔══██║██║   ██║██║   ██║██╔═██╗ ╚════██║
██║  ██║╚██████╔╝╚██████╔╝██║  ██╗███████║
╚═╝  ╚═╝ ╚═════╝  ╚═════╝ ╚═╝  ╚═╝╚══════╝
`
