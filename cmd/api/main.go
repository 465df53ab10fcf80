package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/hulltrace/internal/adapters/http"
	natsadapter "github.com/samirrijal/hulltrace/internal/adapters/nats"
	"github.com/samirrijal/hulltrace/internal/adapters/valkey"
	"github.com/samirrijal/hulltrace/internal/core/usecases"
	"github.com/samirrijal/hulltrace/internal/pkg/config"
	"github.com/samirrijal/hulltrace/internal/pkg/logging"
	"github.com/samirrijal/hulltrace/internal/pkg/telemetry"
)

var version = "dev"

func main() {
	cfg, err := config.Load("hulltrace-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Endpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	opts := []usecases.Option{
		usecases.WithMaxPoints(cfg.Hull.MaxPoints),
		usecases.WithLogger(slog.Default()),
	}
	deps := &http.Dependencies{
		RequestTimeout: cfg.Hull.Timeout(),
		Version:        version,
	}

	// Cache
	if cfg.Valkey.Enabled {
		cache, err := valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable, results will not be cached", "error", err)
		} else {
			defer cache.Close()
			opts = append(opts, usecases.WithCache(cache, cfg.Hull.CacheTTL))
			deps.Cache = cache
		}
	}

	// NATS: JetStream for run events, the same connection relays them over WebSocket
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, run events disabled", "error", err)
		} else {
			defer pub.Close()
			opts = append(opts, usecases.WithPublisher(pub))
			deps.NATS = pub.Conn()
		}
	}

	deps.Hull = usecases.NewHullService(opts...)

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		AppName:      "HullTrace API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "version", version, "max_points", cfg.Hull.MaxPoints)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
