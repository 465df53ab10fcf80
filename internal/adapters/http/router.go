package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/hulltrace/internal/core/domain"
	"github.com/samirrijal/hulltrace/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Step lists compress well
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", deps.version())
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())
	app.Use(DeprecationMiddleware(legacyRoutes))

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1
	v1 := app.Group("/v1")
	v1.Get("/algorithms", AlgorithmsHandler(deps))
	v1.Post("/hull/:algorithm", timeout.NewWithContext(HullHandler(deps), deps.timeout()))
	v1.Post("/compare", timeout.NewWithContext(CompareHandler(deps), deps.timeout()))

	// Unversioned endpoints of the first release
	for _, alg := range domain.Algorithms {
		app.Post("/"+string(alg), timeout.NewWithContext(LegacyHullHandler(deps, alg), deps.timeout()))
	}
	app.Post("/compare", timeout.NewWithContext(CompareHandler(deps), deps.timeout()))
	app.Get("/api-info", APIInfoHandler(deps))
	app.Get("/health", HealthHandler(deps))

	// GraphQL
	app.Post("/graphql", timeout.NewWithContext(GraphQLHandler(deps), deps.timeout()))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/trace", websocket.New(TraceWebSocketHandler(deps)))
	app.Get("/ws/runs", websocket.New(RunsWebSocketHandler(deps.NATS)))
}
