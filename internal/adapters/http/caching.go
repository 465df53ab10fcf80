package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control on responses the handler left alone.
// Hull results carry a measured execution time, so computations are never
// cached by intermediaries; static descriptions are.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if existing := c.GetRespHeader(fiber.HeaderCacheControl); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case c.Method() != fiber.MethodGet:
			ttl = "no-store"

		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10" // Very short for system checks

		case path == "/v1/algorithms" || path == "/api-info":
			ttl = "public, max-age=3600" // Changes only with a deploy

		case strings.HasPrefix(path, "/docs"):
			ttl = "public, max-age=3600"

		case path == "/metrics":
			ttl = "no-cache"
		}

		if ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}

		return err
	}
}
