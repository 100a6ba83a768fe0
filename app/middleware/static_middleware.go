package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// PlugStatic keeps well-known probe paths away from the static chat page
// handler and logs every API request with its latency.
func PlugStatic(apiPrefix string) fiber.Handler {
	logger := slog.Default()

	return func(c *fiber.Ctx) error {
		path := c.Path()

		if strings.HasPrefix(path, "/.well-known/") {
			return c.JSON(fiber.Map{
				"status": "ignored dynamic-static",
			})
		}

		if !strings.HasPrefix(path, apiPrefix) {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()
		logger.Info("[HTTP] request handled",
			"method", c.Method(),
			"path", path,
			"status", c.Response().StatusCode(),
			"elapsed", time.Since(start),
		)
		return err
	}
}
