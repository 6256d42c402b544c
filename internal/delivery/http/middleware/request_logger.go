package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/phuslu/log"
)

// RequestLogger logs one structured event per request after the handler ran.
func RequestLogger(logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		entry := logger.Info()
		if status >= fiber.StatusInternalServerError {
			entry = logger.Error()
		} else if status >= fiber.StatusBadRequest {
			entry = logger.Warn()
		}

		entry.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Msg("HTTP request")

		return err
	}
}
